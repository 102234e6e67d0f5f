/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package control

import (
	"context"
	"errors"
	"io"
	"sync"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/config"
	"jinr.ru/greenlab/go-diag/pkg/export"
	"jinr.ru/greenlab/go-diag/pkg/log"
	"jinr.ru/greenlab/go-diag/pkg/logcfg"
	"jinr.ru/greenlab/go-diag/pkg/msgs"
	"jinr.ru/greenlab/go-diag/pkg/session"
	"jinr.ru/greenlab/go-diag/pkg/srv"
	"jinr.ru/greenlab/go-diag/pkg/srv/control/ifc"
	"jinr.ru/greenlab/go-diag/pkg/state"
)

const (
	OutChSize = 64
)

type ControlServer struct {
	context.Context
	*config.Config
	port     io.ReadWriter
	portName string
	catalog  *catalog.Catalog
	session  *session.Session
	filter   *export.Filter
	state    *state.State
	api      ifc.ApiServer

	// serializes writes to the port together with the stored masks
	mu sync.Mutex
}

var _ ifc.ControlServer = &ControlServer{}

// NewControlServer wires a session to port and restores the masks and
// export settings stored by a previous run, then enables cfg.Enable.
func NewControlServer(ctx context.Context, cfg *config.Config, port io.ReadWriter, portName string) (ifc.ControlServer, error) {
	log.Debug("Initializing control server for port %s", portName)

	st, err := state.NewState(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	filter := export.New()
	s := &ControlServer{
		Context:  ctx,
		Config:   cfg,
		port:     port,
		portName: portName,
		catalog:  catalog.Default(),
		filter:   filter,
		state:    st,
	}
	s.session = session.New(
		session.WithRegistry(msgs.NewDefault(s.catalog)),
		session.WithExport(filter),
	)

	apiServer, err := NewApiServer(ctx, cfg, s)
	if err != nil {
		s.close()
		return nil, err
	}
	s.api = apiServer

	if err := s.restore(); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *ControlServer) close() {
	if err := s.filter.Close(); err != nil {
		log.Error("Error while closing export filter: %s", err)
	}
	if err := s.state.Close(); err != nil {
		log.Error("Error while closing state: %s", err)
	}
}

func (s *ControlServer) restore() error {
	masks, err := s.state.GetMaskAll()
	if err != nil {
		return err
	}
	for _, m := range masks {
		log.Info("Restoring mask for equip id %d: %d types", m.EquipID, len(m.TypeIDs()))
		if err := s.write(m); err != nil {
			return err
		}
	}

	path, types, err := s.state.GetExport()
	if err != nil {
		return err
	}
	if path == "" && s.Config.Export != nil && s.Config.Export.Path != "" {
		path = s.Config.Export.Path
		if types, err = s.catalog.Resolve(s.Config.Export.Types); err != nil {
			return err
		}
	}
	if path != "" {
		if err := s.ConfigureExport(path, types); err != nil {
			return err
		}
	}

	if len(s.Config.Enable) > 0 {
		ids, err := s.catalog.Resolve(s.Config.Enable)
		if err != nil {
			return err
		}
		if _, err := s.EnableLogs(ids); err != nil {
			return err
		}
	}
	return nil
}

// Run decodes the port until it is exhausted or the context is done, and
// serves the API meanwhile.
func (s *ControlServer) Run() error {
	defer s.close()

	errChan := make(chan error, 2)
	results := make(chan *session.Result, OutChSize)

	go func() {
		errChan <- s.session.Run(s.Context, s.port, results)
	}()
	go func() {
		errChan <- s.api.Run()
	}()

	for {
		select {
		case <-s.Context.Done():
			return s.Context.Err()
		case res := <-results:
			s.handle(res)
		case err := <-errChan:
			for {
				select {
				case res := <-results:
					s.handle(res)
				default:
					return err
				}
			}
		}
	}
}

func (s *ControlServer) handle(res *session.Result) {
	switch {
	case !res.CRCOK:
		log.Debug("Frame with bad CRC dropped: %d bytes", len(res.Payload))
	case res.Err != nil:
		log.Debug("Frame not decoded: %s", res.Err)
	case res.Log != nil:
		log.Debug("Log 0x%04X %s: %s", res.Log.TypeID, res.Log.Name, res.Log.Status)
	default:
		log.Debug("Diag response: %s", res.Command)
	}
}

func (s *ControlServer) write(m *logcfg.Message) error {
	if s.port == nil {
		return srv.ErrNoPort
	}
	frame, err := m.Frame()
	if err != nil {
		return err
	}
	log.Debug("Writing %s for equip id %d: %d bytes", m.Opcode, m.EquipID, len(frame))
	if _, err := s.port.Write(frame); err != nil {
		return srv.ErrPortWrite{Err: err}
	}
	return nil
}

// EnableLogs adds ids to the masks already enabled for their equip ids.
func (s *ControlServer) EnableLogs(ids []uint16) ([]*logcfg.Message, error) {
	if len(ids) == 0 {
		return nil, logcfg.ErrNoTypes
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all := append([]uint16(nil), ids...)
	touched := map[uint8]bool{}
	for _, id := range ids {
		equip := catalog.EquipID(id)
		if touched[equip] {
			continue
		}
		touched[equip] = true
		m, err := s.state.GetMask(equip)
		if errors.Is(err, state.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		all = append(all, m.TypeIDs()...)
	}

	messages, err := logcfg.Group(all)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		if err := s.write(m); err != nil {
			return nil, err
		}
		if err := s.state.SetMask(m); err != nil {
			return nil, err
		}
	}
	return messages, nil
}

func (s *ControlServer) DisableLogs() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(logcfg.Disable()); err != nil {
		return err
	}
	return s.state.ClearMasks()
}

// ConfigureExport switches the export sink. An empty path stops exporting.
func (s *ControlServer) ConfigureExport(path string, ids []uint16) error {
	log.Info("Export to %q: %d types", path, len(ids))
	if err := s.filter.Configure(path, ids); err != nil {
		return err
	}
	return s.state.SetExport(path, ids)
}

func (s *ControlServer) Masks() ([]*logcfg.Message, error) {
	return s.state.GetMaskAll()
}

func (s *ControlServer) Status() ifc.Status {
	return ifc.Status{
		Port:    s.portName,
		Session: s.session.Stats(),
		Export:  s.filter.Stats(),
	}
}

func (s *ControlServer) Catalog() *catalog.Catalog {
	return s.catalog
}
