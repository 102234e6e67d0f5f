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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/config"
	"jinr.ru/greenlab/go-diag/pkg/log"
	"jinr.ru/greenlab/go-diag/pkg/logcfg"
	"jinr.ru/greenlab/go-diag/pkg/srv"
	"jinr.ru/greenlab/go-diag/pkg/srv/control/ifc"
)

const (
	ContentType = "application/json"
)

// LogsRequest names the log types to enable. Hex ids ("0xB0C2") are accepted.
type LogsRequest struct {
	Types []string
}

type ExportRequest struct {
	Path  string
	Types []string
}

// Mask is a SET_MASK as stored by the server.
type Mask struct {
	EquipID   int32
	ItemCount int32
	Types     []string
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error("Recovered from panic in API handler: %s", fmt.Sprint(v...))
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	ctrl ifc.ControlServer
}

var _ ifc.ApiServer = &ApiServer{}

func NewApiServer(ctx context.Context, cfg *config.Config, ctrl ifc.ControlServer) (ifc.ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.API.Address, cfg.API.Port)

	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		ctrl:    ctrl,
	}
	s.configureRouter()
	return s, nil
}

// Run serves the API until the context is done.
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s port: %d", s.Config.API.Address, s.Config.API.Port)
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    fmt.Sprintf("%s:%d", s.Config.API.Address, s.Config.API.Port),
	}
	go func() {
		<-s.Context.Done()
		httpServer.Close()
	}()
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Handler returns the router wrapped with request logging, panic recovery
// and the JSON content type check for request bodies.
func (s *ApiServer) Handler() http.Handler {
	var h http.Handler = s.Router
	h = handlers.ContentTypeHandler(h, ContentType)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(h)
	return handlers.LoggingHandler(log.DebugWriter(), h)
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/catalog", s.handleCatalog()).Methods("GET")
	subRouter.HandleFunc("/status", s.handleStatus()).Methods("GET")
	subRouter.HandleFunc("/logs", s.handleLogs()).Methods("GET")
	subRouter.HandleFunc("/logs/{action}", s.handleLogsAction()).Methods("POST")
	subRouter.HandleFunc("/export", s.handleExport()).Methods("POST")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", ContentType)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding API response: %s", err)
	}
}

// requestError maps errors caused by the request itself to 400.
func requestError(err error) bool {
	var unknown catalog.ErrUnknownType
	var mixed logcfg.ErrMixedEquipID
	return errors.As(err, &unknown) || errors.As(err, &mixed) || errors.Is(err, logcfg.ErrNoTypes)
}

func (s *ApiServer) mask(m *logcfg.Message) Mask {
	names := []string{}
	for _, id := range m.TypeIDs() {
		names = append(names, s.ctrl.Catalog().Name(id))
	}
	return Mask{
		EquipID:   m.EquipID,
		ItemCount: m.ItemCount,
		Types:     names,
	}
}

func (s *ApiServer) masks(messages []*logcfg.Message) []Mask {
	out := []Mask{}
	for _, m := range messages {
		out = append(out, s.mask(m))
	}
	return out
}

func (s *ApiServer) handleCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
		log.Debug("Handling catalog request: all: %t", all)
		entries := s.ctrl.Catalog().Public()
		if all {
			entries = s.ctrl.Catalog().Entries()
		}
		writeJSON(w, entries)
	}
}

func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling status request")
		writeJSON(w, s.ctrl.Status())
	}
}

func (s *ApiServer) handleLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling logs request")
		messages, err := s.ctrl.Masks()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, s.masks(messages))
	}
}

func (s *ApiServer) handleLogsAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling logs action request: action: %s", vars["action"])
		switch vars["action"] {
		case "enable":
			req := &LogsRequest{}
			if err := json.NewDecoder(r.Body).Decode(req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			ids, err := s.ctrl.Catalog().Resolve(req.Types)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			messages, err := s.ctrl.EnableLogs(ids)
			if err != nil {
				status := http.StatusBadGateway
				if requestError(err) {
					status = http.StatusBadRequest
				}
				http.Error(w, err.Error(), status)
				return
			}
			writeJSON(w, s.masks(messages))
		case "disable":
			if err := s.ctrl.DisableLogs(); err != nil {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			writeJSON(w, []Mask{})
		default:
			err := srv.ErrUnknownOperation{
				What: "Wrong logs action. Must be one of enable/disable",
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
}

func (s *ApiServer) handleExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &ExportRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Debug("Handling export request: path: %s types: %v", req.Path, req.Types)
		ids, err := s.ctrl.Catalog().Resolve(req.Types)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.ctrl.ConfigureExport(req.Path, ids); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, s.ctrl.Status().Export)
	}
}
