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

// Package export copies selected raw frames to a capture file.
package export

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"jinr.ru/greenlab/go-diag/pkg/hdlc"
	"jinr.ru/greenlab/go-diag/pkg/log"
)

const (
	// CmdChSize bounds the frames waiting for the writer goroutine
	CmdChSize = 256
)

var ErrClosed = errors.New("export filter closed")

type command struct {
	frame []byte
	// configure
	path  string
	reply chan error
	// close
	exit bool
}

// Stats counts frames handed to the sink.
type Stats struct {
	Path     string
	Types    []uint16
	Exported uint64
	Errors   uint64
}

// Filter writes frames whose log type is whitelisted to a sink file. The
// file is owned by one goroutine; every call reaches it through a single
// ordered channel, so frames land in the order Export was called.
type Filter struct {
	mu        sync.Mutex
	cmds      chan command
	done      chan struct{}
	whitelist map[uint16]struct{}
	path      string
	closed    bool
	exported  uint64
	// updated by the writer goroutine, which never takes mu
	writeErrors atomic.Uint64
}

func New() *Filter {
	f := &Filter{
		cmds:      make(chan command, CmdChSize),
		done:      make(chan struct{}),
		whitelist: map[uint16]struct{}{},
	}
	go f.run()
	return f
}

func (f *Filter) run() {
	defer close(f.done)
	var w *Writer
	flush := func() error {
		if w == nil {
			return nil
		}
		err := w.Flush()
		if err != nil {
			log.Error("Error while closing export file %s: %s", w.Name(), err)
		}
		w = nil
		return err
	}
	for cmd := range f.cmds {
		switch {
		case cmd.exit:
			cmd.reply <- flush()
			return
		case cmd.reply != nil:
			flush()
			var err error
			if cmd.path != "" {
				w, err = NewWriter(cmd.path)
			}
			cmd.reply <- err
		case w != nil:
			if _, err := w.Write(cmd.frame); err != nil {
				log.Error("Error while writing to export file %s: %s", w.Name(), err)
				f.writeErrors.Add(1)
			}
		}
	}
}

// Configure switches to a new sink and whitelist. The previous sink is
// closed first. An empty path leaves the filter without a sink.
func (f *Filter) Configure(path string, whitelist []uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	reply := make(chan error, 1)
	f.cmds <- command{path: path, reply: reply}
	err := <-reply

	f.whitelist = make(map[uint16]struct{}, len(whitelist))
	for _, id := range whitelist {
		f.whitelist[id] = struct{}{}
	}
	f.path = path
	if err != nil {
		f.path = ""
	}
	return err
}

// Export frames payload again and queues it for the sink if typeID is
// whitelisted. It reports whether the frame was queued.
func (f *Filter) Export(payload []byte, typeID uint16) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.path == "" {
		return false
	}
	if _, ok := f.whitelist[typeID]; !ok {
		return false
	}
	f.cmds <- command{frame: hdlc.Encode(payload)}
	f.exported++
	return true
}

// Enabled reports whether frames of typeID would be exported.
func (f *Filter) Enabled(typeID uint16) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.whitelist[typeID]
	return ok && f.path != "" && !f.closed
}

func (f *Filter) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]uint16, 0, len(f.whitelist))
	for id := range f.whitelist {
		types = append(types, id)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return Stats{
		Path:     f.path,
		Types:    types,
		Exported: f.exported,
		Errors:   f.writeErrors.Load(),
	}
}

// Close flushes queued frames, closes the sink and stops the writer.
func (f *Filter) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	reply := make(chan error, 1)
	f.cmds <- command{exit: true, reply: reply}
	f.mu.Unlock()

	err := <-reply
	<-f.done
	return err
}
