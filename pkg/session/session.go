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

// Package session turns a Diag byte stream into decoded results.
package session

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-diag/pkg/export"
	"jinr.ru/greenlab/go-diag/pkg/hdlc"
	"jinr.ru/greenlab/go-diag/pkg/layers"
	"jinr.ru/greenlab/go-diag/pkg/log"
	"jinr.ru/greenlab/go-diag/pkg/msgs"
)

const (
	// ReadBufSize is the chunk size Run reads from its source
	ReadBufSize = 4096
	// InChSize bounds the chunks read ahead of the decoder
	InChSize = 64
)

// Result is one frame taken from the stream. Log is set for log packets.
// Err reports a frame that could not be decoded; it is never fatal.
type Result struct {
	Payload []byte
	CRCOK   bool
	Command layers.DiagCommand
	Log     *msgs.LogRecord
	Err     error
}

type Stats struct {
	Frames         uint64
	BadCRC         uint64
	Logs           uint64
	Decoded        uint64
	Raw            uint64
	UnknownVersion uint64
	Truncated      uint64
	Errors         uint64
	Exported       uint64
	Buffered       int
}

type Option func(*Session)

// WithRegistry sets the decoders. The default is msgs.Default().
func WithRegistry(r *msgs.Registry) Option {
	return func(s *Session) {
		s.registry = r
	}
}

// WithExport passes every valid log packet to f.
func WithExport(f *export.Filter) Option {
	return func(s *Session) {
		s.export = f
	}
}

// WithSynced treats the first byte of the stream as the start of a frame.
// Use it for captures, not for a port that may be opened mid-frame.
func WithSynced() Option {
	return func(s *Session) {
		s.framer = hdlc.NewSyncedFramer()
	}
}

// Session owns the framer and decodes frames strictly in arrival order.
// Feed, Reset and Next must be called from one goroutine; Stats may be
// called from any.
type Session struct {
	framer   *hdlc.Framer
	registry *msgs.Registry
	export   *export.Filter

	mu    sync.Mutex
	stats Stats
}

func New(opts ...Option) *Session {
	s := &Session{
		framer:   hdlc.NewFramer(),
		registry: msgs.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Feed(data []byte) {
	s.framer.Feed(data)
	s.mu.Lock()
	s.stats.Buffered = s.framer.Buffered()
	s.mu.Unlock()
}

// Reset drops everything buffered, e.g. after the port was reopened.
func (s *Session) Reset() {
	s.framer.Reset()
	s.mu.Lock()
	s.stats.Buffered = 0
	s.mu.Unlock()
}

// Next returns the next complete frame, decoded if its checksum is valid.
func (s *Session) Next() (*Result, bool) {
	frame, ok := s.framer.Next()
	if !ok {
		return nil, false
	}
	res := &Result{Payload: frame.Payload, CRCOK: frame.CRCOK}
	if frame.CRCOK {
		s.decode(res)
	}
	s.count(res)
	return res, true
}

func (s *Session) decode(res *Result) {
	packet := gopacket.NewPacket(res.Payload, layers.DiagLayerType, gopacket.NoCopy)
	if d, ok := packet.Layer(layers.DiagLayerType).(*layers.DiagLayer); ok {
		res.Command = d.Command
	}
	if l, ok := packet.Layer(layers.LogLayerType).(*layers.LogLayer); ok {
		res.Log = l.Record(s.registry)
		if s.export != nil && s.export.Export(res.Payload, l.LogType) {
			s.mu.Lock()
			s.stats.Exported++
			s.mu.Unlock()
		}
	}
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		res.Err = errLayer.Error()
		log.Debug("Error while decoding frame %x: %s", res.Payload, res.Err)
	}
}

func (s *Session) count(res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Frames++
	s.stats.Buffered = s.framer.Buffered()
	if !res.CRCOK {
		s.stats.BadCRC++
	}
	if res.Err != nil {
		s.stats.Errors++
	}
	if res.Log == nil {
		return
	}
	s.stats.Logs++
	switch res.Log.Status {
	case msgs.StatusDecoded:
		s.stats.Decoded++
	case msgs.StatusRaw:
		s.stats.Raw++
	case msgs.StatusUnknownVersion:
		s.stats.UnknownVersion++
	case msgs.StatusTruncated:
		s.stats.Truncated++
	}
}

func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Run reads r until EOF or until ctx is done and sends every frame to out in
// arrival order. Reading runs in its own goroutine and is decoupled from
// decoding by a bounded channel. Run does not close out.
func (s *Session) Run(ctx context.Context, r io.Reader, out chan<- *Result) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks := make(chan []byte, InChSize)
	errChan := make(chan error, 1)
	go func() {
		defer close(chunks)
		for {
			// ports with a read timeout return empty reads
			if ctx.Err() != nil {
				return
			}
			buf := make([]byte, ReadBufSize)
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case chunks <- buf[:n]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					errChan <- err
				}
				return
			}
		}
	}()

	for {
		var chunk []byte
		select {
		case c, ok := <-chunks:
			if !ok {
				select {
				case err := <-errChan:
					return err
				default:
					return nil
				}
			}
			chunk = c
		case <-ctx.Done():
			return ctx.Err()
		}

		s.Feed(chunk)
		for {
			res, ok := s.Next()
			if !ok {
				break
			}
			select {
			case out <- res:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
