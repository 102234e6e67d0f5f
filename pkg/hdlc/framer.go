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

package hdlc

import (
	"bytes"
)

// Framer reassembles frames from a byte stream that may arrive in arbitrary
// chunks. It is not safe for concurrent use.
//
// Until the first flag byte is seen the framer is unsynchronised and every byte
// before that flag is treated as garbage. Captures that are known to start on
// a frame boundary (such as raw log files written by the export filter or by
// the device) should use NewSyncedFramer.
type Framer struct {
	buf          []byte
	synced       bool
	assumeSynced bool
}

// NewFramer returns a framer which discards everything up to the first flag byte.
func NewFramer() *Framer {
	return &Framer{}
}

// NewSyncedFramer returns a framer which treats the first byte as the start of a frame.
func NewSyncedFramer() *Framer {
	return &Framer{synced: true, assumeSynced: true}
}

// Feed appends data to the internal buffer. It never blocks.
func (f *Framer) Feed(data []byte) {
	f.buf = append(f.buf, data...)
}

// Reset drops buffered bytes and returns the framer to its initial
// synchronisation state. Nothing is emitted for a partially received frame.
func (f *Framer) Reset() {
	f.buf = nil
	f.synced = f.assumeSynced
}

// Buffered returns the number of bytes waiting for a terminating flag.
func (f *Framer) Buffered() int {
	return len(f.buf)
}

// Next extracts the next complete frame. It returns false when the buffer does
// not hold a terminated frame yet; the partial data stays buffered, so an escape
// byte at the very end of the buffer is never consumed early.
func (f *Framer) Next() (Frame, bool) {
	for {
		i := bytes.IndexByte(f.buf, FlagByte)
		if i < 0 {
			return Frame{}, false
		}
		segment := f.buf[:i]
		f.buf = f.buf[i+1:]
		if len(f.buf) == 0 {
			f.buf = nil
		}
		if !f.synced {
			f.synced = true
			continue
		}
		if len(segment) == 0 {
			continue
		}
		return Decode(segment), true
	}
}
