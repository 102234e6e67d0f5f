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

package msgs

import (
	"jinr.ru/greenlab/go-diag/pkg/field"
	"jinr.ru/greenlab/go-diag/pkg/record"
)

// counts come from the wire, so they only bound the loop
const maxListPrealloc = 64

// PostFunc rewrites a freshly decoded (sub)record, typically unpacking bit
// fields into placeholders and mapping integers to labels.
type PostFunc func(rec record.Record)

// DecodeList decodes count consecutive sub-records laid out by table and
// appends them to rec as one list field called name. A sub-record that does
// not fit is dropped and ends the loop since the offsets after it are
// unknown. The list collected so far is appended in any case.
func DecodeList(rec *record.Record, name string, table field.Table, count int, buf []byte, off int, post PostFunc) (int, error) {
	capacity := count
	if capacity > maxListPrealloc {
		capacity = maxListPrealloc
	} else if capacity < 0 {
		capacity = 0
	}
	items := make([]record.Record, 0, capacity)
	pos := off
	var err error
	for i := 0; i < count; i++ {
		var item record.Record
		n, decodeErr := field.Decode(table, buf, pos, &item)
		if decodeErr != nil {
			err = decodeErr
			break
		}
		pos += n
		if post != nil {
			post(item)
		}
		items = append(items, item)
	}
	rec.Append(name, record.List(items))
	return pos - off, err
}

// reader keeps the running offset for a decoder made of several tables.
type reader struct {
	buf   []byte
	start int
	off   int
	rec   *record.Record
}

func newReader(buf []byte, off int, rec *record.Record) *reader {
	return &reader{buf: buf, start: off, off: off, rec: rec}
}

func (r *reader) table(t field.Table) error {
	n, err := field.Decode(t, r.buf, r.off, r.rec)
	r.off += n
	return err
}

func (r *reader) list(name string, t field.Table, count uint64, post PostFunc) error {
	n, err := DecodeList(r.rec, name, t, int(count), r.buf, r.off, post)
	r.off += n
	return err
}

func (r *reader) consumed() int {
	return r.off - r.start
}

func (r *reader) uint(name string) uint64 {
	v, _ := r.rec.UInt(name)
	return v
}
