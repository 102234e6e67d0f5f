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

package record

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Field is one named value of a decoded record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered sequence of fields. Lookups return the first match;
// duplicate names are allowed and are used to group repeated substructures.
type Record []Field

func (r *Record) Append(name string, v Value) {
	*r = append(*r, Field{Name: name, Value: v})
}

// Index returns the position of the first field called name, or -1.
func (r Record) Index(name string) int {
	for i := range r {
		if r[i].Name == name {
			return i
		}
	}
	return -1
}

// Get returns the value of the first field called name.
func (r Record) Get(name string) (Value, bool) {
	if i := r.Index(name); i >= 0 {
		return r[i].Value, true
	}
	return Value{}, false
}

// UInt is a shortcut for integer fields; ok is false if the field is missing.
func (r Record) UInt(name string) (uint64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	return v.UInt(), true
}

// Replace overwrites the first field called name in place, keeping its
// position. It returns false if there is no such field.
func (r Record) Replace(name string, v Value) bool {
	i := r.Index(name)
	if i < 0 {
		return false
	}
	r[i].Value = v
	return true
}

// ReplaceLabel maps the integer held by the field called name through labels
// and stores the label instead. Values missing from labels become fallback.
func (r Record) ReplaceLabel(name string, labels map[uint64]string, fallback string) bool {
	v, ok := r.Get(name)
	if !ok {
		return false
	}
	label, found := labels[v.UInt()]
	if !found {
		label = fallback
	}
	return r.Replace(name, Str(label))
}

// Names returns field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i := range r {
		names[i] = r[i].Name
	}
	return names
}

func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i].Name != o[i].Name || !r[i].Value.Equal(o[i].Value) {
			return false
		}
	}
	return true
}

var _ msgpack.CustomEncoder = Record(nil)

// EncodeMsgpack writes the record as a msgpack map keeping field order.
func (r Record) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(r)); err != nil {
		return err
	}
	for _, f := range r {
		if err := enc.EncodeString(f.Name); err != nil {
			return err
		}
		if err := encodeValue(enc, f.Value); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(enc *msgpack.Encoder, v Value) error {
	switch v.Kind {
	case KindUInt:
		return enc.EncodeUint(v.u)
	case KindInt:
		return enc.EncodeInt(v.i)
	case KindFloat:
		return enc.EncodeFloat64(v.f)
	case KindStr:
		return enc.EncodeString(v.s)
	case KindDateTime:
		return enc.EncodeTime(v.t.In(time.UTC))
	case KindList:
		if err := enc.EncodeArrayLen(len(v.list)); err != nil {
			return err
		}
		for _, sub := range v.list {
			if err := sub.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	}
	return enc.EncodeNil()
}
