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
	"bytes"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

func TestFirstMatchWins(t *testing.T) {
	var r Record
	r.Append("Cell", UInt(1))
	r.Append("Cell", UInt(2))
	v, ok := r.Get("Cell")
	if !ok || v.UInt() != 1 {
		t.Fatalf("Get(Cell) = %v %t", v, ok)
	}
	if !r.Replace("Cell", Str("first")) {
		t.Fatal("Replace failed")
	}
	if r[0].Value.Str() != "first" || r[1].Value.UInt() != 2 {
		t.Fatalf("Replace touched the wrong field: %v", r)
	}
	if r.Replace("Missing", UInt(0)) {
		t.Fatal("Replace of a missing field succeeded")
	}
}

func TestReplaceLabel(t *testing.T) {
	labels := map[uint64]string{0: "DEREGISTERED", 2: "REGISTERED"}
	r := Record{{Name: "State", Value: UInt(2)}, {Name: "Substate", Value: UInt(9)}}
	r.ReplaceLabel("State", labels, "(unknown)")
	r.ReplaceLabel("Substate", labels, "(unknown)")
	if got := r[0].Value; got.Kind != KindStr || got.Str() != "REGISTERED" {
		t.Errorf("State = %v", got)
	}
	if got := r[1].Value.Str(); got != "(unknown)" {
		t.Errorf("Substate = %s", got)
	}
}

func TestValueConversions(t *testing.T) {
	if Int(-5).Float() != -5 || UInt(7).Int() != 7 || Float(1.5).UInt() != 0 {
		t.Fatal("numeric conversions")
	}
	if KindDateTime.String() != "datetime" || Kind(42).String() != "Kind(42)" {
		t.Fatal("kind names")
	}
	nested := List([]Record{{{Name: "a", Value: UInt(1)}}})
	if !nested.Equal(List([]Record{{{Name: "a", Value: UInt(1)}}})) {
		t.Fatal("equal lists reported different")
	}
	if nested.Equal(List(nil)) {
		t.Fatal("different lists reported equal")
	}
}

func TestEncodeMsgpackKeepsOrder(t *testing.T) {
	ts := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	r := Record{
		{Name: "z", Value: UInt(1)},
		{Name: "a", Value: Float(-55)},
		{Name: "when", Value: DateTime(ts)},
		{Name: "cells", Value: List([]Record{{{Name: "pci", Value: UInt(7)}}})},
	}
	data, err := msgpack.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	n, err := dec.DecodeMapLen()
	if err != nil || n != 4 {
		t.Fatalf("map len %d err %v", n, err)
	}
	for _, want := range []string{"z", "a", "when", "cells"} {
		key, err := dec.DecodeString()
		if err != nil {
			t.Fatal(err)
		}
		if key != want {
			t.Fatalf("key %q, want %q", key, want)
		}
		if err := dec.Skip(); err != nil {
			t.Fatal(err)
		}
	}
}
