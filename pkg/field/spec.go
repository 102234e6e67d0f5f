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

package field

import (
	"fmt"
)

// Kind selects how the bytes of a field are interpreted.
type Kind uint8

const (
	KindUInt Kind = iota
	KindUIntBE
	KindByteStream
	KindByteStreamLE
	KindBitStream
	KindBitStreamLE
	KindPLMNMk1
	KindPLMNMk2
	KindQCDMTimestamp
	KindBandwidth
	KindRSRP
	KindRSRQ
	KindWCDMAMeas
	KindSkip
	KindPlaceholder
)

var kindNames = map[Kind]string{
	KindUInt:          "UINT",
	KindUIntBE:        "UINT_BIG_ENDIAN",
	KindByteStream:    "BYTE_STREAM",
	KindByteStreamLE:  "BYTE_STREAM_LITTLE_ENDIAN",
	KindBitStream:     "BIT_STREAM",
	KindBitStreamLE:   "BIT_STREAM_LITTLE_ENDIAN",
	KindPLMNMk1:       "PLMN_MK1",
	KindPLMNMk2:       "PLMN_MK2",
	KindQCDMTimestamp: "QCDM_TIMESTAMP",
	KindBandwidth:     "BANDWIDTH",
	KindRSRP:          "RSRP",
	KindRSRQ:          "RSRQ",
	KindWCDMAMeas:     "WCDMA_MEAS",
	KindSkip:          "SKIP",
	KindPlaceholder:   "PLACEHOLDER",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Spec describes one field of a fixed format table.
type Spec struct {
	Kind Kind
	Name string
	Len  int
}

// Table is an ordered list of field specs. Tables are package level values
// built once per message type and version.
type Table []Spec

// Size returns the number of bytes the table consumes.
func (t Table) Size() int {
	n := 0
	for _, s := range t {
		n += s.Len
	}
	return n
}

// Validate checks that every spec has a length its kind supports.
func (t Table) Validate() error {
	for i, s := range t {
		if err := s.validate(); err != nil {
			return fmt.Errorf("spec %d (%q): %w", i, s.Name, err)
		}
	}
	return nil
}

func (s Spec) validate() error {
	switch s.Kind {
	case KindUInt, KindUIntBE:
		switch s.Len {
		case 1, 2, 4, 8:
			return nil
		}
		return ErrSpec{Kind: s.Kind, Len: s.Len}
	case KindPLMNMk1:
		return expectLen(s, 6)
	case KindPLMNMk2:
		return expectLen(s, 3)
	case KindQCDMTimestamp:
		return expectLen(s, 8)
	case KindBandwidth, KindWCDMAMeas:
		return expectLen(s, 1)
	case KindRSRP, KindRSRQ:
		return expectLen(s, 2)
	case KindPlaceholder:
		return expectLen(s, 0)
	case KindByteStream, KindByteStreamLE, KindBitStream, KindBitStreamLE, KindSkip:
		if s.Len < 0 {
			return ErrSpec{Kind: s.Kind, Len: s.Len}
		}
		return nil
	}
	return ErrSpec{Kind: s.Kind, Len: s.Len}
}

func expectLen(s Spec, n int) error {
	if s.Len != n {
		return ErrSpec{Kind: s.Kind, Len: s.Len}
	}
	return nil
}

func UInt(name string, n int) Spec         { return Spec{Kind: KindUInt, Name: name, Len: n} }
func UIntBE(name string, n int) Spec       { return Spec{Kind: KindUIntBE, Name: name, Len: n} }
func ByteStream(name string, n int) Spec   { return Spec{Kind: KindByteStream, Name: name, Len: n} }
func ByteStreamLE(name string, n int) Spec { return Spec{Kind: KindByteStreamLE, Name: name, Len: n} }
func BitStream(name string, n int) Spec    { return Spec{Kind: KindBitStream, Name: name, Len: n} }
func BitStreamLE(name string, n int) Spec  { return Spec{Kind: KindBitStreamLE, Name: name, Len: n} }
func PLMNMk1(name string) Spec             { return Spec{Kind: KindPLMNMk1, Name: name, Len: 6} }
func PLMNMk2(name string) Spec             { return Spec{Kind: KindPLMNMk2, Name: name, Len: 3} }
func QCDMTimestamp(name string) Spec       { return Spec{Kind: KindQCDMTimestamp, Name: name, Len: 8} }
func Bandwidth(name string) Spec           { return Spec{Kind: KindBandwidth, Name: name, Len: 1} }
func RSRP(name string) Spec                { return Spec{Kind: KindRSRP, Name: name, Len: 2} }
func RSRQ(name string) Spec                { return Spec{Kind: KindRSRQ, Name: name, Len: 2} }
func WCDMAMeas(name string) Spec           { return Spec{Kind: KindWCDMAMeas, Name: name, Len: 1} }
func Skip(n int) Spec                      { return Spec{Kind: KindSkip, Len: n} }
func Placeholder(name string) Spec         { return Spec{Kind: KindPlaceholder, Name: name} }
