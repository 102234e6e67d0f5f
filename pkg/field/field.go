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
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"jinr.ru/greenlab/go-diag/pkg/record"
)

const (
	// QCDMTicksPerSecond is the rate of the 64-bit chip timestamp counter
	QCDMTicksPerSecond = 52428800
)

// QCDMEpoch is the zero point of chip timestamps (GPS epoch).
var QCDMEpoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

// Decode walks table over buf starting at offset and appends the resulting
// fields to rec. It returns the number of bytes consumed.
//
// If the table does not fit into the buffer nothing is appended and a
// *DecodeError wrapping ErrOutOfRange is returned. A malformed spec is
// reported as ErrSpec before anything is appended too, so a failed table
// never leaves a half decoded record behind.
func Decode(table Table, buf []byte, offset int, rec *record.Record) (int, error) {
	if offset < 0 || offset > len(buf) {
		var first Spec
		if len(table) > 0 {
			first = table[0]
		}
		return 0, newRangeError(first, offset, len(buf)-offset)
	}
	pos := offset
	for _, s := range table {
		if err := s.validate(); err != nil {
			return 0, err
		}
		if pos+s.Len > len(buf) {
			return 0, newRangeError(s, pos, len(buf)-pos)
		}
		pos += s.Len
	}

	pos = offset
	for _, s := range table {
		data := buf[pos : pos+s.Len]
		pos += s.Len
		if s.Kind == KindSkip {
			continue
		}
		v, err := interpret(s, data)
		if err != nil {
			return 0, err
		}
		rec.Append(s.Name, v)
	}
	return pos - offset, nil
}

func interpret(s Spec, data []byte) (record.Value, error) {
	switch s.Kind {
	case KindUInt:
		return record.UInt(leUint(data)), nil
	case KindUIntBE:
		return record.UInt(leUint(reversed(data))), nil
	case KindByteStream:
		return record.Str("0x" + hex.EncodeToString(data)), nil
	case KindByteStreamLE:
		return record.Str("0x" + hex.EncodeToString(reversed(data))), nil
	case KindBitStream:
		return record.Str(bitString(data)), nil
	case KindBitStreamLE:
		return record.Str(bitString(reversed(data))), nil
	case KindPLMNMk1:
		return record.Str(fmt.Sprintf("%d%d%d-%d%d%d",
			data[0], data[1], data[2], data[3], data[4], data[5])), nil
	case KindPLMNMk2:
		return record.Str(plmnMk2(data)), nil
	case KindQCDMTimestamp:
		return record.DateTime(QCDMTime(binary.LittleEndian.Uint64(data))), nil
	case KindBandwidth:
		return record.Str(fmt.Sprintf("%d MHz", data[0]/5)), nil
	case KindRSRP:
		return record.Float(float64(int16(binary.LittleEndian.Uint16(data)))*0.0625 - 180), nil
	case KindRSRQ:
		return record.Float(float64(int16(binary.LittleEndian.Uint16(data)))*0.0625 - 30), nil
	case KindWCDMAMeas:
		return record.Int(int64(data[0]) - 256), nil
	case KindPlaceholder:
		return record.UInt(0), nil
	}
	return record.Value{}, ErrSpec{Kind: s.Kind, Len: s.Len}
}

// QCDMTime converts a chip timestamp counter into wall clock time with
// microsecond resolution.
func QCDMTime(ticks uint64) time.Time {
	seconds := ticks / QCDMTicksPerSecond
	micros := (ticks % QCDMTicksPerSecond) * 1000000 / QCDMTicksPerSecond
	return time.Unix(QCDMEpoch.Unix()+int64(seconds), int64(micros)*1000).UTC()
}

func leUint(data []byte) uint64 {
	switch len(data) {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(data))
	case 4:
		return uint64(binary.LittleEndian.Uint32(data))
	case 8:
		return binary.LittleEndian.Uint64(data)
	}
	var v uint64
	for i := len(data) - 1; i >= 0; i-- {
		v = v<<8 | uint64(data[i])
	}
	return v
}

func reversed(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[len(data)-1-i] = b
	}
	return out
}

func bitString(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data) * 8)
	for _, b := range data {
		for bit := 7; bit >= 0; bit-- {
			if b&(1<<uint(bit)) != 0 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

// plmnMk2 decodes a semi-octet MCC/MNC triplet. A filler nibble (>= 10) in
// the MNC third digit position means a two digit MNC.
func plmnMk2(data []byte) string {
	mcc1, mcc2 := data[0]&0x0F, data[0]>>4
	mcc3, mnc3 := data[1]&0x0F, data[1]>>4
	mnc1, mnc2 := data[2]&0x0F, data[2]>>4
	if mnc3 >= 10 {
		return fmt.Sprintf("%d%d%d-%d%d", mcc1, mcc2, mcc3, mnc1, mnc2)
	}
	return fmt.Sprintf("%d%d%d-%d%d%d", mcc1, mcc2, mcc3, mnc1, mnc2, mnc3)
}
