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
	"encoding/binary"
)

const (
	// FlagByte delimits frames on the wire
	FlagByte = 0x7E
	// EscapeByte precedes a byte that was XORed with EscapeXor
	EscapeByte = 0x7D
	EscapeXor  = 0x20
	// CRCLen is the size of the trailing checksum in bytes
	CRCLen = 2
)

// Frame is one de-escaped Diag frame with its checksum stripped.
// Payload is never modified once the frame has been extracted.
type Frame struct {
	Payload []byte
	CRCOK   bool
}

func needsEscape(b byte) bool {
	return b == FlagByte || b == EscapeByte
}

// Escape byte-stuffs data so that it contains neither FlagByte nor EscapeByte.
func Escape(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/8+2)
	for _, b := range data {
		if needsEscape(b) {
			out = append(out, EscapeByte, b^EscapeXor)
			continue
		}
		out = append(out, b)
	}
	return out
}

// Unescape reverses Escape. The boolean is false when the data ends in the
// middle of an escape sequence; the dangling escape byte is dropped.
func Unescape(data []byte) ([]byte, bool) {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b != EscapeByte {
			out = append(out, b)
			continue
		}
		i++
		if i >= len(data) {
			return out, false
		}
		out = append(out, data[i]^EscapeXor)
	}
	return out, true
}

// Encode appends the CRC to payload, escapes the result and wraps it in
// leading and trailing flag bytes.
func Encode(payload []byte) []byte {
	raw := make([]byte, len(payload)+CRCLen)
	copy(raw, payload)
	binary.LittleEndian.PutUint16(raw[len(payload):], CRC16(payload))
	escaped := Escape(raw)
	out := make([]byte, 0, len(escaped)+2)
	out = append(out, FlagByte)
	out = append(out, escaped...)
	return append(out, FlagByte)
}

// Decode interprets one segment found between two flag bytes.
// A checksum mismatch is not an error: the payload is returned with CRCOK unset.
func Decode(segment []byte) Frame {
	raw, complete := Unescape(segment)
	if len(raw) < CRCLen {
		return Frame{Payload: []byte{}, CRCOK: false}
	}
	payload := raw[:len(raw)-CRCLen]
	got := binary.LittleEndian.Uint16(raw[len(raw)-CRCLen:])
	return Frame{
		Payload: payload,
		CRCOK:   complete && got == CRC16(payload),
	}
}
