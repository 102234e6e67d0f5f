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

package layers

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"jinr.ru/greenlab/go-diag/pkg/field"
	"jinr.ru/greenlab/go-diag/pkg/msgs"
)

const (
	// LogLayerNum identifies the layer
	LogLayerNum = 2102
	// LogHeaderLen is the log header size after the command byte:
	// more(1) len1(2) len2(2) log_type(2) timestamp(8)
	LogHeaderLen = 15
	// logLen2Base is the part of len2 that counts len2, log_type and timestamp
	logLen2Base = 12
)

// LogLayer is a log packet (command 0x10). Its payload is the type specific
// log body.
type LogLayer struct {
	layers.BaseLayer
	More    uint8
	Len1    uint16
	Len2    uint16
	LogType uint16
	Ticks   uint64
}

var LogLayerType = gopacket.RegisterLayerType(LogLayerNum,
	gopacket.LayerTypeMetadata{Name: "LogLayerType", Decoder: gopacket.DecodeFunc(decodeLogLayer)})

func (l *LogLayer) LayerType() gopacket.LayerType {
	return LogLayerType
}

// Timestamp converts the chip timestamp of the packet.
func (l *LogLayer) Timestamp() time.Time {
	return field.QCDMTime(l.Ticks)
}

// SerializeTo prepends the log header to the body already in the buffer.
// Length fields are recomputed when opts.FixLengths is set.
func (l *LogLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bodyLen := len(b.Bytes())
	bytes, err := b.PrependBytes(LogHeaderLen)
	if err != nil {
		return err
	}
	if opts.FixLengths {
		l.Len2 = uint16(logLen2Base + bodyLen)
		l.Len1 = l.Len2
	}
	bytes[0] = l.More
	binary.LittleEndian.PutUint16(bytes[1:3], l.Len1)
	binary.LittleEndian.PutUint16(bytes[3:5], l.Len2)
	binary.LittleEndian.PutUint16(bytes[5:7], l.LogType)
	binary.LittleEndian.PutUint64(bytes[7:15], l.Ticks)
	return nil
}

// DecodeFromBytes decodes the log header. A len2 pointing past the end of the
// frame is reported as truncation and the body keeps what is there.
func (l *LogLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < LogHeaderLen {
		df.SetTruncated()
		return errors.New("Log packet too short")
	}
	l.More = data[0]
	l.Len1 = binary.LittleEndian.Uint16(data[1:3])
	l.Len2 = binary.LittleEndian.Uint16(data[3:5])
	l.LogType = binary.LittleEndian.Uint16(data[5:7])
	l.Ticks = binary.LittleEndian.Uint64(data[7:15])

	end := len(data)
	if l.Len2 < logLen2Base {
		return fmt.Errorf("Wrong log packet length %d", l.Len2)
	}
	if want := 3 + int(l.Len2); want < end {
		end = want
	} else if want > end {
		df.SetTruncated()
	}
	l.BaseLayer = layers.BaseLayer{
		Contents: data[:LogHeaderLen],
		Payload:  data[LogHeaderLen:end],
	}
	return nil
}

func (l *LogLayer) CanDecode() gopacket.LayerClass {
	return LogLayerType
}

func (l *LogLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

// Record decodes the log body with reg.
func (l *LogLayer) Record(reg *msgs.Registry) *msgs.LogRecord {
	lr := reg.Decode(l.LogType, l.Payload)
	lr.Timestamp = l.Timestamp()
	return lr
}

func decodeLogLayer(data []byte, p gopacket.PacketBuilder) error {
	l := &LogLayer{}
	err := l.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(l)
	return p.NextDecoder(gopacket.LayerTypePayload)
}
