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

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// LogConfigLayerNum identifies the layer
	LogConfigLayerNum = 2103
)

// LogConfigOp is the operation of a log configuration command.
type LogConfigOp int32

const (
	LogConfigDisable        LogConfigOp = 0
	LogConfigRetrieveRanges LogConfigOp = 1
	LogConfigSetMask        LogConfigOp = 3
	LogConfigGetMask        LogConfigOp = 4
)

var logConfigOpNames = map[LogConfigOp]string{
	LogConfigDisable:        "Disable",
	LogConfigRetrieveRanges: "RetrieveIDRanges",
	LogConfigSetMask:        "SetMask",
	LogConfigGetMask:        "GetMask",
}

func (op LogConfigOp) String() string {
	if name, ok := logConfigOpNames[op]; ok {
		return name
	}
	return fmt.Sprintf("LogConfigOp(%d)", int32(op))
}

func (op LogConfigOp) hasMask() bool {
	return op == LogConfigSetMask || op == LogConfigGetMask
}

// MaskLen returns the number of mask bytes that cover itemCount items.
func MaskLen(itemCount int32) int {
	if itemCount <= 0 {
		return 0
	}
	return int((int64(itemCount) + 7) / 8)
}

// LogConfigLayer is the body of a log configuration command (0x73) after the
// command byte. Requests and responses share the layout except for the
// Status word responses carry after the opcode.
type LogConfigLayer struct {
	layers.BaseLayer
	Response  bool
	Opcode    LogConfigOp
	Status    int32
	EquipID   int32
	ItemCount int32
	Mask      []byte
}

var LogConfigLayerType = gopacket.RegisterLayerType(LogConfigLayerNum,
	gopacket.LayerTypeMetadata{Name: "LogConfigLayerType", Decoder: gopacket.DecodeFunc(decodeLogConfigLayer)})

func (lc *LogConfigLayer) LayerType() gopacket.LayerType {
	return LogConfigLayerType
}

// Len returns the serialized size of the layer.
func (lc *LogConfigLayer) Len() int {
	n := 3 + 4
	if lc.Response {
		n += 4
	}
	if lc.Opcode.hasMask() {
		n += 8 + MaskLen(lc.ItemCount)
	}
	return n
}

// Serialize writes the layer to buf which must be at least Len() bytes.
func (lc *LogConfigLayer) Serialize(buf []byte) {
	// three reserved bytes complete the 32 bit command header
	buf[0], buf[1], buf[2] = 0, 0, 0
	binary.LittleEndian.PutUint32(buf[3:7], uint32(lc.Opcode))
	off := 7
	if lc.Response {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(lc.Status))
		off += 4
	}
	if !lc.Opcode.hasMask() {
		return
	}
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(lc.EquipID))
	binary.LittleEndian.PutUint32(buf[off+4:off+8], uint32(lc.ItemCount))
	off += 8
	mask := buf[off : off+MaskLen(lc.ItemCount)]
	for i := range mask {
		mask[i] = 0
	}
	copy(mask, lc.Mask)
}

// SerializeTo serializes the log configuration command into bytes and writes the bytes to the SerializeBuffer
func (lc *LogConfigLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.AppendBytes(lc.Len())
	if err != nil {
		return err
	}
	lc.Serialize(bytes)
	return nil
}

// DecodeFromBytes decodes a log configuration response; commands received
// from a device are always responses.
func (lc *LogConfigLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < 11 {
		df.SetTruncated()
		return errors.New("LogConfig packet too short")
	}
	lc.Response = true
	lc.Opcode = LogConfigOp(binary.LittleEndian.Uint32(data[3:7]))
	lc.Status = int32(binary.LittleEndian.Uint32(data[7:11]))
	end := 11
	if lc.Opcode.hasMask() && len(data) >= 19 {
		lc.EquipID = int32(binary.LittleEndian.Uint32(data[11:15]))
		lc.ItemCount = int32(binary.LittleEndian.Uint32(data[15:19]))
		end = 19 + MaskLen(lc.ItemCount)
		if end < 19 || end > len(data) {
			df.SetTruncated()
			return fmt.Errorf("LogConfig mask for %d items truncated", lc.ItemCount)
		}
		lc.Mask = data[19:end]
	}
	lc.BaseLayer = layers.BaseLayer{
		Contents: data[:end],
		Payload:  data[end:],
	}
	return nil
}

func (lc *LogConfigLayer) CanDecode() gopacket.LayerClass {
	return LogConfigLayerType
}

func (lc *LogConfigLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

func decodeLogConfigLayer(data []byte, p gopacket.PacketBuilder) error {
	lc := &LogConfigLayer{}
	err := lc.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(lc)
	return nil
}
