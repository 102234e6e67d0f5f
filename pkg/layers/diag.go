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
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"jinr.ru/greenlab/go-diag/pkg/log"
)

func init() {
	initUnknownDiagCommands()
	initActualDiagCommands()
}

const (
	// DiagLayerNum identifies the layer
	DiagLayerNum = 2101
)

// DiagCommand is the first byte of every Diag payload.
type DiagCommand uint8

const (
	DiagCmdVersionInfo   DiagCommand = 0x00
	DiagCmdESN           DiagCommand = 0x01
	DiagCmdStatus        DiagCommand = 0x0C
	DiagCmdLog           DiagCommand = 0x10
	DiagCmdBadCmd        DiagCommand = 0x13
	DiagCmdBadParm       DiagCommand = 0x14
	DiagCmdBadLen        DiagCommand = 0x15
	DiagCmdBadMode       DiagCommand = 0x18
	DiagCmdTimestamp     DiagCommand = 0x1D
	DiagCmdSubsys        DiagCommand = 0x4B
	DiagCmdEventReport   DiagCommand = 0x60
	DiagCmdLogConfig     DiagCommand = 0x73
	DiagCmdExtMsg        DiagCommand = 0x79
	DiagCmdExtMsgConfig  DiagCommand = 0x7D
	DiagCmdMultiRadioCmd DiagCommand = 0x98
)

type errorDecoderForDiagCommand int

func (e *errorDecoderForDiagCommand) Decode(data []byte, p gopacket.PacketBuilder) error {
	return e
}

func (e *errorDecoderForDiagCommand) Error() string {
	return fmt.Sprintf("Unable to decode Diag command 0x%02X", int(*e))
}

var errorDecodersForDiagCommand [256]errorDecoderForDiagCommand
var DiagCommandMetadata [256]layers.EnumMetadata

func initUnknownDiagCommands() {
	for i := 0; i < 256; i++ {
		errorDecodersForDiagCommand[i] = errorDecoderForDiagCommand(i)
		DiagCommandMetadata[i] = layers.EnumMetadata{
			DecodeWith: &errorDecodersForDiagCommand[i],
			Name:       "UnknownDiagCommand",
		}
	}
}

func initActualDiagCommands() {
	DiagCommandMetadata[DiagCmdLog] = layers.EnumMetadata{DecodeWith: gopacket.DecodeFunc(decodeLogLayer), Name: "Log", LayerType: LogLayerType}
	DiagCommandMetadata[DiagCmdLogConfig] = layers.EnumMetadata{DecodeWith: gopacket.DecodeFunc(decodeLogConfigLayer), Name: "LogConfig", LayerType: LogConfigLayerType}

	// commands this module only names
	named := map[DiagCommand]string{
		DiagCmdVersionInfo:   "VersionInfo",
		DiagCmdESN:           "ESN",
		DiagCmdStatus:        "Status",
		DiagCmdBadCmd:        "BadCmd",
		DiagCmdBadParm:       "BadParm",
		DiagCmdBadLen:        "BadLen",
		DiagCmdBadMode:       "BadMode",
		DiagCmdTimestamp:     "Timestamp",
		DiagCmdSubsys:        "Subsys",
		DiagCmdEventReport:   "EventReport",
		DiagCmdExtMsg:        "ExtMsg",
		DiagCmdExtMsgConfig:  "ExtMsgConfig",
		DiagCmdMultiRadioCmd: "MultiRadioCmd",
	}
	for cmd, name := range named {
		DiagCommandMetadata[cmd] = layers.EnumMetadata{DecodeWith: gopacket.DecodePayload, Name: name, LayerType: gopacket.LayerTypePayload}
	}
}

// LayerType returns DiagCommandMetadata.LayerType
func (c DiagCommand) LayerType() gopacket.LayerType {
	return DiagCommandMetadata[c].LayerType
}

// Decode calls DiagCommandMetadata.DecodeWith's decoder
func (c DiagCommand) Decode(data []byte, p gopacket.PacketBuilder) error {
	return DiagCommandMetadata[c].DecodeWith.Decode(data, p)
}

// String returns DiagCommandMetadata.Name
func (c DiagCommand) String() string {
	return DiagCommandMetadata[c].Name
}

// DiagLayer holds the command byte of an unframed Diag payload.
type DiagLayer struct {
	layers.BaseLayer
	Command DiagCommand
}

var DiagLayerType = gopacket.RegisterLayerType(DiagLayerNum,
	gopacket.LayerTypeMetadata{Name: "DiagLayerType", Decoder: gopacket.DecodeFunc(decodeDiagLayer)})

func (d *DiagLayer) LayerType() gopacket.LayerType {
	return DiagLayerType
}

// SerializeTo prepends the command byte to the SerializeBuffer
func (d *DiagLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.PrependBytes(1)
	if err != nil {
		return err
	}
	bytes[0] = uint8(d.Command)
	return nil
}

func (d *DiagLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < 1 {
		df.SetTruncated()
		return errors.New("Diag packet is empty")
	}
	d.BaseLayer = layers.BaseLayer{
		Contents: data[0:1],
		Payload:  data[1:],
	}
	d.Command = DiagCommand(data[0])
	return nil
}

func (d *DiagLayer) CanDecode() gopacket.LayerClass {
	return DiagLayerType
}

func (d *DiagLayer) NextLayerType() gopacket.LayerType {
	return d.Command.LayerType()
}

func decodeDiagLayer(data []byte, p gopacket.PacketBuilder) error {
	d := &DiagLayer{}
	err := d.DecodeFromBytes(data, p)
	if err != nil {
		log.Debug("Error while decoding diag layer: %s", err)
		return err
	}
	p.AddLayer(d)
	return p.NextDecoder(d.Command)
}
