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
	"bytes"
	"errors"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"jinr.ru/greenlab/go-diag/pkg/hdlc"
)

const (
	// HDLCLayerNum identifies the layer
	HDLCLayerNum = 2100
)

// HDLCLayer is the async HDLC envelope of a Diag payload: flag delimited,
// byte stuffed and protected by a CRC-16.
type HDLCLayer struct {
	layers.BaseLayer
	CRCOK bool
}

var HDLCLayerType = gopacket.RegisterLayerType(HDLCLayerNum,
	gopacket.LayerTypeMetadata{Name: "HDLCLayerType", Decoder: gopacket.DecodeFunc(decodeHDLCLayer)})

func (h *HDLCLayer) LayerType() gopacket.LayerType {
	return HDLCLayerType
}

// SerializeTo replaces the buffer contents with their framed form. It must
// be the outermost layer passed to gopacket.SerializeLayers.
func (h *HDLCLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	framed := hdlc.Encode(b.Bytes())
	if err := b.Clear(); err != nil {
		return err
	}
	bytes, err := b.AppendBytes(len(framed))
	if err != nil {
		return err
	}
	copy(bytes, framed)
	h.CRCOK = true
	return nil
}

// DecodeFromBytes decodes one frame. Leading and trailing flag bytes are
// optional.
func (h *HDLCLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	segment := bytes.TrimPrefix(data, []byte{hdlc.FlagByte})
	segment = bytes.TrimSuffix(segment, []byte{hdlc.FlagByte})
	if bytes.IndexByte(segment, hdlc.FlagByte) >= 0 {
		return errors.New("HDLC frame contains more than one frame")
	}
	frame := hdlc.Decode(segment)
	if len(frame.Payload) == 0 {
		df.SetTruncated()
		return errors.New("HDLC frame too short")
	}
	h.CRCOK = frame.CRCOK
	h.BaseLayer = layers.BaseLayer{
		Contents: data,
		Payload:  frame.Payload,
	}
	return nil
}

func (h *HDLCLayer) CanDecode() gopacket.LayerClass {
	return HDLCLayerType
}

// NextLayerType stops decoding at frames with a bad checksum.
func (h *HDLCLayer) NextLayerType() gopacket.LayerType {
	if !h.CRCOK {
		return gopacket.LayerTypePayload
	}
	return DiagLayerType
}

func decodeHDLCLayer(data []byte, p gopacket.PacketBuilder) error {
	h := &HDLCLayer{}
	err := h.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(h)
	return p.NextDecoder(h.NextLayerType())
}
