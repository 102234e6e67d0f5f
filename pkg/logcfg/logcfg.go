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

// Package logcfg builds the log configuration commands that select which log
// types a device emits.
package logcfg

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/layers"
)

// HeaderCode is the first word of every log configuration command.
const HeaderCode = int32(layers.DiagCmdLogConfig)

var ErrNoTypes = errors.New("no log types given")

// ErrMixedEquipID is returned when a mask request spans technologies.
type ErrMixedEquipID struct {
	EquipIDs []uint8
}

func (e ErrMixedEquipID) Error() string {
	return fmt.Sprintf("log types belong to different equipment ids %v", e.EquipIDs)
}

// Message is one log configuration command. DISABLE carries only the opcode.
type Message struct {
	Opcode    layers.LogConfigOp
	EquipID   int32
	ItemCount int32
	Mask      []byte
}

// SetMask enables exactly the given log types. All ids must share the same
// equipment id.
func SetMask(ids []uint16) (*Message, error) {
	if len(ids) == 0 {
		return nil, ErrNoTypes
	}
	equip := catalog.EquipID(ids[0])
	maxItem := catalog.ItemID(ids[0])
	for _, id := range ids[1:] {
		if catalog.EquipID(id) != equip {
			return nil, ErrMixedEquipID{EquipIDs: equipIDs(ids)}
		}
		if item := catalog.ItemID(id); item > maxItem {
			maxItem = item
		}
	}

	m := &Message{
		Opcode:    layers.LogConfigSetMask,
		EquipID:   int32(equip),
		ItemCount: int32(maxItem) + 1,
	}
	m.Mask = make([]byte, layers.MaskLen(m.ItemCount))
	for _, id := range ids {
		item := catalog.ItemID(id)
		m.Mask[item/8] |= 1 << (item % 8)
	}
	return m, nil
}

// Disable turns off every log type of every technology.
func Disable() *Message {
	return &Message{Opcode: layers.LogConfigDisable}
}

// GetRange and GetMask are not supported; they build nothing.
func GetRange() *Message { return nil }
func GetMask() *Message  { return nil }

// SetMaskByName resolves names through cat before building the mask.
func SetMaskByName(cat *catalog.Catalog, names []string) (*Message, error) {
	ids, err := cat.Resolve(names)
	if err != nil {
		return nil, err
	}
	return SetMask(ids)
}

// Group splits ids by equipment id and builds one SET_MASK per technology,
// in ascending equipment id order.
func Group(ids []uint16) ([]*Message, error) {
	if len(ids) == 0 {
		return nil, ErrNoTypes
	}
	byEquip := map[uint8][]uint16{}
	for _, id := range ids {
		equip := catalog.EquipID(id)
		byEquip[equip] = append(byEquip[equip], id)
	}
	var messages []*Message
	for _, equip := range equipIDs(ids) {
		m, err := SetMask(byEquip[equip])
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func equipIDs(ids []uint16) []uint8 {
	seen := map[uint8]bool{}
	var out []uint8
	for _, id := range ids {
		if equip := catalog.EquipID(id); !seen[equip] {
			seen[equip] = true
			out = append(out, equip)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether the mask enables typeID.
func (m *Message) Has(typeID uint16) bool {
	if m.Opcode != layers.LogConfigSetMask || int32(catalog.EquipID(typeID)) != m.EquipID {
		return false
	}
	item := catalog.ItemID(typeID)
	if int(item/8) >= len(m.Mask) {
		return false
	}
	return m.Mask[item/8]&(1<<(item%8)) != 0
}

// TypeIDs lists the log types enabled by the mask.
func (m *Message) TypeIDs() []uint16 {
	if m.Opcode != layers.LogConfigSetMask {
		return nil
	}
	var ids []uint16
	for item := int32(0); item < m.ItemCount && int(item/8) < len(m.Mask); item++ {
		if m.Mask[item/8]&(1<<(item%8)) != 0 {
			ids = append(ids, uint16(m.EquipID)<<12|uint16(item))
		}
	}
	return ids
}

func (m *Message) layer() *layers.LogConfigLayer {
	return &layers.LogConfigLayer{
		Opcode:    m.Opcode,
		EquipID:   m.EquipID,
		ItemCount: m.ItemCount,
		Mask:      m.Mask,
	}
}

// Bytes returns the unframed command.
func (m *Message) Bytes() ([]byte, error) {
	return m.serialize()
}

// Frame returns the command ready to be written to a diagnostic port.
func (m *Message) Frame() ([]byte, error) {
	return m.serialize(&layers.HDLCLayer{})
}

func (m *Message) serialize(outer ...gopacket.SerializableLayer) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{}
	l := append(outer, &layers.DiagLayer{Command: layers.DiagCmdLogConfig}, m.layer())
	if err := gopacket.SerializeLayers(buf, opts, l...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
