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

package state

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"jinr.ru/greenlab/go-diag/pkg/layers"
	"jinr.ru/greenlab/go-diag/pkg/log"
	"jinr.ru/greenlab/go-diag/pkg/logcfg"
)

const (
	MaskBucketName   = "mask"
	ExportBucketName = "export"
)

var (
	exportPathKey  = []byte("path")
	exportTypesKey = []byte("types")
)

var ErrNotFound = errors.New("not found")

// State persists the log masks applied to the device and the export
// settings, so the daemon can restore them after a restart.
type State struct {
	context.Context
	DB *bbolt.DB
}

func NewState(ctx context.Context, path string) (*State, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{MaskBucketName, ExportBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &State{
		Context: ctx,
		DB:      db,
	}, nil
}

func (s *State) Close() error {
	return s.DB.Close()
}

func bucket(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(name))
	if b == nil {
		return nil, fmt.Errorf("Bucket not found: %s", name)
	}
	return b, nil
}

func encodeMask(m *logcfg.Message) []byte {
	value := make([]byte, 4+len(m.Mask))
	binary.BigEndian.PutUint32(value[0:4], uint32(m.ItemCount))
	copy(value[4:], m.Mask)
	return value
}

func decodeMask(equip uint8, value []byte) (*logcfg.Message, error) {
	if len(value) < 4 {
		return nil, fmt.Errorf("Corrupted mask for equip id %d", equip)
	}
	return &logcfg.Message{
		Opcode:    layers.LogConfigSetMask,
		EquipID:   int32(equip),
		ItemCount: int32(binary.BigEndian.Uint32(value[0:4])),
		Mask:      append([]byte(nil), value[4:]...),
	}, nil
}

// SetMask records a SET_MASK that was written to the device. It replaces the
// mask stored for the same equipment id.
func (s *State) SetMask(m *logcfg.Message) error {
	if m.Opcode != layers.LogConfigSetMask {
		return fmt.Errorf("Not a mask: %s", m.Opcode)
	}
	log.Debug("Storing mask: equip id %d, %d items", m.EquipID, m.ItemCount)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, MaskBucketName)
		if err != nil {
			return err
		}
		return b.Put([]byte{uint8(m.EquipID)}, encodeMask(m))
	})
}

func (s *State) GetMask(equip uint8) (*logcfg.Message, error) {
	var m *logcfg.Message
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, MaskBucketName)
		if err != nil {
			return err
		}
		value := b.Get([]byte{equip})
		if value == nil {
			return fmt.Errorf("Mask for equip id %d: %w", equip, ErrNotFound)
		}
		m, err = decodeMask(equip, value)
		return err
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMaskAll returns stored masks in ascending equipment id order.
func (s *State) GetMaskAll() ([]*logcfg.Message, error) {
	log.Debug("Getting all masks")
	var masks []*logcfg.Message
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, MaskBucketName)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			m, err := decodeMask(k[0], v)
			if err != nil {
				return err
			}
			masks = append(masks, m)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return masks, nil
}

// ClearMasks forgets every mask, matching a DISABLE sent to the device.
func (s *State) ClearMasks() error {
	log.Debug("Clearing masks")
	return s.DB.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(MaskBucketName)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket([]byte(MaskBucketName))
		return err
	})
}

func (s *State) SetExport(path string, types []uint16) error {
	log.Debug("Storing export settings: %s %d types", path, len(types))
	value := make([]byte, 2*len(types))
	for i, id := range types {
		binary.BigEndian.PutUint16(value[2*i:], id)
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, ExportBucketName)
		if err != nil {
			return err
		}
		if err := b.Put(exportPathKey, []byte(path)); err != nil {
			return err
		}
		return b.Put(exportTypesKey, value)
	})
}

// GetExport returns the stored export settings; an empty path means none.
func (s *State) GetExport() (string, []uint16, error) {
	var path string
	var types []uint16
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, ExportBucketName)
		if err != nil {
			return err
		}
		path = string(b.Get(exportPathKey))
		value := b.Get(exportTypesKey)
		for i := 0; i+1 < len(value); i += 2 {
			types = append(types, binary.BigEndian.Uint16(value[i:]))
		}
		return nil
	}); err != nil {
		return "", nil, err
	}
	return path, types, nil
}
