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

package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Entry describes one Diag log type.
type Entry struct {
	TypeID uint16 `json:"TypeID"`
	Name   string `json:"Name"`
	Public bool   `json:"Public"`
}

// EquipID returns the log configuration equipment id (top nibble of the type id).
func (e Entry) EquipID() uint8 {
	return EquipID(e.TypeID)
}

// EquipID returns the top nibble of a type id.
func EquipID(typeID uint16) uint8 {
	return uint8(typeID >> 12)
}

// ItemID returns the low 12 bits of a type id.
func ItemID(typeID uint16) uint16 {
	return typeID & 0x0FFF
}

// ErrUnknownType is returned when a name or id is not in the catalog.
type ErrUnknownType struct {
	Name string
}

func (e ErrUnknownType) Error() string {
	return fmt.Sprintf("Unknown log type: %s", e.Name)
}

// Catalog is a bidirectional name/type id map. It is immutable after New.
type Catalog struct {
	entries []Entry
	byID    map[uint16]int
	byName  map[string]int
}

// New builds a catalog. Duplicate ids or names panic since catalogs are
// authored as package level data.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		byID:    make(map[uint16]int, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].TypeID < c.entries[j].TypeID })
	for i, e := range c.entries {
		if _, dup := c.byID[e.TypeID]; dup {
			panic(fmt.Sprintf("catalog: duplicate type id 0x%04x", e.TypeID))
		}
		if _, dup := c.byName[e.Name]; dup {
			panic(fmt.Sprintf("catalog: duplicate type name %s", e.Name))
		}
		c.byID[e.TypeID] = i
		c.byName[e.Name] = i
	}
	return c
}

func (c *Catalog) ByID(typeID uint16) (Entry, bool) {
	i, ok := c.byID[typeID]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

func (c *Catalog) ByName(name string) (Entry, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Name returns the type name, or a hex placeholder for unknown ids.
func (c *Catalog) Name(typeID uint16) string {
	if e, ok := c.ByID(typeID); ok {
		return e.Name
	}
	return fmt.Sprintf("Unknown_0x%04X", typeID)
}

// Resolve translates names into type ids. Names may also be given as hex
// ids ("0xB0C2"). The first unknown name aborts the whole request.
func (c *Catalog) Resolve(names []string) ([]uint16, error) {
	ids := make([]uint16, 0, len(names))
	for _, name := range names {
		if e, ok := c.ByName(name); ok {
			ids = append(ids, e.TypeID)
			continue
		}
		var id uint16
		if strings.HasPrefix(strings.ToLower(name), "0x") {
			if _, err := fmt.Sscanf(name[2:], "%x", &id); err == nil {
				if _, ok := c.ByID(id); ok {
					ids = append(ids, id)
					continue
				}
			}
		}
		return nil, ErrUnknownType{Name: name}
	}
	return ids, nil
}

// Entries returns all entries ordered by type id.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Public returns the entries that are exposed to users.
func (c *Catalog) Public() []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Public {
			out = append(out, e)
		}
	}
	return out
}
