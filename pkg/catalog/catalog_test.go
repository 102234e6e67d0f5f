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
	"errors"
	"testing"
)

func TestDefaultCatalogLookups(t *testing.T) {
	c := Default()
	e, ok := c.ByName("LTE_RRC_Serv_Cell_Info")
	if !ok || e.TypeID != LteRrcServCellInfo {
		t.Fatalf("ByName = %+v %t", e, ok)
	}
	if e.EquipID() != EquipLTE {
		t.Fatalf("EquipID = 0x%x", e.EquipID())
	}
	back, ok := c.ByID(e.TypeID)
	if !ok || back.Name != e.Name {
		t.Fatalf("ByID = %+v %t", back, ok)
	}
	if c.Name(0x0001) != "Unknown_0x0001" {
		t.Fatalf("Name(unknown) = %s", c.Name(0x0001))
	}
	for i := 1; i < len(c.Entries()); i++ {
		if c.Entries()[i-1].TypeID >= c.Entries()[i].TypeID {
			t.Fatal("entries not sorted by id")
		}
	}
	for _, p := range c.Public() {
		if !p.Public {
			t.Fatalf("internal entry %s in Public()", p.Name)
		}
	}
}

func TestResolve(t *testing.T) {
	c := Default()
	ids, err := c.Resolve([]string{"LTE_NAS_EMM_State", "0x4127", "0xb179"})
	if err != nil {
		t.Fatal(err)
	}
	want := []uint16{LteNasEmmState, WcdmaRrcServCellInfo, LtePhyConnectedModeIntraFreq}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %x, want %x", ids, want)
		}
	}
	_, err = c.Resolve([]string{"LTE_NAS_EMM_State", "NOT_A_TYPE"})
	var unknown ErrUnknownType
	if !errors.As(err, &unknown) || unknown.Name != "NOT_A_TYPE" {
		t.Fatalf("err = %v", err)
	}
	if _, err := c.Resolve([]string{"0xFFFF"}); err == nil {
		t.Fatal("uncatalogued hex id resolved")
	}
}

func TestNewPanicsOnDuplicates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New([]Entry{{1, "A", true}, {1, "B", true}})
}

func TestIDHelpers(t *testing.T) {
	if EquipID(0x100A) != EquipCDMA || ItemID(0x100A) != 0x00A {
		t.Fatal("equip/item split")
	}
}
