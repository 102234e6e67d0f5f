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

package msgs

import (
	"bytes"
	"errors"
	"testing"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/field"
	"jinr.ru/greenlab/go-diag/pkg/record"
)

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func mustUInt(t *testing.T, rec record.Record, name string, want uint64) {
	t.Helper()
	got, ok := rec.UInt(name)
	if !ok || got != want {
		t.Fatalf("%s = %d (%t), want %d", name, got, ok, want)
	}
}

func mustStr(t *testing.T, rec record.Record, name, want string) {
	t.Helper()
	v, ok := rec.Get(name)
	if !ok || v.Kind != record.KindStr || v.Str() != want {
		t.Fatalf("%s = %v (%t), want %q", name, v, ok, want)
	}
}

func mustFloat(t *testing.T, rec record.Record, name string, want float64) {
	t.Helper()
	v, ok := rec.Get(name)
	if !ok || v.Kind != record.KindFloat || v.Float() != want {
		t.Fatalf("%s = %v (%t), want %v", name, v, ok, want)
	}
}

func mustList(t *testing.T, rec record.Record, name string, n int) []record.Record {
	t.Helper()
	v, ok := rec.Get(name)
	if !ok || v.Kind != record.KindList || len(v.List()) != n {
		t.Fatalf("%s = %v (%t), want list of %d", name, v, ok, n)
	}
	return v.List()
}

var servCellInfoV2 = join(
	[]byte{0x02},
	[]byte{0x2A, 0x00},
	[]byte{0x3A, 0x07},
	[]byte{0x8A, 0x4D},
	[]byte{100, 50},
	[]byte{0x01, 0x02, 0x03, 0x00},
	[]byte{0x39, 0x30},
	[]byte{0x03, 0x00, 0x00, 0x00},
	[]byte{0x36, 0x01},
	[]byte{0x03},
	[]byte{0x04, 0x01},
	[]byte{0x01},
)

func TestLteRrcServCellInfo(t *testing.T) {
	lr := Default().Decode(catalog.LteRrcServCellInfo, servCellInfoV2)
	if lr.Status != StatusDecoded {
		t.Fatalf("status = %s, warnings %v", lr.Status, lr.Warnings)
	}
	if lr.Name != "LTE_RRC_Serv_Cell_Info" {
		t.Fatalf("name = %s", lr.Name)
	}
	rec := lr.Fields
	if rec[0].Name != VersionField {
		t.Fatalf("first field = %s", rec[0].Name)
	}
	mustUInt(t, rec, "Version", 2)
	mustUInt(t, rec, "Cell ID", 42)
	mustUInt(t, rec, "Downlink frequency", 1850)
	mustUInt(t, rec, "Uplink frequency", 19850)
	mustStr(t, rec, "Downlink bandwidth", "20 MHz")
	mustStr(t, rec, "Uplink bandwidth", "10 MHz")
	mustUInt(t, rec, "TAC", 12345)
	mustStr(t, rec, "MCC", "310")
	mustStr(t, rec, "MNC", "260")
	if len(lr.Raw) != 0 {
		t.Fatalf("raw = %x", lr.Raw)
	}
}

func TestLteRrcServCellInfoTwoDigitMNC(t *testing.T) {
	body := append([]byte(nil), servCellInfoV2...)
	body[21] = 2
	body[22], body[23] = 1, 0
	lr := Default().Decode(catalog.LteRrcServCellInfo, body)
	mustStr(t, lr.Fields, "MNC", "01")
}

func TestUnknownVersion(t *testing.T) {
	body := append([]byte{0x09}, servCellInfoV2[1:]...)
	lr := Default().Decode(catalog.LteRrcServCellInfo, body)
	if lr.Status != StatusUnknownVersion {
		t.Fatalf("status = %s", lr.Status)
	}
	if len(lr.Fields) != 1 || lr.Fields[0].Name != VersionField {
		t.Fatalf("fields = %v", lr.Fields.Names())
	}
	if !bytes.Equal(lr.Raw, body[1:]) {
		t.Fatalf("raw = %x", lr.Raw)
	}
	if len(lr.Warnings) != 1 {
		t.Fatalf("warnings = %v", lr.Warnings)
	}
}

func TestUnknownType(t *testing.T) {
	body := []byte{1, 2, 3}
	lr := Default().Decode(0xB0C0, body)
	if lr.Status != StatusRaw || !bytes.Equal(lr.Raw, body) || len(lr.Fields) != 0 {
		t.Fatalf("record = %+v", lr)
	}
	if lr.Name != "LTE_RRC_OTA_Packet" {
		t.Fatalf("name = %s", lr.Name)
	}
	if Default().Decode(0x0001, nil).Name != "Unknown_0x0001" {
		t.Fatal("uncatalogued name")
	}
}

func TestTruncatedTable(t *testing.T) {
	lr := Default().Decode(catalog.LteRrcServCellInfo, servCellInfoV2[:10])
	if lr.Status != StatusTruncated {
		t.Fatalf("status = %s", lr.Status)
	}
	if len(lr.Fields) != 1 {
		t.Fatalf("partial table leaked: %v", lr.Fields.Names())
	}
	if !bytes.Equal(lr.Raw, servCellInfoV2[1:10]) {
		t.Fatalf("raw = %x", lr.Raw)
	}
	if Default().Decode(catalog.LteRrcServCellInfo, nil).Status != StatusTruncated {
		t.Fatal("empty body")
	}
}

var intraFreqMeasV4 = join(
	[]byte{0x04},
	[]byte{0, 0, 0},
	[]byte{0x14, 0x05},
	[]byte{0x8B, 0x00},
	[]byte{0x47, 0x1F},
	[]byte{0xD0, 0x07, 0, 0},
	[]byte{0xF0, 0x00, 0, 0},
	[]byte{2, 1, 0, 0},
	// neighbor cells
	[]byte{0x10, 0x00, 0xD0, 0x07, 0, 0, 0xF0, 0x00, 0, 0, 0, 0},
	[]byte{0x11, 0x00, 0xC0, 0x07, 0, 0, 0xE0, 0x00, 0, 0, 0, 0},
	// detected cell
	[]byte{0x20, 0x00, 0, 0, 0x10, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0},
)

func TestLteIntraFreqMeas(t *testing.T) {
	lr := Default().Decode(catalog.LtePhyConnectedModeIntraFreq, intraFreqMeasV4)
	if lr.Status != StatusDecoded {
		t.Fatalf("status = %s, warnings %v", lr.Status, lr.Warnings)
	}
	rec := lr.Fields
	mustUInt(t, rec, "E-ARFCN", 1300)
	mustUInt(t, rec, "Serving Physical Cell ID", 139)
	mustUInt(t, rec, "Sub-frame Number", 7)
	mustUInt(t, rec, "System Frame Number", 500)
	mustFloat(t, rec, "RSRP(dBm)", -55)
	mustFloat(t, rec, "RSRQ(dB)", -15)

	neighbors := mustList(t, rec, "Neighbor Cells", 2)
	mustUInt(t, neighbors[0], "Physical Cell ID", 16)
	mustFloat(t, neighbors[1], "RSRP(dBm)", -56)
	mustFloat(t, neighbors[1], "RSRQ(dB)", -16)
	detected := mustList(t, rec, "Detected Cells", 1)
	mustUInt(t, detected[0], "SSS Corr Value", 16)
	mustUInt(t, detected[0], "Reference Time", 1)
}

func TestTruncatedSubRecord(t *testing.T) {
	// second neighbor cell cut in half
	body := intraFreqMeasV4[:len(intraFreqMeasV4)-16-6]
	lr := Default().Decode(catalog.LtePhyConnectedModeIntraFreq, body)
	if lr.Status != StatusTruncated {
		t.Fatalf("status = %s", lr.Status)
	}
	mustList(t, lr.Fields, "Neighbor Cells", 1)
	if lr.Fields.Index("Detected Cells") >= 0 {
		t.Fatal("decoded past a truncated sub-record")
	}
	if len(lr.Raw) != 6 || len(lr.Warnings) != 1 {
		t.Fatalf("raw = %x, warnings = %v", lr.Raw, lr.Warnings)
	}
}

func TestLteNasEmmState(t *testing.T) {
	body := join(
		[]byte{0x02, 0x03, 0x00, 0x00},
		[]byte{0x13, 0x00, 0x62},
		[]byte{0x01, 0x00},
		[]byte{0x62, 0xF2, 0x10},
		[]byte{0x80, 0x01, 0x05},
		[]byte{0xDE, 0xAD, 0xBE, 0xEF},
	)
	lr := Default().Decode(catalog.LteNasEmmState, body)
	if lr.Status != StatusDecoded {
		t.Fatalf("status = %s", lr.Status)
	}
	rec := lr.Fields
	mustStr(t, rec, "EMM State", "EMM_REGISTERED")
	mustStr(t, rec, "EMM Substate", "EMM_REGISTERED_NORMAL_SERVICE")
	mustStr(t, rec, "Last Registered PLMN", "310-260")
	mustStr(t, rec, "GUTI PLMN", "262-01")
	mustStr(t, rec, "GUTI MME Group ID", "0x8001")
	mustStr(t, rec, "GUTI MME Code", "0x05")
	mustStr(t, rec, "GUTI M-TMSI", "0xdeadbeef")

	body[1] = 0x09
	lr = Default().Decode(catalog.LteNasEmmState, body)
	mustStr(t, lr.Fields, "EMM State", "Unknown")
	mustStr(t, lr.Fields, "EMM Substate", "Undefined")
}

func TestWcdmaRrcServCellInfo(t *testing.T) {
	body := join(
		[]byte{0x26, 0x25, 0x8A, 0x2A},
		[]byte{0x00, 0x12, 0x34, 0x56},
		[]byte{0x01, 0x00, 0x00, 0x01},
		[]byte{0x2C, 0x01},
		[]byte{3, 1, 0, 2, 6, 0},
		[]byte{0x00, 0x00, 0x12, 0x34},
		[]byte{0x00, 0x00, 0x00, 0x07},
	)
	lr := Default().Decode(catalog.WcdmaRrcServCellInfo, body)
	if lr.Status != StatusDecoded {
		t.Fatalf("status = %s, warnings %v", lr.Status, lr.Warnings)
	}
	rec := lr.Fields
	if rec.Index(VersionField) >= 0 {
		t.Fatal("versionless type has a version field")
	}
	mustUInt(t, rec, "UL UARFCN", 9766)
	mustUInt(t, rec, "DL UARFCN", 10890)
	mustUInt(t, rec, "Cell ID", 0x3456)
	mustUInt(t, rec, "RNC ID", 0x012)
	mustStr(t, rec, "Cell Access Rest", "Not Barred")
	mustUInt(t, rec, "PSC", 300)
	mustStr(t, rec, "PLMN", "310-260")
	mustUInt(t, rec, "LAC", 0x1234)
	mustUInt(t, rec, "RAC", 7)
}

func TestWcdmaReselectionRank(t *testing.T) {
	cell3G := []byte{0x8A, 0x2A, 0x2C, 0x01, 0xC8, 0x05, 0x00, 0x0A, 0x03, 0x00, 0xA0}
	body := join(
		[]byte{0x01, 0x42, 0x00, 0x00},
		cell3G, cell3G,
		[]byte{0x80, 0x00, 0x17, 0x00, 0xB0, 0x0A, 0x00, 0x01},
	)
	lr := Default().Decode(catalog.WcdmaSearchCellReselectionRank, body)
	if lr.Status != StatusDecoded {
		t.Fatalf("status = %s, warnings %v", lr.Status, lr.Warnings)
	}
	rec := lr.Fields
	mustUInt(t, rec, "Number of 3G Cells", 2)
	mustUInt(t, rec, "Number of 2G Cells", 1)
	cells := mustList(t, rec, "3G Cells", 2)
	rscp, _ := cells[0].Get("RSCP")
	if rscp.Kind != record.KindInt || rscp.Int() != -56 {
		t.Fatalf("RSCP = %v", rscp)
	}
	mustFloat(t, cells[1], "Ec/Io", -5)
	mustStr(t, cells[1], "Flags", "10100000")
	gsm := mustList(t, rec, "2G Cells", 1)
	mustUInt(t, gsm[0], "ARFCN", 128)
	rssi, _ := gsm[0].Get("RSSI")
	if rssi.Int() != -80 {
		t.Fatalf("RSSI = %v", rssi)
	}
	mustStr(t, gsm[0], "Flags", "00000001")
}

func TestDecodeListPlaceholderUnpack(t *testing.T) {
	table := field.Table{field.UInt("X", 1), field.Placeholder("Y")}
	post := func(rec record.Record) {
		x, _ := rec.UInt("X")
		rec.Replace("Y", record.UInt((x>>4)&0xF))
		rec.Replace("X", record.UInt(x&0xF))
	}
	var rec record.Record
	n, err := DecodeList(&rec, "Items", table, 3, []byte{0x53, 0x21}, 0, post)
	if n != 2 || !errors.Is(err, field.ErrOutOfRange) {
		t.Fatalf("n = %d, err = %v", n, err)
	}
	items := mustList(t, rec, "Items", 2)
	mustUInt(t, items[0], "X", 3)
	mustUInt(t, items[0], "Y", 5)
	mustUInt(t, items[1], "X", 1)
	mustUInt(t, items[1], "Y", 2)
}

func TestRegistry(t *testing.T) {
	r := Default()
	want := []uint16{0x4005, 0x4127, 0xB0C2, 0xB0EE, 0xB179}
	got := r.Types()
	if len(got) != len(want) {
		t.Fatalf("types = %x", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("types = %x", got)
		}
	}
	if v := r.Versions(catalog.LteRrcServCellInfo); len(v) != 2 || v[0] != 2 || v[1] != 3 {
		t.Fatalf("versions = %v", v)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("duplicate registration accepted")
		}
	}()
	NewDefault(catalog.Default()).Register(Schema{TypeID: catalog.LteNasEmmState})
}

func TestMalformedVersionTableLeavesHeaderOnly(t *testing.T) {
	r := NewRegistry(catalog.Default())
	bad := field.Table{
		field.UInt("Good", 1),
		field.UInt("Bad", 3),
	}
	r.Register(Schema{
		TypeID: 0x1234,
		Header: versionHeader,
		Versions: map[uint64]DecodeFunc{
			1: func(buf []byte, off int, rec *record.Record) (int, error) {
				return field.Decode(bad, buf, off, rec)
			},
		},
	})

	lr := r.Decode(0x1234, []byte{1, 0xAA, 0xBB, 0xCC, 0xDD})
	if lr.Status != StatusTruncated || len(lr.Warnings) != 1 {
		t.Fatalf("record = %+v", lr)
	}
	if names := lr.Fields.Names(); len(names) != 1 || names[0] != VersionField {
		t.Fatalf("fields = %v", names)
	}
}
