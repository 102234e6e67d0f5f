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
	"jinr.ru/greenlab/go-diag/pkg/bits"
	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/field"
	"jinr.ru/greenlab/go-diag/pkg/record"
)

// WCDMA_RRC_Serv_Cell_Info has no version byte.

var wcdmaRrcServCellInfo = field.Table{
	field.UInt("UL UARFCN", 2),
	field.UInt("DL UARFCN", 2),
	field.UIntBE("Cell ID", 4),
	field.Placeholder("RNC ID"),
	field.UInt("URA ID", 2),
	field.UInt("Cell Access Rest", 1),
	field.UInt("Call Access", 1),
	field.UInt("PSC", 2),
	field.PLMNMk1("PLMN"),
	field.UIntBE("LAC", 4),
	field.UIntBE("RAC", 4),
}

var cellAccessRest = map[uint64]string{
	0: "Not Barred",
	1: "Barred",
}

func decodeWcdmaRrcServCellInfo(buf []byte, off int, rec *record.Record) (int, error) {
	r := newReader(buf, off, rec)
	if err := r.table(wcdmaRrcServCellInfo); err != nil {
		return r.consumed(), err
	}
	// 28 bit UTRAN cell id: 12 bit RNC id over a 16 bit cell id
	c := bits.New(r.uint("Cell ID"))
	rec.Replace("Cell ID", record.UInt(c.Take(16)))
	rec.Replace("RNC ID", record.UInt(c.Take(12)))
	rec.ReplaceLabel("Cell Access Rest", cellAccessRest, "Unknown")
	return r.consumed(), nil
}

// WCDMA_Search_Cell_Reselection_Rank

var wcdmaReselectionRankV1 = field.Table{
	field.UInt("Number of 3G Cells", 1),
	field.Placeholder("Number of 2G Cells"),
	field.Skip(2),
}

var wcdmaRank3GCell = field.Table{
	field.UInt("UARFCN", 2),
	field.UInt("PSC", 2),
	field.WCDMAMeas("RSCP"),
	field.UInt("Rank RSCP", 2),
	field.UInt("Ec/Io", 1),
	field.UInt("Rank Ec/Io", 2),
	field.BitStream("Flags", 1),
}

var wcdmaRank2GCell = field.Table{
	field.UInt("ARFCN", 2),
	field.UInt("BSIC", 2),
	field.WCDMAMeas("RSSI"),
	field.UInt("Rank", 2),
	field.BitStream("Flags", 1),
}

func postRank3GCell(rec record.Record) {
	// Ec/Io is reported in -0.5 dB steps
	v, _ := rec.UInt("Ec/Io")
	rec.Replace("Ec/Io", record.Float(-float64(v)/2))
}

func decodeWcdmaReselectionRankV1(buf []byte, off int, rec *record.Record) (int, error) {
	r := newReader(buf, off, rec)
	if err := r.table(wcdmaReselectionRankV1); err != nil {
		return r.consumed(), err
	}
	// 6 bit 3G count, 2 bit 2G count
	c := bits.New(r.uint("Number of 3G Cells"))
	rec.Replace("Number of 3G Cells", record.UInt(c.Take(6)))
	rec.Replace("Number of 2G Cells", record.UInt(c.Take(2)))

	if err := r.list("3G Cells", wcdmaRank3GCell, r.uint("Number of 3G Cells"), postRank3GCell); err != nil {
		return r.consumed(), err
	}
	err := r.list("2G Cells", wcdmaRank2GCell, r.uint("Number of 2G Cells"), nil)
	return r.consumed(), err
}

func registerWCDMA(r *Registry) {
	r.Register(Schema{
		TypeID: catalog.WcdmaRrcServCellInfo,
		Versions: map[uint64]DecodeFunc{
			0: decodeWcdmaRrcServCellInfo,
		},
	})
	r.Register(Schema{
		TypeID: catalog.WcdmaSearchCellReselectionRank,
		Header: versionHeader,
		Versions: map[uint64]DecodeFunc{
			1: decodeWcdmaReselectionRankV1,
		},
	})
}
