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
	"fmt"

	"jinr.ru/greenlab/go-diag/pkg/bits"
	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/field"
	"jinr.ru/greenlab/go-diag/pkg/record"
)

var versionHeader = field.Table{
	field.UInt(VersionField, 1),
}

// LTE_RRC_Serv_Cell_Info

var lteRrcServCellInfoV2 = field.Table{
	field.UInt("Cell ID", 2),
	field.UInt("Downlink frequency", 2),
	field.UInt("Uplink frequency", 2),
	field.Bandwidth("Downlink bandwidth"),
	field.Bandwidth("Uplink bandwidth"),
	field.UInt("Cell Identity", 4),
	field.UInt("TAC", 2),
	field.UInt("Band Indicator", 4),
	field.UInt("MCC", 2),
	field.UInt("MNC Digit", 1),
	field.UInt("MNC", 2),
	field.UInt("Allowed Access", 1),
}

var lteRrcServCellInfoV3 = field.Table{
	field.UInt("Cell ID", 2),
	field.UInt("Downlink frequency", 4),
	field.UInt("Uplink frequency", 4),
	field.Bandwidth("Downlink bandwidth"),
	field.Bandwidth("Uplink bandwidth"),
	field.UInt("Cell Identity", 4),
	field.UInt("TAC", 2),
	field.UInt("Band Indicator", 4),
	field.UInt("MCC", 2),
	field.UInt("MNC Digit", 1),
	field.UInt("MNC", 2),
	field.UInt("Allowed Access", 1),
}

func decodeLteRrcServCellInfo(table field.Table) DecodeFunc {
	return func(buf []byte, off int, rec *record.Record) (int, error) {
		r := newReader(buf, off, rec)
		if err := r.table(table); err != nil {
			return r.consumed(), err
		}
		// MNC digit count keeps leading zeros, e.g. 01 vs 001
		digits := int(r.uint("MNC Digit"))
		if digits != 2 && digits != 3 {
			digits = 2
		}
		rec.Replace("MNC", record.Str(fmt.Sprintf("%0*d", digits, r.uint("MNC"))))
		rec.Replace("MCC", record.Str(fmt.Sprintf("%03d", r.uint("MCC"))))
		return r.consumed(), nil
	}
}

// LTE_PHY_Connected_Mode_Intra_Freq_Meas

var lteIntraFreqMeasV4 = field.Table{
	field.Skip(3),
	field.UInt("E-ARFCN", 2),
	field.UInt("Serving Physical Cell ID", 2),
	field.UInt("Sub-frame Number", 2),
	field.Placeholder("System Frame Number"),
	field.RSRP("RSRP(dBm)"),
	field.Skip(2),
	field.RSRQ("RSRQ(dB)"),
	field.Skip(2),
	field.UInt("Number of Neighbor Cells", 1),
	field.UInt("Number of Detected Cells", 1),
	field.Skip(2),
}

var lteIntraFreqNeighborCell = field.Table{
	field.UInt("Physical Cell ID", 2),
	field.RSRP("RSRP(dBm)"),
	field.Skip(2),
	field.RSRQ("RSRQ(dB)"),
	field.Skip(4),
}

var lteIntraFreqDetectedCell = field.Table{
	field.UInt("Physical Cell ID", 2),
	field.Skip(2),
	field.UInt("SSS Corr Value", 4),
	field.UInt("Reference Time", 8),
}

func decodeLteIntraFreqMeasV4(buf []byte, off int, rec *record.Record) (int, error) {
	r := newReader(buf, off, rec)
	if err := r.table(lteIntraFreqMeasV4); err != nil {
		return r.consumed(), err
	}
	// low 4 bits sub-frame, next 10 bits system frame
	c := bits.New(r.uint("Sub-frame Number"))
	rec.Replace("Sub-frame Number", record.UInt(c.Take(4)))
	rec.Replace("System Frame Number", record.UInt(c.Take(10)))

	if err := r.list("Neighbor Cells", lteIntraFreqNeighborCell, r.uint("Number of Neighbor Cells"), nil); err != nil {
		return r.consumed(), err
	}
	err := r.list("Detected Cells", lteIntraFreqDetectedCell, r.uint("Number of Detected Cells"), nil)
	return r.consumed(), err
}

// LTE_NAS_EMM_State

var lteNasEmmStateV2 = field.Table{
	field.UInt("EMM State", 1),
	field.UInt("EMM Substate", 2),
	field.PLMNMk2("Last Registered PLMN"),
	field.UInt("GUTI Valid", 1),
	field.UInt("GUTI UE Id", 1),
	field.PLMNMk2("GUTI PLMN"),
	field.ByteStream("GUTI MME Group ID", 2),
	field.ByteStream("GUTI MME Code", 1),
	field.ByteStream("GUTI M-TMSI", 4),
}

var emmStates = map[uint64]string{
	0: "EMM_NULL",
	1: "EMM_DEREGISTERED",
	2: "EMM_REGISTERED_INITIATED",
	3: "EMM_REGISTERED",
	4: "EMM_TRACKING_AREA_UPDATING_INITIATED",
	5: "EMM_SERVICE_REQUEST_INITIATED",
	6: "EMM_DEREGISTERED_INITIATED",
}

var emmSubstates = map[uint64]map[uint64]string{
	1: {
		0: "EMM_DEREGISTERED_NO_IMSI",
		1: "EMM_DEREGISTERED_PLMN_SEARCH",
		2: "EMM_DEREGISTERED_ATTACH_NEEDED",
		3: "EMM_DEREGISTERED_NO_CELL_AVAILABLE",
		4: "EMM_DEREGISTERED_ATTEMPTING_TO_ATTACH",
		5: "EMM_DEREGISTERED_NORMAL_SERVICE",
		6: "EMM_DEREGISTERED_LIMITED_SERVICE",
	},
	2: {
		0: "EMM_WAITING_FOR_NW_RESPONSE",
		1: "EMM_WAITING_FOR_ESM_RESPONSE",
	},
	3: {
		0: "EMM_REGISTERED_NORMAL_SERVICE",
		1: "EMM_REGISTERED_UPDATE_NEEDED",
		2: "EMM_REGISTERED_ATTEMPTING_TO_UPDATE",
		3: "EMM_REGISTERED_NO_CELL_AVAILABLE",
		4: "EMM_REGISTERED_PLMN_SEARCH",
		5: "EMM_REGISTERED_LIMITED_SERVICE",
		6: "EMM_REGISTERED_ATTEMPTING_TO_UPDATE_MM",
		7: "EMM_REGISTERED_IMSI_DETACH_INITIATED",
	},
}

func decodeLteNasEmmStateV2(buf []byte, off int, rec *record.Record) (int, error) {
	r := newReader(buf, off, rec)
	if err := r.table(lteNasEmmStateV2); err != nil {
		return r.consumed(), err
	}
	state := r.uint("EMM State")
	if substates, ok := emmSubstates[state]; ok {
		rec.ReplaceLabel("EMM Substate", substates, "Unknown")
	} else {
		rec.ReplaceLabel("EMM Substate", nil, "Undefined")
	}
	rec.ReplaceLabel("EMM State", emmStates, "Unknown")
	return r.consumed(), nil
}

func registerLTE(r *Registry) {
	r.Register(Schema{
		TypeID: catalog.LteRrcServCellInfo,
		Header: versionHeader,
		Versions: map[uint64]DecodeFunc{
			2: decodeLteRrcServCellInfo(lteRrcServCellInfoV2),
			3: decodeLteRrcServCellInfo(lteRrcServCellInfoV3),
		},
	})
	r.Register(Schema{
		TypeID: catalog.LtePhyConnectedModeIntraFreq,
		Header: versionHeader,
		Versions: map[uint64]DecodeFunc{
			4: decodeLteIntraFreqMeasV4,
		},
	})
	r.Register(Schema{
		TypeID: catalog.LteNasEmmState,
		Header: versionHeader,
		Versions: map[uint64]DecodeFunc{
			2: decodeLteNasEmmStateV2,
		},
	})
}
