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

// Type ids of the log packets that have decoders in this module.
const (
	WcdmaSearchCellReselectionRank uint16 = 0x4005
	WcdmaRrcServCellInfo           uint16 = 0x4127
	LteRrcServCellInfo             uint16 = 0xB0C2
	LteNasEmmState                 uint16 = 0xB0EE
	LtePhyConnectedModeIntraFreq   uint16 = 0xB179
)

// Equipment ids used by the log configuration protocol.
const (
	EquipCDMA  uint8 = 0x1
	EquipWCDMA uint8 = 0x4
	EquipGSM   uint8 = 0x5
	EquipUMTS  uint8 = 0x7
	EquipLTE   uint8 = 0xB
)

// Several layouts and names below come from reverse engineering and have not
// been checked against every chipset generation.
var defaultEntries = []Entry{
	{0x1007, "CDMA_Paging_Channel_Message", true},
	{0x1008, "CDMA_Access_Channel_Message", true},
	{0x1009, "CDMA_Forward_Traffic_Channel_Message", true},
	{0x100A, "CDMA_Reverse_Traffic_Channel_Message", true},
	{0x1068, "1xEV_Signaling_Control_Channel_Broadcast", false},

	{WcdmaSearchCellReselectionRank, "WCDMA_Search_Cell_Reselection_Rank", true},
	{0x4125, "WCDMA_RRC_States", true},
	{WcdmaRrcServCellInfo, "WCDMA_RRC_Serv_Cell_Info", true},
	{0x412F, "WCDMA_RRC_OTA_Packet", true},

	{0x5134, "GSM_Surround_Cell_BA_List", true},
	{0x512F, "GSM_RR_Signaling_Message", true},
	{0x51FC, "GSM_RR_Cell_Reselection_Meas", true},
	{0x5226, "GPRS_MAC_Signaling_Message", false},

	{0x7130, "UMTS_NAS_GMM_State", true},
	{0x7131, "UMTS_NAS_MM_State", true},
	{0x7135, "UMTS_NAS_MM_REG_State", true},
	{0x713A, "UMTS_NAS_OTA_Packet", true},

	{0xB060, "LTE_MAC_Configuration", true},
	{0xB061, "LTE_MAC_Rach_Trigger", true},
	{0xB062, "LTE_MAC_Rach_Attempt", true},
	{0xB063, "LTE_MAC_UL_Transport_Block", true},
	{0xB064, "LTE_MAC_DL_Transport_Block", true},
	{0xB066, "LTE_MAC_UL_Buffer_Status_Internal", true},
	{0xB067, "LTE_MAC_UL_Tx_Statistics", true},
	{0xB081, "LTE_RLC_DL_Config_Log_Packet", true},
	{0xB087, "LTE_RLC_DL_AM_All_PDU", true},
	{0xB092, "LTE_RLC_UL_Config_Log_Packet", true},
	{0xB097, "LTE_RLC_UL_AM_All_PDU", true},
	{0xB0A0, "LTE_PDCP_DL_Config", true},
	{0xB0A3, "LTE_PDCP_DL_Cipher_Data_PDU", false},
	{0xB0A4, "LTE_PDCP_DL_Stats", true},
	{0xB0B0, "LTE_PDCP_UL_Config", true},
	{0xB0B3, "LTE_PDCP_UL_Cipher_Data_PDU", false},
	{0xB0B4, "LTE_PDCP_UL_Stats", true},
	{0xB0C0, "LTE_RRC_OTA_Packet", true},
	{0xB0C1, "LTE_RRC_MIB_Message_Log_Packet", true},
	{LteRrcServCellInfo, "LTE_RRC_Serv_Cell_Info", true},
	{0xB0E2, "LTE_NAS_ESM_OTA_Incoming_Packet", true},
	{0xB0E3, "LTE_NAS_ESM_OTA_Outgoing_Packet", true},
	{0xB0E5, "LTE_NAS_ESM_State", true},
	{0xB0EC, "LTE_NAS_EMM_OTA_Incoming_Packet", true},
	{0xB0ED, "LTE_NAS_EMM_OTA_Outgoing_Packet", true},
	{LteNasEmmState, "LTE_NAS_EMM_State", true},
	{0xB130, "LTE_PHY_PDCCH_Decoding_Result", true},
	{0xB139, "LTE_PHY_PUSCH_Tx_Report", true},
	{0xB13C, "LTE_PHY_PUCCH_Tx_Report", true},
	{0xB14E, "LTE_PHY_PUSCH_CSF", true},
	{0xB173, "LTE_PHY_PDSCH_Stat_Indication", true},
	{LtePhyConnectedModeIntraFreq, "LTE_PHY_Connected_Mode_Intra_Freq_Meas", true},
	{0xB180, "LTE_PHY_BPLMN_Cell_Request", false},
	{0xB193, "LTE_PHY_Serv_Cell_Measurement", true},

	{0xB821, "5G_NR_RRC_OTA_Packet", true},
	{0xB97F, "5G_NR_ML1_Searcher_Measurement_Database_Update_Ext", true},
}

var defaultCatalog = New(defaultEntries)

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}
