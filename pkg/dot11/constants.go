// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

// Package dot11 parses IEEE 802.11 MAC headers and management-frame
// information elements from raw captured bytes.
//
// Parsing is lazy: a Frame wraps the raw bytes at construction and derives
// header fields and elements on first access, caching the results. Frames
// are immutable after construction, so no invalidation is needed.
package dot11

// Frame types (frame control bits 2-3)
const (
	TypeMgmt = 0
	TypeCtrl = 1
	TypeData = 2
)

// Management subtypes (frame control bits 4-7)
const (
	SubtypeAssocReq    = 0
	SubtypeAssocResp   = 1
	SubtypeReassocReq  = 2
	SubtypeReassocResp = 3
	SubtypeProbeReq    = 4
	SubtypeProbeResp   = 5
	SubtypeBeacon      = 8
	SubtypeATIM        = 9
	SubtypeDisassoc    = 10
	SubtypeAuth        = 11
	SubtypeDeauth      = 12
	SubtypeAction      = 13
)

// Information element IDs (the ones this package interprets)
const (
	IETagSSID           = 0
	IETagSupportedRates = 1
	IETagDSParameterSet = 3
	IETagRSN            = 48
	IETagVendorSpecific = 221
)

var typeNames = map[uint8]string{
	TypeMgmt: "Mgmt",
	TypeCtrl: "Ctrl",
	TypeData: "Data",
	3:        "Misc",
}

var mgmtSubtypeNames = map[uint8]string{
	SubtypeAssocReq:    "AssocReq",
	SubtypeAssocResp:   "AssocResp",
	SubtypeReassocReq:  "ReassocReq",
	SubtypeReassocResp: "ReassocResp",
	SubtypeProbeReq:    "ProbeReq",
	SubtypeProbeResp:   "ProbeResp",
	SubtypeBeacon:      "Beacon",
	SubtypeATIM:        "ATIM",
	SubtypeDisassoc:    "Disassoc",
	SubtypeAuth:        "Auth",
	SubtypeDeauth:      "Deauth",
	SubtypeAction:      "Action",
}
