// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package dot11

import (
	"encoding/binary"
	"testing"
)

// buildMgmtFrame assembles a management frame: MAC header, subtype-specific
// fixed fields, then the given information elements.
func buildMgmtFrame(subtype uint8, addr1, addr2, addr3 MAC, ies ...IE) []byte {
	fc := uint16(TypeMgmt)<<2 | uint16(subtype)<<4

	frame := binary.LittleEndian.AppendUint16(nil, fc)
	frame = binary.LittleEndian.AppendUint16(frame, 0) // duration
	frame = append(frame, addr1[:]...)
	frame = append(frame, addr2[:]...)
	frame = append(frame, addr3[:]...)
	frame = binary.LittleEndian.AppendUint16(frame, 0x0120) // seq ctrl

	switch subtype {
	case SubtypeBeacon, SubtypeProbeResp:
		frame = append(frame, make([]byte, 12)...) // timestamp + interval + capability
	case SubtypeAssocReq:
		frame = append(frame, make([]byte, 4)...) // capability + listen interval
	}

	for _, ie := range ies {
		frame = append(frame, ie.ID, uint8(len(ie.Data)))
		frame = append(frame, ie.Data...)
	}
	return frame
}

var (
	apMAC  = MAC{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	staMAC = MAC{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	bcast  = MAC{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
)

func TestFrameControlFields(t *testing.T) {
	f := NewFrame(buildMgmtFrame(SubtypeBeacon, bcast, apMAC, apMAC))

	if f.Type() != TypeMgmt {
		t.Errorf("Type = %d, want %d", f.Type(), TypeMgmt)
	}
	if f.Subtype() != SubtypeBeacon {
		t.Errorf("Subtype = %d, want %d", f.Subtype(), SubtypeBeacon)
	}
	if f.ToDS() || f.FromDS() {
		t.Error("management beacon should have no DS flags set")
	}
	if !f.IsBeacon() {
		t.Error("IsBeacon should be true")
	}
	if f.TypeString() != "Mgmt/Beacon" {
		t.Errorf("TypeString = %q", f.TypeString())
	}

	seq, ok := f.SequenceNumber()
	if !ok || seq != 0x012 {
		t.Errorf("SequenceNumber = %d, %v; want 0x012, true", seq, ok)
	}
	frag, ok := f.FragmentNumber()
	if !ok || frag != 0 {
		t.Errorf("FragmentNumber = %d, %v", frag, ok)
	}
}

func TestManagementAddresses(t *testing.T) {
	f := NewFrame(buildMgmtFrame(SubtypeBeacon, bcast, apMAC, apMAC))

	src, ok := f.Source()
	if !ok || src != apMAC {
		t.Errorf("Source = %v, %v", src, ok)
	}
	dst, ok := f.Dest()
	if !ok || dst != bcast {
		t.Errorf("Dest = %v, %v", dst, ok)
	}
	bssid, ok := f.BSSID()
	if !ok || bssid != apMAC {
		t.Errorf("BSSID = %v, %v", bssid, ok)
	}
}

func TestDataFrameAddressRoles(t *testing.T) {
	// Data frame header: same 24-byte layout for the first three addresses.
	build := func(toDS, fromDS bool) *Frame {
		fc := uint16(TypeData) << 2
		if toDS {
			fc |= 1 << 8
		}
		if fromDS {
			fc |= 1 << 9
		}
		frame := binary.LittleEndian.AppendUint16(nil, fc)
		frame = binary.LittleEndian.AppendUint16(frame, 0)
		a1 := MAC{1, 1, 1, 1, 1, 1}
		a2 := MAC{2, 2, 2, 2, 2, 2}
		a3 := MAC{3, 3, 3, 3, 3, 3}
		frame = append(frame, a1[:]...)
		frame = append(frame, a2[:]...)
		frame = append(frame, a3[:]...)
		frame = binary.LittleEndian.AppendUint16(frame, 0)
		return NewFrame(frame)
	}

	tests := []struct {
		name           string
		toDS, fromDS   bool
		bssid, src, dh byte // expected first byte of BSSID/Source/Dest
	}{
		{"IBSS", false, false, 3, 2, 1},
		{"from AP", false, true, 2, 3, 1},
		{"to AP", true, false, 1, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := build(tt.toDS, tt.fromDS)
			if got, ok := f.BSSID(); !ok || got[0] != tt.bssid {
				t.Errorf("BSSID = %v, %v; want first byte %d", got, ok, tt.bssid)
			}
			if got, ok := f.Source(); !ok || got[0] != tt.src {
				t.Errorf("Source = %v, %v; want first byte %d", got, ok, tt.src)
			}
			if got, ok := f.Dest(); !ok || got[0] != tt.dh {
				t.Errorf("Dest = %v, %v; want first byte %d", got, ok, tt.dh)
			}
		})
	}
}

func TestWDSFrameHasNoBSSID(t *testing.T) {
	fc := uint16(TypeData)<<2 | 1<<8 | 1<<9
	frame := binary.LittleEndian.AppendUint16(nil, fc)
	frame = append(frame, make([]byte, 28)...) // duration + 3 addrs + seq + addr4

	f := NewFrame(frame)
	if _, ok := f.BSSID(); ok {
		t.Error("WDS frame should report no BSSID")
	}
	// Source comes from the fourth address field.
	if _, ok := f.Source(); !ok {
		t.Error("WDS frame source should come from addr4")
	}
}

func TestTruncatedFrame(t *testing.T) {
	f := NewFrame([]byte{0x80, 0x00, 0x00, 0x00, 0x01, 0x02})

	if _, ok := f.Addr1(); ok {
		t.Error("truncated frame should have no complete addr1")
	}
	if _, ok := f.SequenceControl(); ok {
		t.Error("truncated frame should have no sequence control")
	}
	if _, ok := f.SSID(); ok {
		t.Error("truncated frame should have no SSID")
	}
}

func TestSSIDPresent(t *testing.T) {
	f := NewFrame(buildMgmtFrame(SubtypeBeacon, bcast, apMAC, apMAC,
		IE{ID: IETagSSID, Data: []byte("test-net")},
		IE{ID: IETagSupportedRates, Data: []byte{0x82, 0x84}},
	))

	ssid, ok := f.SSID()
	if !ok || ssid != "test-net" {
		t.Errorf("SSID = %q, %v; want \"test-net\", true", ssid, ok)
	}
}

func TestSSIDHidden(t *testing.T) {
	f := NewFrame(buildMgmtFrame(SubtypeBeacon, bcast, apMAC, apMAC,
		IE{ID: IETagSSID, Data: nil},
	))

	ssid, ok := f.SSID()
	if !ok || ssid != "" {
		t.Errorf("zero-length SSID element should yield \"\", true; got %q, %v", ssid, ok)
	}
}

func TestSSIDAbsent(t *testing.T) {
	f := NewFrame(buildMgmtFrame(SubtypeBeacon, bcast, apMAC, apMAC,
		IE{ID: IETagSupportedRates, Data: []byte{0x82}},
	))

	if _, ok := f.SSID(); ok {
		t.Error("beacon without an SSID element should report absent")
	}
}

func TestSSIDInvalidUTF8(t *testing.T) {
	f := NewFrame(buildMgmtFrame(SubtypeBeacon, bcast, apMAC, apMAC,
		IE{ID: IETagSSID, Data: []byte{0xFF, 0xFE, 'a', 'b'}},
	))

	ssid, ok := f.SSID()
	if !ok {
		t.Fatal("SSID should be present")
	}
	if ssid == "" {
		t.Error("replacement decode should not be empty")
	}
}

func TestIEOffsets(t *testing.T) {
	ssid := IE{ID: IETagSSID, Data: []byte("x")}

	tests := []struct {
		name    string
		subtype uint8
	}{
		{"beacon", SubtypeBeacon},
		{"probe response", SubtypeProbeResp},
		{"probe request", SubtypeProbeReq},
		{"association request", SubtypeAssocReq},
		{"deauth", SubtypeDeauth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame(buildMgmtFrame(tt.subtype, staMAC, apMAC, apMAC, ssid))
			got, ok := f.SSID()
			if !ok || got != "x" {
				t.Errorf("SSID = %q, %v at subtype %d", got, ok, tt.subtype)
			}
		})
	}
}

func TestIEOverrunStopsIteration(t *testing.T) {
	frame := buildMgmtFrame(SubtypeBeacon, bcast, apMAC, apMAC,
		IE{ID: IETagSupportedRates, Data: []byte{0x82, 0x84}},
	)
	// Append an element whose declared length overruns the buffer.
	frame = append(frame, IETagSSID, 0x20, 'h', 'i')

	f := NewFrame(frame)
	ies := f.IEs()
	if len(ies) != 1 {
		t.Fatalf("got %d elements, want 1 (overrunning element skipped)", len(ies))
	}
	if ies[0].ID != IETagSupportedRates {
		t.Errorf("unexpected element id %d", ies[0].ID)
	}
	if _, ok := f.SSID(); ok {
		t.Error("overrunning SSID element should not be surfaced")
	}
}

func TestIEsNonManagement(t *testing.T) {
	fc := uint16(TypeData) << 2
	frame := binary.LittleEndian.AppendUint16(nil, fc)
	frame = append(frame, make([]byte, 40)...)

	if ies := NewFrame(frame).IEs(); len(ies) != 0 {
		t.Errorf("data frame should have no information elements, got %d", len(ies))
	}
}

func TestIterationRestartable(t *testing.T) {
	f := NewFrame(buildMgmtFrame(SubtypeBeacon, bcast, apMAC, apMAC,
		IE{ID: IETagSSID, Data: []byte("net")},
		IE{ID: IETagDSParameterSet, Data: []byte{6}},
	))

	first := f.IEs()
	second := f.IEs()
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("iteration should restart: %d then %d elements", len(first), len(second))
	}
}

func TestMACString(t *testing.T) {
	if got := apMAC.String(); got != "00:11:22:33:44:55" {
		t.Errorf("MAC String = %q", got)
	}
	if got := MACString(MAC{}, false); got != "??:??:??:??:??:??" {
		t.Errorf("absent MAC = %q", got)
	}
}
