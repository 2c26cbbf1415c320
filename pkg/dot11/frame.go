// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package dot11

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MAC is a 48-bit hardware address.
type MAC [6]byte

// String formats the address as lowercase colon-separated hex.
func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		m[0], m[1], m[2], m[3], m[4], m[5])
}

// MACString formats an optional address, using the placeholder form for
// addresses that are not present in the frame.
func MACString(m MAC, ok bool) string {
	if !ok {
		return "??:??:??:??:??:??"
	}
	return m.String()
}

// Frame is a captured 802.11 frame. Header fields are parsed on first
// access and cached for the lifetime of the object; the raw bytes are never
// modified.
type Frame struct {
	raw []byte

	hdrParsed bool
	fc        uint16

	ssidParsed bool
	ssid       string
	hasSSID    bool
}

// NewFrame wraps raw 802.11 bytes. The slice is retained; callers must not
// mutate it afterward.
func NewFrame(raw []byte) *Frame {
	return &Frame{raw: raw}
}

// Raw returns the underlying frame bytes.
func (f *Frame) Raw() []byte {
	return f.raw
}

func (f *Frame) frameControl() uint16 {
	if !f.hdrParsed {
		f.hdrParsed = true
		if len(f.raw) >= 2 {
			f.fc = binary.LittleEndian.Uint16(f.raw[0:2])
		}
	}
	return f.fc
}

// Type returns the frame type (TypeMgmt, TypeCtrl, TypeData).
func (f *Frame) Type() uint8 {
	return uint8(f.frameControl() >> 2 & 0x03)
}

// Subtype returns the frame subtype.
func (f *Frame) Subtype() uint8 {
	return uint8(f.frameControl() >> 4 & 0x0F)
}

// ToDS reports the To-DS frame control flag.
func (f *Frame) ToDS() bool {
	return f.frameControl()&(1<<8) != 0
}

// FromDS reports the From-DS frame control flag.
func (f *Frame) FromDS() bool {
	return f.frameControl()&(1<<9) != 0
}

// Duration returns the duration/ID field.
func (f *Frame) Duration() uint16 {
	if len(f.raw) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint16(f.raw[2:4])
}

func (f *Frame) addr(offset int) (MAC, bool) {
	if len(f.raw) < offset+6 {
		return MAC{}, false
	}
	var m MAC
	copy(m[:], f.raw[offset:offset+6])
	return m, true
}

// Addr1 returns the receiver address field.
func (f *Frame) Addr1() (MAC, bool) { return f.addr(4) }

// Addr2 returns the transmitter address field.
func (f *Frame) Addr2() (MAC, bool) { return f.addr(10) }

// Addr3 returns the third address field (BSSID in most frames).
func (f *Frame) Addr3() (MAC, bool) { return f.addr(16) }

// SequenceControl returns the 802.11 sequence control field. This is the
// sender's MAC-layer counter, unrelated to the capture link's sequence
// numbers.
func (f *Frame) SequenceControl() (uint16, bool) {
	if len(f.raw) < 24 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(f.raw[22:24]), true
}

// SequenceNumber returns the 12-bit sequence number.
func (f *Frame) SequenceNumber() (uint16, bool) {
	sc, ok := f.SequenceControl()
	return sc >> 4, ok
}

// FragmentNumber returns the 4-bit fragment number.
func (f *Frame) FragmentNumber() (uint8, bool) {
	sc, ok := f.SequenceControl()
	return uint8(sc & 0x0F), ok
}

// BSSID derives the BSSID from the DS flags. Combinations with no defined
// BSSID (WDS frames) report false.
func (f *Frame) BSSID() (MAC, bool) {
	if f.Type() == TypeMgmt {
		return f.Addr3()
	}
	switch {
	case !f.ToDS() && !f.FromDS():
		return f.Addr3()
	case !f.ToDS() && f.FromDS():
		return f.Addr2()
	case f.ToDS() && !f.FromDS():
		return f.Addr1()
	}
	return MAC{}, false
}

// Source derives the source address from the DS flags. WDS frames use the
// fourth address field at offset 24.
func (f *Frame) Source() (MAC, bool) {
	if f.Type() == TypeMgmt {
		return f.Addr2()
	}
	switch {
	case !f.ToDS() && !f.FromDS():
		return f.Addr2()
	case !f.ToDS() && f.FromDS():
		return f.Addr3()
	case f.ToDS() && !f.FromDS():
		return f.Addr2()
	}
	return f.addr(24)
}

// Dest derives the destination address from the DS flags.
func (f *Frame) Dest() (MAC, bool) {
	if f.Type() == TypeMgmt {
		return f.Addr1()
	}
	switch {
	case !f.ToDS() && !f.FromDS():
		return f.Addr1()
	case !f.ToDS() && f.FromDS():
		return f.Addr1()
	case f.ToDS() && !f.FromDS():
		return f.Addr3()
	}
	return f.Addr3()
}

// SSID extracts the SSID element from management frames. Returns ("",
// false) when no SSID element is present, and ("", true) for a hidden
// network advertising a zero-length SSID. Invalid UTF-8 is replaced rather
// than rejected.
func (f *Frame) SSID() (string, bool) {
	if !f.ssidParsed {
		f.ssidParsed = true
		f.ForEachIE(func(ie IE) bool {
			if ie.ID != IETagSSID {
				return true
			}
			f.hasSSID = true
			if len(ie.Data) > 0 {
				f.ssid = strings.ToValidUTF8(string(ie.Data), string(utf8.RuneError))
			}
			return false
		})
	}
	return f.ssid, f.hasSSID
}

// IsBeacon reports whether the frame is a management beacon.
func (f *Frame) IsBeacon() bool {
	return f.Type() == TypeMgmt && f.Subtype() == SubtypeBeacon
}

// IsProbeReq reports whether the frame is a probe request.
func (f *Frame) IsProbeReq() bool {
	return f.Type() == TypeMgmt && f.Subtype() == SubtypeProbeReq
}

// IsProbeResp reports whether the frame is a probe response.
func (f *Frame) IsProbeResp() bool {
	return f.Type() == TypeMgmt && f.Subtype() == SubtypeProbeResp
}

// TypeString renders the frame type/subtype as a display name such as
// "Mgmt/Beacon" or "Data/S4".
func (f *Frame) TypeString() string {
	tname, ok := typeNames[f.Type()]
	if !ok {
		tname = fmt.Sprintf("T%d", f.Type())
	}
	if f.Type() == TypeMgmt {
		if sname, ok := mgmtSubtypeNames[f.Subtype()]; ok {
			return tname + "/" + sname
		}
	}
	return fmt.Sprintf("%s/S%d", tname, f.Subtype())
}

// String renders a one-line summary for logs.
func (f *Frame) String() string {
	src, srcOK := f.Source()
	dst, dstOK := f.Dest()
	s := fmt.Sprintf("%-16s %s -> %s len=%d",
		f.TypeString(), MACString(src, srcOK), MACString(dst, dstOK), len(f.raw))
	if ssid, ok := f.SSID(); ok {
		s += fmt.Sprintf(" ssid=%q", ssid)
	}
	return s
}
