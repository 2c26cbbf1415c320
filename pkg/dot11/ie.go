// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package dot11

// IE is one tagged information element from a management frame body.
type IE struct {
	ID   uint8
	Data []byte
}

// ieOffset returns the byte offset of the first information element for the
// frame's management subtype, or -1 for frames that carry no elements.
// Beacons and probe responses have 12 bytes of fixed fields after the MAC
// header (timestamp, beacon interval, capability); association requests
// have 4 (capability, listen interval); probe requests have none.
func (f *Frame) ieOffset() int {
	if f.Type() != TypeMgmt {
		return -1
	}
	switch f.Subtype() {
	case SubtypeBeacon, SubtypeProbeResp:
		return 24 + 12
	case SubtypeProbeReq:
		return 24
	case SubtypeAssocReq:
		return 24 + 4
	default:
		return 24
	}
}

// ForEachIE walks the frame's information elements in order, calling fn for
// each until it returns false. Iteration stops silently at the first
// element whose declared length overruns the buffer. Each call restarts
// from the first element.
//
// The IE data slices alias the frame's raw bytes.
func (f *Frame) ForEachIE(fn func(IE) bool) {
	pos := f.ieOffset()
	if pos < 0 {
		return
	}
	data := f.raw
	for pos+2 <= len(data) {
		id := data[pos]
		n := int(data[pos+1])
		if pos+2+n > len(data) {
			return
		}
		if !fn(IE{ID: id, Data: data[pos+2 : pos+2+n]}) {
			return
		}
		pos += 2 + n
	}
}

// IEs collects every information element into a slice.
func (f *Frame) IEs() []IE {
	var ies []IE
	f.ForEachIE(func(ie IE) bool {
		ies = append(ies, ie)
		return true
	})
	return ies
}
