// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package host

import (
	"encoding/binary"
	"path/filepath"
	"testing"
	"time"

	"github.com/miketahani/sniffy/pkg/dot11"
	"github.com/miketahani/sniffy/pkg/wire"
)

// beaconFrame builds a minimal beacon with the given BSSID and SSID element.
func beaconFrame(bssid [6]byte, ssid string) []byte {
	raw := binary.LittleEndian.AppendUint16(nil, 0x0080)
	raw = binary.LittleEndian.AppendUint16(raw, 0)
	raw = append(raw, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
	raw = append(raw, bssid[:]...)
	raw = append(raw, bssid[:]...)
	raw = binary.LittleEndian.AppendUint16(raw, 0)
	raw = append(raw, make([]byte, 12)...) // fixed fields
	raw = append(raw, 0, uint8(len(ssid)))
	return append(raw, ssid...)
}

func observed(raw []byte, meta wire.FrameMeta) Frame {
	return Frame{Meta: meta, Frame: dot11.NewFrame(raw)}
}

func TestReportCollectorInventory(t *testing.T) {
	rc := NewReportCollector()

	ap1 := [6]byte{0x02, 0, 0, 0, 0, 1}
	ap2 := [6]byte{0x02, 0, 0, 0, 0, 2}

	rc.Observe(observed(beaconFrame(ap1, "office"), wire.FrameMeta{Channel: 6, RSSI: -60}))
	rc.Observe(observed(beaconFrame(ap1, "office"), wire.FrameMeta{Channel: 6, RSSI: -40}))
	rc.Observe(observed(beaconFrame(ap2, ""), wire.FrameMeta{Channel: 11, RSSI: -70}))

	// Non-beacon traffic never enters the inventory.
	data := []byte{0x08, 0x00, 0x00, 0x00}
	rc.Observe(observed(data, wire.FrameMeta{Channel: 6}))

	if rc.Count() != 2 {
		t.Fatalf("Count = %d, want 2", rc.Count())
	}

	report := rc.Build(Statistics{StartTime: time.Now(), Frames: 4})
	if len(report.APs) != 2 {
		t.Fatalf("report has %d APs, want 2", len(report.APs))
	}

	// Strongest first.
	first := report.APs[0]
	if first.SSID != "office" || first.BestRSSI != -40 || first.Beacons != 2 {
		t.Errorf("first AP = %+v, want office at -40 with 2 beacons", first)
	}
	second := report.APs[1]
	if !second.Hidden || second.SSID != "" {
		t.Errorf("second AP = %+v, want hidden with empty SSID", second)
	}
}

func TestReportRoundTrip(t *testing.T) {
	rc := NewReportCollector()
	rc.Observe(observed(beaconFrame([6]byte{0x02, 0, 0, 0, 0, 9}, "lab"), wire.FrameMeta{Channel: 36, RSSI: -55}))

	report := rc.Build(Statistics{StartTime: time.Now(), Frames: 1, Dropped: 3})

	path := filepath.Join(t.TempDir(), "session.cbor")
	if err := report.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if loaded.Frames != 1 || loaded.Dropped != 3 {
		t.Errorf("loaded counters = {%d %d}, want {1 3}", loaded.Frames, loaded.Dropped)
	}
	if len(loaded.APs) != 1 || loaded.APs[0].SSID != "lab" || loaded.APs[0].Channel != 36 {
		t.Errorf("loaded APs = %+v", loaded.APs)
	}
}
