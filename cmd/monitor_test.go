// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package cmd

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/miketahani/sniffy/pkg/dot11"
	"github.com/miketahani/sniffy/pkg/host"
	"github.com/miketahani/sniffy/pkg/wire"
)

func testBeacon(bssid [6]byte, ssid string) host.Frame {
	raw := binary.LittleEndian.AppendUint16(nil, 0x0080)
	raw = binary.LittleEndian.AppendUint16(raw, 0)
	raw = append(raw, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
	raw = append(raw, bssid[:]...)
	raw = append(raw, bssid[:]...)
	raw = binary.LittleEndian.AppendUint16(raw, 0)
	raw = append(raw, make([]byte, 12)...) // fixed fields
	raw = append(raw, 0, uint8(len(ssid)))
	raw = append(raw, ssid...)
	return host.Frame{
		Meta:  wire.FrameMeta{Channel: 6, RSSI: -50},
		Frame: dot11.NewFrame(raw),
	}
}

// The client's read goroutine starts delivering frames as soon as the scan
// is acked, before the UI program has been constructed and installed. The
// callback must record those frames without touching the program slot
// unsafely from either side.
func TestMonitorFrameCallbackBeforeProgramInstalled(t *testing.T) {
	collector := host.NewReportCollector()
	var program atomic.Pointer[tea.Program]
	cb := monitorOnFrame(collector, &program)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				cb(testBeacon([6]byte{0x02, 0, 0, 0, 0, 1}, "office"))
			}
		}()
	}
	wg.Wait()

	if collector.Count() != 1 {
		t.Fatalf("Count = %d, want 1", collector.Count())
	}
	report := collector.Build(host.Statistics{StartTime: time.Now()})
	if report.APs[0].Beacons != 200 {
		t.Errorf("Beacons = %d, want 200", report.APs[0].Beacons)
	}
}

func TestMonitorModelUpdate(t *testing.T) {
	collector := host.NewReportCollector()
	stats := host.Statistics{StartTime: time.Now(), Frames: 42, Dropped: 3}
	m := newMonitorModel("Serial: test", 6, func() host.Statistics { return stats }, collector)

	next, _ := m.Update(frameMsg{frame: testBeacon([6]byte{0x02, 0, 0, 0, 0, 1}, "office")})
	m = next.(monitorModel)
	if len(m.frameLog) != 1 {
		t.Fatalf("frameLog has %d entries, want 1", len(m.frameLog))
	}

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(monitorModel)
	if m.lastStats.Frames != 42 || m.lastStats.Dropped != 3 {
		t.Errorf("lastStats = {%d %d}, want {42 3}", m.lastStats.Frames, m.lastStats.Dropped)
	}
	if cmd == nil {
		t.Error("tick did not reschedule")
	}

	next, _ = m.Update(linkLostMsg{})
	m = next.(monitorModel)
	if !m.linkLost {
		t.Error("linkLost not set")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(monitorModel)
	if !m.quitting {
		t.Error("'q' did not quit")
	}
}
