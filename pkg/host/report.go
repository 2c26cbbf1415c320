// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package host

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/miketahani/sniffy/pkg/dot11"
)

// AccessPoint is one network observed during a capture session.
type AccessPoint struct {
	BSSID     string    `cbor:"bssid"`
	SSID      string    `cbor:"ssid"`
	Hidden    bool      `cbor:"hidden"`
	Channel   uint8     `cbor:"channel"`
	BestRSSI  int8      `cbor:"best_rssi"`
	Beacons   uint64    `cbor:"beacons"`
	FirstSeen time.Time `cbor:"first_seen"`
	LastSeen  time.Time `cbor:"last_seen"`
}

// Report is a capture session summary, serialized to CBOR on disk.
type Report struct {
	Started      time.Time     `cbor:"started"`
	Finished     time.Time     `cbor:"finished"`
	Frames       uint64        `cbor:"frames"`
	Dropped      uint64        `cbor:"dropped"`
	Invalid      uint64        `cbor:"invalid"`
	DecodeErrors uint64        `cbor:"decode_errors"`
	APs          []AccessPoint `cbor:"access_points"`
}

// ReportCollector builds an access point inventory from captured frames.
// Safe for use as an OnFrame callback alongside other consumers.
type ReportCollector struct {
	mu  sync.Mutex
	aps map[dot11.MAC]*AccessPoint
}

// NewReportCollector creates an empty collector.
func NewReportCollector() *ReportCollector {
	return &ReportCollector{aps: make(map[dot11.MAC]*AccessPoint)}
}

// Observe folds one captured frame into the inventory. Only beacons and
// probe responses identify networks; everything else is ignored.
func (rc *ReportCollector) Observe(f Frame) {
	if !f.IsBeacon() && !f.IsProbeResp() {
		return
	}
	bssid, ok := f.BSSID()
	if !ok {
		return
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	ap, seen := rc.aps[bssid]
	if !seen {
		ap = &AccessPoint{
			BSSID:     bssid.String(),
			Channel:   f.Meta.Channel,
			BestRSSI:  f.Meta.RSSI,
			FirstSeen: time.Now(),
		}
		rc.aps[bssid] = ap
	}

	ap.Beacons++
	ap.LastSeen = time.Now()
	ap.Channel = f.Meta.Channel
	if f.Meta.RSSI > ap.BestRSSI {
		ap.BestRSSI = f.Meta.RSSI
	}
	if ssid, present := f.SSID(); present {
		if ssid == "" {
			ap.Hidden = true
		} else {
			ap.SSID = ssid
			ap.Hidden = false
		}
	}
}

// Count returns the number of distinct networks seen so far.
func (rc *ReportCollector) Count() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.aps)
}

// Build assembles the final report from the inventory and the client's
// statistics, strongest network first.
func (rc *ReportCollector) Build(stats Statistics) Report {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	aps := make([]AccessPoint, 0, len(rc.aps))
	for _, ap := range rc.aps {
		aps = append(aps, *ap)
	}
	sort.Slice(aps, func(i, j int) bool {
		if aps[i].BestRSSI != aps[j].BestRSSI {
			return aps[i].BestRSSI > aps[j].BestRSSI
		}
		return aps[i].BSSID < aps[j].BSSID
	})

	return Report{
		Started:      stats.StartTime,
		Finished:     time.Now(),
		Frames:       stats.Frames,
		Dropped:      stats.Dropped,
		Invalid:      stats.Invalid,
		DecodeErrors: stats.DecodeErrors,
		APs:          aps,
	}
}

// WriteFile serializes the report to path as CBOR.
func (r Report) WriteFile(path string) error {
	data, err := cbor.Marshal(r)
	if err != nil {
		return fmt.Errorf("host: encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("host: write report: %w", err)
	}
	return nil
}

// ReadReport loads a CBOR report written by WriteFile.
func ReadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("host: read report: %w", err)
	}
	var r Report
	if err := cbor.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("host: decode report: %w", err)
	}
	return r, nil
}
