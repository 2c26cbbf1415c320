// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package device

import (
	"context"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/miketahani/sniffy/pkg/wire"
)

// SimRadio is a software radio for development and tests. It honors the
// Radio contract and, while promiscuous mode is on, synthesizes beacon and
// probe-request traffic from a fixed set of fake access points on whatever
// channel it is tuned to.
type SimRadio struct {
	mu      sync.Mutex
	channel uint8
	promisc bool
	filter  uint8
	handler func([]byte, RadioMeta)

	interval time.Duration
	started  time.Time
	rng      *rand.Rand
	aps      []simAP
}

type simAP struct {
	bssid   [6]byte
	ssid    string
	channel uint8
}

// NewSimRadio creates a simulated radio emitting a frame roughly every
// interval while capture is enabled.
func NewSimRadio(interval time.Duration) *SimRadio {
	if interval == 0 {
		interval = 50 * time.Millisecond
	}
	return &SimRadio{
		channel:  1,
		interval: interval,
		started:  time.Now(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		aps: []simAP{
			{bssid: [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}, ssid: "corp-24", channel: 1},
			{bssid: [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x06}, ssid: "lab-gw", channel: 6},
			{bssid: [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x0B}, ssid: "guest", channel: 11},
			{bssid: [6]byte{0x02, 0x00, 0x00, 0x00, 0x50, 0x24}, ssid: "backhaul-5g", channel: 36},
			{bssid: [6]byte{0x02, 0x00, 0x00, 0x00, 0x50, 0x95}, ssid: "", channel: 149}, // hidden
		},
	}
}

// Attach registers the capture handler, normally Device.HandleFrame.
func (r *SimRadio) Attach(handler func([]byte, RadioMeta)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handler = handler
}

// SetChannel implements Radio.
func (r *SimRadio) SetChannel(ch uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channel = ch
	return nil
}

// SetPromiscuous implements Radio.
func (r *SimRadio) SetPromiscuous(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promisc = enabled
	return nil
}

// SetFilter implements Radio.
func (r *SimRadio) SetFilter(mask uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filter = mask
	return nil
}

// Channel returns the currently tuned channel.
func (r *SimRadio) Channel() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channel
}

// Run emits synthetic traffic until ctx is cancelled.
func (r *SimRadio) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.emit()
		}
	}
}

func (r *SimRadio) emit() {
	r.mu.Lock()
	handler := r.handler
	channel := r.channel
	capture := r.promisc && (r.filter == 0 || r.filter&wire.FilterMgmt != 0)
	frame, meta := r.nextFrame(channel)
	r.mu.Unlock()

	if handler == nil || !capture || frame == nil {
		return
	}
	handler(frame, meta)
}

// nextFrame picks an AP on the current channel and builds a beacon for it,
// or occasionally a broadcast probe request from a wandering station.
func (r *SimRadio) nextFrame(channel uint8) ([]byte, RadioMeta) {
	meta := RadioMeta{
		Timestamp:  uint32(time.Since(r.started).Microseconds()),
		Channel:    channel,
		RSSI:       int8(-30 - r.rng.Intn(60)),
		NoiseFloor: -95,
		Rate:       11,
	}

	if r.rng.Intn(8) == 0 {
		var sta [6]byte
		sta[0] = 0x06
		r.rng.Read(sta[1:])
		return buildProbeReq(sta), meta
	}

	var onChannel []simAP
	for _, ap := range r.aps {
		if ap.channel == channel {
			onChannel = append(onChannel, ap)
		}
	}
	if len(onChannel) == 0 {
		return nil, meta
	}
	ap := onChannel[r.rng.Intn(len(onChannel))]
	return buildBeacon(ap, meta.Timestamp), meta
}

var broadcast = [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

func buildBeacon(ap simAP, ts uint32) []byte {
	const fc = 0x0080 // management / beacon

	frame := binary.LittleEndian.AppendUint16(nil, fc)
	frame = binary.LittleEndian.AppendUint16(frame, 0)
	frame = append(frame, broadcast[:]...)
	frame = append(frame, ap.bssid[:]...)
	frame = append(frame, ap.bssid[:]...)
	frame = binary.LittleEndian.AppendUint16(frame, 0)

	// Fixed fields: timestamp, beacon interval, capability.
	frame = binary.LittleEndian.AppendUint64(frame, uint64(ts))
	frame = binary.LittleEndian.AppendUint16(frame, 100)
	frame = binary.LittleEndian.AppendUint16(frame, 0x0411)

	frame = append(frame, 0, uint8(len(ap.ssid)))
	frame = append(frame, ap.ssid...)
	frame = append(frame, 1, 4, 0x82, 0x84, 0x8B, 0x96) // supported rates
	frame = append(frame, 3, 1, ap.channel)             // DS parameter set
	return frame
}

func buildProbeReq(sta [6]byte) []byte {
	const fc = 0x0040 // management / probe request

	frame := binary.LittleEndian.AppendUint16(nil, fc)
	frame = binary.LittleEndian.AppendUint16(frame, 0)
	frame = append(frame, broadcast[:]...)
	frame = append(frame, sta[:]...)
	frame = append(frame, broadcast[:]...)
	frame = binary.LittleEndian.AppendUint16(frame, 0)

	frame = append(frame, 0, 0)                         // wildcard SSID
	frame = append(frame, 1, 4, 0x82, 0x84, 0x8B, 0x96) // supported rates
	return frame
}
