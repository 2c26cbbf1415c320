// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

// Package device implements the firmware-side capture core: a fixed buffer
// pool, the capture-to-serial transmit pipeline, the command dispatcher,
// and the channel-cycling scan task.
//
// The package is radio-agnostic. A platform driver implements Radio and
// feeds captured frames into Device.HandleFrame; the device streams them,
// COBS framed, over any io.ReadWriter transport.
package device

// RadioMeta is the per-frame receive metadata reported by the radio.
type RadioMeta struct {
	Timestamp  uint32 // microseconds, radio clock
	Channel    uint8
	RSSI       int8
	NoiseFloor int8
	PktType    uint8
	RxState    uint8
	Rate       uint8
}

// Radio is the platform capability the device core drives. Implementations
// must be safe for calls from the dispatcher and scan tasks.
type Radio interface {
	// SetChannel tunes the radio to the given channel.
	SetChannel(ch uint8) error

	// SetPromiscuous enables or disables promiscuous capture. While
	// enabled, the driver delivers each captured frame to the handler
	// registered by the device.
	SetPromiscuous(enabled bool) error

	// SetFilter installs the frame-type capture filter (Filter* bits).
	SetFilter(mask uint8) error
}
