// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

// Package host implements the client side of the sniffer link: byte-stream
// reassembly, command/response pairing, sequence-gap drop accounting, and
// delivery of captured 802.11 frames.
package host

import (
	"errors"
	"fmt"

	"github.com/miketahani/sniffy/pkg/wire"
)

// Liveness failures surfaced by Client commands.
var (
	// ErrTimeout means no response arrived within the configured window.
	// The device may still process the command late.
	ErrTimeout = errors.New("host: command response timed out")

	// ErrDisconnected means the connection closed while a command was
	// outstanding (or before it could be sent).
	ErrDisconnected = errors.New("host: connection closed")
)

var errCodeNames = map[uint8]string{
	wire.ErrCodeUnknownCmd:     "unknown command",
	wire.ErrCodeInvalidChannel: "invalid channel",
	wire.ErrCodeWifiFailure:    "wifi failure",
	wire.ErrCodeScanActive:     "scan active (stop scan first)",
	wire.ErrCodeInvalidFilter:  "invalid filter",
}

// CommandError is a protocol-level failure: the device rejected a command
// with a specific error code.
type CommandError struct {
	Cmd  uint8
	Code uint8
}

func (e *CommandError) Error() string {
	name, ok := errCodeNames[e.Code]
	if !ok {
		name = fmt.Sprintf("0x%02x", e.Code)
	}
	return fmt.Sprintf("command 0x%02x failed: %s", e.Cmd, name)
}
