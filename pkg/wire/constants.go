// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

// Package wire implements the binary link protocol spoken between the
// sniffer firmware and the host over USB serial.
//
// Every message is a 4-byte header plus a type-specific payload, COBS
// encoded and delimited by 0x00 bytes on the wire. Frame events carry a
// 16-byte capture metadata block followed by the raw 802.11 frame. All
// multi-byte fields are little-endian to match the firmware's packed
// structs.
package wire

// Frame delimiter. COBS encoding guarantees it never appears inside an
// encoded span.
const Delimiter = 0x00

// Message types - commands (host -> device) 0x01-0x05
const (
	MsgScanStart    = 0x01
	MsgScanStop     = 0x02
	MsgPromiscOn    = 0x03
	MsgPromiscOff   = 0x04
	MsgPromiscQuery = 0x05
)

// Message types - responses (device -> host) 0x81-0x83
const (
	MsgAck           = 0x81
	MsgError         = 0x82
	MsgPromiscStatus = 0x83
)

// Message types - async events (device -> host)
const (
	MsgFrame = 0xC0
)

// Header flags
const (
	FlagErr = 1 << 0
	FlagAck = 1 << 1
)

// Error codes carried in the second payload byte of an Error response
const (
	ErrCodeUnknownCmd     = 0x01
	ErrCodeInvalidChannel = 0x02
	ErrCodeWifiFailure    = 0x03
	ErrCodeScanActive     = 0x04
	ErrCodeInvalidFilter  = 0x05
)

// Size limits
const (
	HeaderSize    = 4
	MetaSize      = 16
	MaxFrameLen   = 2300
	MaxPayloadLen = MetaSize + MaxFrameLen
)

// Capture filter bitmask. Zero means "all frame types".
const (
	FilterMgmt = 1 << 0
	FilterCtrl = 1 << 1
	FilterData = 1 << 2

	FilterMask = FilterMgmt | FilterCtrl | FilterData
)

// Channels the radio will tune to: 2.4 GHz 1-13 plus the usual 5/6 GHz set.
var ValidChannels = []uint8{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13,
	36, 40, 44, 48,
	149, 153, 157, 161, 165,
}

// IsValidChannel reports whether ch is in the radio's channel table.
func IsValidChannel(ch uint8) bool {
	for _, c := range ValidChannels {
		if c == ch {
			return true
		}
	}
	return false
}

// IsResponse reports whether t is a command response type (as opposed to an
// async event).
func IsResponse(t uint8) bool {
	return t == MsgAck || t == MsgError || t == MsgPromiscStatus
}
