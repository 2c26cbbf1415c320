// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Header is the fixed 4-byte prefix of every message.
type Header struct {
	Type       uint8
	Flags      uint8
	PayloadLen uint16
}

// ErrShortMessage is returned when a decoded span is smaller than the header.
var ErrShortMessage = errors.New("wire: message shorter than header")

// ParseHeader reads the 4-byte header from the front of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrShortMessage
	}
	return Header{
		Type:       data[0],
		Flags:      data[1],
		PayloadLen: binary.LittleEndian.Uint16(data[2:4]),
	}, nil
}

// Message is a decoded protocol message: header plus payload bytes.
type Message struct {
	Header  Header
	Payload []byte
}

// ParseMessage splits a decoded COBS span into header and payload. The
// payload is truncated to the declared length; a declared length exceeding
// the bytes present is an error.
func ParseMessage(data []byte) (Message, error) {
	hdr, err := ParseHeader(data)
	if err != nil {
		return Message{}, err
	}
	if int(hdr.PayloadLen) > MaxPayloadLen {
		return Message{}, fmt.Errorf("wire: payload length %d exceeds maximum %d", hdr.PayloadLen, MaxPayloadLen)
	}
	if int(hdr.PayloadLen) > len(data)-HeaderSize {
		return Message{}, fmt.Errorf("wire: payload length %d exceeds %d available bytes", hdr.PayloadLen, len(data)-HeaderSize)
	}
	return Message{
		Header:  hdr,
		Payload: data[HeaderSize : HeaderSize+int(hdr.PayloadLen)],
	}, nil
}

// AppendHeader appends the 4-byte header encoding to dst.
func AppendHeader(dst []byte, msgType, flags uint8, payloadLen uint16) []byte {
	dst = append(dst, msgType, flags)
	return binary.LittleEndian.AppendUint16(dst, payloadLen)
}

// Frame assembles a complete wire frame: delimiter + COBS(raw) + delimiter.
func Frame(raw []byte) []byte {
	enc := CobsEncode(raw)
	out := make([]byte, 0, len(enc)+2)
	out = append(out, Delimiter)
	out = append(out, enc...)
	out = append(out, Delimiter)
	return out
}

// Command builders. Each returns the raw (unframed) message bytes.

// NewScanStart builds a ScanStart command. Channel 0 requests all-channel
// cycling; filter 0 requests all frame types.
func NewScanStart(channel, filter uint8) []byte {
	msg := AppendHeader(nil, MsgScanStart, 0, 2)
	return append(msg, channel, filter)
}

// NewScanStop builds a ScanStop command.
func NewScanStop() []byte {
	return AppendHeader(nil, MsgScanStop, 0, 0)
}

// NewPromiscOn builds a PromiscOn command.
func NewPromiscOn() []byte {
	return AppendHeader(nil, MsgPromiscOn, 0, 0)
}

// NewPromiscOff builds a PromiscOff command.
func NewPromiscOff() []byte {
	return AppendHeader(nil, MsgPromiscOff, 0, 0)
}

// NewPromiscQuery builds a PromiscQuery command.
func NewPromiscQuery() []byte {
	return AppendHeader(nil, MsgPromiscQuery, 0, 0)
}

// Response builders.

// NewAck builds an Ack response echoing the acknowledged command type.
func NewAck(cmdType uint8) []byte {
	msg := AppendHeader(nil, MsgAck, FlagAck, 1)
	return append(msg, cmdType)
}

// NewError builds an Error response carrying the failed command type and an
// ErrCode* value.
func NewError(cmdType, code uint8) []byte {
	msg := AppendHeader(nil, MsgError, FlagErr, 2)
	return append(msg, cmdType, code)
}

// NewPromiscStatus builds a PromiscStatus response.
func NewPromiscStatus(enabled bool) []byte {
	msg := AppendHeader(nil, MsgPromiscStatus, FlagAck, 1)
	if enabled {
		return append(msg, 1)
	}
	return append(msg, 0)
}
