// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package wire

import (
	"encoding/binary"
	"fmt"
)

// FrameMeta is the 16-byte capture metadata block the firmware prepends to
// every raw 802.11 frame. Layout matches the firmware's packed struct,
// little-endian throughout.
type FrameMeta struct {
	Timestamp  uint32 // microseconds, radio clock
	FrameLen   uint16
	Channel    uint8
	RSSI       int8
	NoiseFloor int8
	PktType    uint8
	RxState    uint8
	Rate       uint8
	SeqNum     uint16
	// two reserved bytes complete the block
}

// AppendMeta appends the 16-byte encoding of m to dst.
func AppendMeta(dst []byte, m FrameMeta) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, m.Timestamp)
	dst = binary.LittleEndian.AppendUint16(dst, m.FrameLen)
	dst = append(dst, m.Channel, byte(m.RSSI), byte(m.NoiseFloor),
		m.PktType, m.RxState, m.Rate)
	dst = binary.LittleEndian.AppendUint16(dst, m.SeqNum)
	return binary.LittleEndian.AppendUint16(dst, 0) // reserved
}

// ParseMeta decodes a 16-byte metadata block.
func ParseMeta(data []byte) (FrameMeta, error) {
	if len(data) < MetaSize {
		return FrameMeta{}, fmt.Errorf("wire: metadata block is %d bytes, need %d", len(data), MetaSize)
	}
	return FrameMeta{
		Timestamp:  binary.LittleEndian.Uint32(data[0:4]),
		FrameLen:   binary.LittleEndian.Uint16(data[4:6]),
		Channel:    data[6],
		RSSI:       int8(data[7]),
		NoiseFloor: int8(data[8]),
		PktType:    data[9],
		RxState:    data[10],
		Rate:       data[11],
		SeqNum:     binary.LittleEndian.Uint16(data[12:14]),
	}, nil
}
