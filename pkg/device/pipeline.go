// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package device

import (
	"context"

	"github.com/miketahani/sniffy/pkg/wire"
)

// HandleFrame is the capture producer, invoked by the radio driver once per
// captured frame. It never blocks and never allocates beyond a pool
// acquire: when the pool is empty or the transmit queue is full the frame
// is dropped silently, observable on the host only through sequence gaps.
//
// The radio invokes exactly one producer context at a time, so the
// sequence counter needs no synchronization.
func (d *Device) HandleFrame(data []byte, meta RadioMeta) {
	if !d.state.Scanning() {
		return
	}
	if len(data) > wire.MaxFrameLen {
		return
	}

	handle, buf, ok := d.pool.Acquire()
	if !ok {
		return // pool exhausted, back-pressure drop
	}

	meta16 := wire.FrameMeta{
		Timestamp:  meta.Timestamp,
		FrameLen:   uint16(len(data)),
		Channel:    meta.Channel,
		RSSI:       meta.RSSI,
		NoiseFloor: meta.NoiseFloor,
		PktType:    meta.PktType,
		RxState:    meta.RxState,
		Rate:       meta.Rate,
		SeqNum:     d.seq,
	}
	d.seq++ // wraps at 65536 by type

	payloadLen := wire.MetaSize + len(data)
	msg := wire.AppendHeader(buf[:0], wire.MsgFrame, 0, uint16(payloadLen))
	msg = wire.AppendMeta(msg, meta16)
	msg = append(msg, data...)

	select {
	case d.txq <- txItem{handle: handle, length: len(msg)}:
	default:
		// Transmit queue full: the slot goes straight back, frame dropped.
		d.pool.Release(handle)
	}
}

// txTask is the transmit consumer: it drains the queue, COBS-encodes each
// message, writes it delimiter-framed, and unconditionally returns the slot
// to the pool.
func (d *Device) txTask(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case item := <-d.txq:
			raw := d.pool.Buf(item.handle)[:item.length]
			d.write(wire.Frame(raw))
			d.pool.Release(item.handle)
		}
	}
}
