// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package device

import (
	"context"
	"errors"
	"io"

	"github.com/miketahani/sniffy/pkg/wire"
)

// rxTask reads inbound bytes, reassembles framed commands, and dispatches
// them one at a time. Each command's reply is written before the next
// message is taken from the stream, so the host sees strictly ordered
// responses.
func (d *Device) rxTask(ctx context.Context) error {
	r := wire.NewReassembler()
	buf := make([]byte, 256)

	for {
		n, err := d.transport.Read(buf)
		if n > 0 {
			for _, msg := range r.Push(buf[:n]) {
				d.handleCommand(msg)
			}
		}
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return err
			}
			d.log.Warn().Err(err).Msg("transport read failed")
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (d *Device) handleCommand(msg wire.Message) {
	switch msg.Header.Type {

	case wire.MsgScanStart:
		d.handleScanStart(msg)

	case wire.MsgScanStop:
		d.state.setScanning(false)
		d.signalScan()
		d.log.Debug().Msg("scan stopped")
		d.write(wire.Frame(wire.NewAck(msg.Header.Type)))

	case wire.MsgPromiscOn:
		if err := d.enableCapture(); err != nil {
			d.write(wire.Frame(wire.NewError(msg.Header.Type, wire.ErrCodeWifiFailure)))
			return
		}
		d.write(wire.Frame(wire.NewAck(msg.Header.Type)))

	case wire.MsgPromiscOff:
		if d.state.Scanning() {
			d.write(wire.Frame(wire.NewError(msg.Header.Type, wire.ErrCodeScanActive)))
			return
		}
		if err := d.radio.SetPromiscuous(false); err != nil {
			d.write(wire.Frame(wire.NewError(msg.Header.Type, wire.ErrCodeWifiFailure)))
			return
		}
		d.state.setPromiscuous(false)
		d.write(wire.Frame(wire.NewAck(msg.Header.Type)))

	case wire.MsgPromiscQuery:
		d.write(wire.Frame(wire.NewPromiscStatus(d.state.Promiscuous())))

	default:
		d.write(wire.Frame(wire.NewError(msg.Header.Type, wire.ErrCodeUnknownCmd)))
	}
}

func (d *Device) handleScanStart(msg wire.Message) {
	if len(msg.Payload) < 2 {
		d.write(wire.Frame(wire.NewError(msg.Header.Type, wire.ErrCodeInvalidChannel)))
		return
	}
	ch := msg.Payload[0]
	filter := msg.Payload[1]

	if ch != 0 && !wire.IsValidChannel(ch) {
		d.write(wire.Frame(wire.NewError(msg.Header.Type, wire.ErrCodeInvalidChannel)))
		return
	}
	if filter&^wire.FilterMask != 0 {
		d.write(wire.Frame(wire.NewError(msg.Header.Type, wire.ErrCodeInvalidFilter)))
		return
	}

	d.state.setChannel(int32(ch))
	d.state.setFilter(filter)

	if err := d.enableCapture(); err != nil {
		d.write(wire.Frame(wire.NewError(msg.Header.Type, wire.ErrCodeWifiFailure)))
		return
	}

	d.state.setScanning(true)
	d.signalScan()
	d.log.Debug().Uint8("channel", ch).Uint8("filter", filter).Msg("scan started")
	d.write(wire.Frame(wire.NewAck(msg.Header.Type)))
}

// enableCapture installs the effective frame-type filter (the configured
// bitmask, or all types when unset) and turns promiscuous mode on if it is
// not already.
func (d *Device) enableCapture() error {
	mask := d.state.Filter()
	if mask == 0 {
		mask = wire.FilterMask
	}
	if err := d.radio.SetFilter(mask); err != nil {
		return err
	}
	if !d.state.Promiscuous() {
		if err := d.radio.SetPromiscuous(true); err != nil {
			return err
		}
	}
	d.state.setPromiscuous(true)
	return nil
}
