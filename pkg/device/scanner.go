// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package device

import (
	"context"
	"time"

	"github.com/miketahani/sniffy/pkg/wire"
)

// scanTask is the channel-control state machine. It idles until the
// dispatcher signals a scan start, then runs single-channel or all-channel
// mode until scanning is cleared. Signals are coalesced (capacity-one
// mailbox), and any signal received mid-dwell abandons the remaining dwell
// time: a restart while already all-scanning restarts the cycle from the
// top rather than resuming mid-cycle.
func (d *Device) scanTask(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.scanSig:
		}

		for d.state.Scanning() {
			if ctx.Err() != nil {
				return
			}
			if d.state.Channel() > 0 {
				d.runSingle(ctx)
			} else {
				d.runAll(ctx)
			}
		}
	}
}

// runSingle holds one channel, re-evaluating on every signal. It returns
// when scanning stops or the requested mode switches to all-channel.
func (d *Device) runSingle(ctx context.Context) {
	ch := d.state.Channel()
	d.tune(uint8(ch))

	timer := time.NewTimer(d.dwell)
	defer timer.Stop()

	for d.state.Scanning() {
		select {
		case <-ctx.Done():
			return
		case <-d.scanSig:
			if !d.state.Scanning() {
				return
			}
			ch = d.state.Channel()
			if ch <= 0 {
				return // switched to all-channel mode
			}
			d.tune(uint8(ch))
		case <-timer.C:
			// Dwell elapsed with no signal: stay put.
			d.tune(uint8(ch))
		}
		resetTimer(timer, d.dwell)
	}
}

// runAll cycles the channel table, one dwell per channel. Any signal breaks
// the cycle so the caller re-evaluates mode and scanning state.
func (d *Device) runAll(ctx context.Context) {
	timer := time.NewTimer(d.dwell)
	defer timer.Stop()

	for idx := 0; d.state.Scanning(); idx = (idx + 1) % len(wire.ValidChannels) {
		d.tune(wire.ValidChannels[idx])

		select {
		case <-ctx.Done():
			return
		case <-d.scanSig:
			return
		case <-timer.C:
		}
		resetTimer(timer, d.dwell)
	}
}

func (d *Device) tune(ch uint8) {
	if err := d.radio.SetChannel(ch); err != nil {
		d.log.Warn().Err(err).Uint8("channel", ch).Msg("channel tune failed")
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
