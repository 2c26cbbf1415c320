// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package device

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDwell is how long the scan task stays on one channel during
// all-channel cycling, and the re-tune interval in single-channel mode.
const DefaultDwell = 2500 * time.Millisecond

// Config holds device tuning knobs. The zero value picks the firmware
// defaults.
type Config struct {
	Dwell  time.Duration
	Logger zerolog.Logger
}

type txItem struct {
	handle int
	length int
}

// Device wires the capture pipeline together: pool, transmit queue and
// task, command dispatcher, and scan task. Construct with New, register
// HandleFrame with the radio driver, then call Run.
type Device struct {
	radio     Radio
	transport io.ReadWriter
	state     State
	pool      *Pool
	txq       chan txItem
	scanSig   chan struct{}
	dwell     time.Duration
	log       zerolog.Logger

	// Transmit task and dispatcher replies share the transport.
	writeMu sync.Mutex

	// Owned by the single producer context the radio invokes.
	seq uint16
}

// New creates a device over the given radio and serial transport.
func New(radio Radio, transport io.ReadWriter, cfg Config) *Device {
	dwell := cfg.Dwell
	if dwell == 0 {
		dwell = DefaultDwell
	}
	return &Device{
		radio:     radio,
		transport: transport,
		pool:      NewPool(PoolSize, SlotSize),
		txq:       make(chan txItem, PoolSize),
		scanSig:   make(chan struct{}, 1),
		dwell:     dwell,
		log:       cfg.Logger,
	}
}

// State exposes the shared scan state for drivers that gate capture on it.
func (d *Device) State() *State {
	return &d.state
}

// Run starts the transmit, dispatch, and scan tasks and blocks until ctx is
// cancelled or the transport read side fails.
func (d *Device) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.txTask(ctx)
	}()
	go func() {
		defer wg.Done()
		d.scanTask(ctx)
	}()

	err := d.rxTask(ctx)

	cancel()
	wg.Wait()
	if ctx.Err() != nil && err == io.EOF {
		return nil
	}
	return err
}

// signalScan delivers a start/stop/restart signal to the scan task. The
// mailbox has capacity one and a new signal replaces an unconsumed one,
// matching the overwrite semantics of a task notification.
func (d *Device) signalScan() {
	for {
		select {
		case d.scanSig <- struct{}{}:
			return
		default:
		}
		select {
		case <-d.scanSig:
		default:
		}
	}
}

func (d *Device) write(frame []byte) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	if _, err := d.transport.Write(frame); err != nil {
		d.log.Warn().Err(err).Msg("transport write failed")
	}
}
