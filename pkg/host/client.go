// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package host

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/miketahani/sniffy/pkg/wire"
)

// DefaultTimeout is how long a command waits for its response before the
// client gives up on it.
const DefaultTimeout = 3 * time.Second

// Config carries Client options. The zero value is usable.
type Config struct {
	// Timeout bounds each command/response exchange. Zero means
	// DefaultTimeout.
	Timeout time.Duration

	// OnFrame receives every captured frame, called from the read
	// goroutine. A slow callback backs up the link; nil discards frames
	// after accounting.
	OnFrame func(Frame)

	Logger zerolog.Logger
}

// Client drives a sniffer device over any byte stream transport. Commands
// are serialized: one request is outstanding at a time, matched to the next
// response the device sends. Frame events arrive interleaved with responses
// and are dispatched to the OnFrame callback.
type Client struct {
	conn    io.ReadWriteCloser
	timeout time.Duration
	onFrame func(Frame)
	log     zerolog.Logger

	cmdMu   sync.Mutex // serializes command/response exchanges
	writeMu sync.Mutex

	pendMu  sync.Mutex
	pending chan wire.Message // nil unless a command is waiting

	statMu sync.Mutex
	stats  Statistics
	seq    seqTracker

	closeOnce sync.Once
	done      chan struct{}
}

// NewClient wraps an open transport and starts the read loop. The client
// owns conn and closes it on Close.
func NewClient(conn io.ReadWriteCloser, cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		conn:    conn,
		timeout: cfg.Timeout,
		onFrame: cfg.OnFrame,
		log:     cfg.Logger,
		done:    make(chan struct{}),
	}
	c.stats.StartTime = time.Now()
	go c.readLoop()
	return c
}

// Close shuts the transport down and fails any outstanding command.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

// Done is closed when the read loop exits, whether by Close or by a
// transport failure.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Statistics returns a snapshot of the capture counters.
func (c *Client) Statistics() Statistics {
	c.statMu.Lock()
	defer c.statMu.Unlock()
	s := c.stats
	s.CalculateRates()
	return s
}

// StartScan begins capture on channel with the given type filter. Channel 0
// cycles every supported channel; filter 0 captures all frame types.
func (c *Client) StartScan(channel, filter uint8) error {
	if channel != 0 && !wire.IsValidChannel(channel) {
		return fmt.Errorf("host: channel %d is not supported", channel)
	}
	if filter&^wire.FilterMask != 0 {
		return fmt.Errorf("host: filter 0x%02x has unknown bits set", filter)
	}
	_, err := c.command(wire.NewScanStart(channel, filter))
	return err
}

// StopScan halts capture. Stopping an idle device still succeeds.
func (c *Client) StopScan() error {
	_, err := c.command(wire.NewScanStop())
	return err
}

// SetPromiscuous switches the radio's promiscuous mode directly. Disabling
// it while a scan is active fails with ErrCodeScanActive.
func (c *Client) SetPromiscuous(enabled bool) error {
	cmd := wire.NewPromiscOff()
	if enabled {
		cmd = wire.NewPromiscOn()
	}
	_, err := c.command(cmd)
	return err
}

// QueryPromiscuous asks the device whether promiscuous mode is on.
func (c *Client) QueryPromiscuous() (bool, error) {
	resp, err := c.command(wire.NewPromiscQuery())
	if err != nil {
		return false, err
	}
	if resp.Header.Type != wire.MsgPromiscStatus || len(resp.Payload) < 1 {
		return false, fmt.Errorf("host: unexpected response type 0x%02x to status query", resp.Header.Type)
	}
	return resp.Payload[0] != 0, nil
}

// command sends one framed command and waits for the matching response.
func (c *Client) command(raw []byte) (wire.Message, error) {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	select {
	case <-c.done:
		return wire.Message{}, ErrDisconnected
	default:
	}

	ch := make(chan wire.Message, 1)
	c.pendMu.Lock()
	c.pending = ch
	c.pendMu.Unlock()

	if err := c.write(wire.Frame(raw)); err != nil {
		c.clearPending(ch)
		return wire.Message{}, fmt.Errorf("host: send command: %w", err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		if resp.Header.Type == wire.MsgError {
			if len(resp.Payload) < 2 {
				return wire.Message{}, fmt.Errorf("host: malformed error response")
			}
			return wire.Message{}, &CommandError{Cmd: resp.Payload[0], Code: resp.Payload[1]}
		}
		return resp, nil
	case <-timer.C:
		c.clearPending(ch)
		c.log.Warn().Hex("command", raw[:1]).Msg("command timed out")
		return wire.Message{}, ErrTimeout
	case <-c.done:
		return wire.Message{}, ErrDisconnected
	}
}

func (c *Client) clearPending(ch chan wire.Message) {
	c.pendMu.Lock()
	if c.pending == ch {
		c.pending = nil
	}
	c.pendMu.Unlock()
}

func (c *Client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.conn.Write(data)
	return err
}

// readLoop pulls transport bytes through the reassembler and dispatches
// decoded messages until the connection dies.
func (c *Client) readLoop() {
	defer close(c.done)

	rx := wire.NewReassembler()
	buf := make([]byte, 4096)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			for _, msg := range rx.Push(buf[:n]) {
				c.dispatch(msg)
			}
			c.statMu.Lock()
			c.stats.DecodeErrors = rx.DecodeErrors
			c.stats.ShortMessages = rx.ShortSpans
			c.statMu.Unlock()
		}
		if err != nil {
			if err != io.EOF {
				c.log.Debug().Err(err).Msg("transport read failed")
			}
			return
		}
	}
}

func (c *Client) dispatch(msg wire.Message) {
	switch {
	case msg.Header.Type == wire.MsgFrame:
		c.handleFrame(msg.Payload)
	case wire.IsResponse(msg.Header.Type):
		c.statMu.Lock()
		c.stats.Responses++
		c.statMu.Unlock()

		c.pendMu.Lock()
		ch := c.pending
		c.pending = nil
		c.pendMu.Unlock()
		if ch != nil {
			ch <- msg
		} else {
			c.log.Debug().Uint8("type", msg.Header.Type).Msg("unsolicited response discarded")
		}
	default:
		c.log.Debug().Uint8("type", msg.Header.Type).Msg("unknown message type")
	}
}

func (c *Client) handleFrame(payload []byte) {
	frame, err := parseFrameEvent(payload)
	if err != nil {
		c.statMu.Lock()
		c.stats.Invalid++
		c.statMu.Unlock()
		c.log.Debug().Err(err).Msg("invalid frame event")
		return
	}

	c.statMu.Lock()
	c.stats.Frames++
	if dropped := c.seq.observe(frame.Meta.SeqNum); dropped > 0 {
		c.stats.Dropped += dropped
		c.log.Debug().Uint64("dropped", dropped).Uint16("seq", frame.Meta.SeqNum).Msg("sequence gap")
	}
	c.statMu.Unlock()

	if c.onFrame != nil {
		c.onFrame(frame)
	}
}
