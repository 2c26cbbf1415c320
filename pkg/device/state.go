// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package device

import "sync/atomic"

// State is the scan/promiscuous state shared between the command
// dispatcher (sole writer), the capture producer, and the scan task.
// Fields are atomics so readers on other tasks always see a coherent value;
// the single-writer rule makes no further locking necessary.
type State struct {
	scanning    atomic.Bool
	promiscuous atomic.Bool
	channel     atomic.Int32  // 0 = all channels, >0 = specific
	filter      atomic.Uint32 // Filter* bits; 0 = all frame types
}

// Scanning reports whether a scan is active.
func (s *State) Scanning() bool { return s.scanning.Load() }

// Promiscuous reports whether promiscuous capture is enabled.
func (s *State) Promiscuous() bool { return s.promiscuous.Load() }

// Channel returns the requested scan channel, 0 meaning all-channel cycling.
func (s *State) Channel() int32 { return s.channel.Load() }

// Filter returns the configured frame-type filter bits.
func (s *State) Filter() uint8 { return uint8(s.filter.Load()) }

func (s *State) setScanning(v bool)    { s.scanning.Store(v) }
func (s *State) setPromiscuous(v bool) { s.promiscuous.Store(v) }
func (s *State) setChannel(ch int32)   { s.channel.Store(ch) }
func (s *State) setFilter(f uint8)     { s.filter.Store(uint32(f)) }
