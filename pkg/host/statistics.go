// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package host

import (
	"fmt"
	"time"
)

// Statistics tracks per-connection frame and error counters. Dropped is an
// estimate derived from sequence gaps, not an exact count: duplicate or
// reordered deliveries can under- or over-count.
type Statistics struct {
	StartTime time.Time

	Frames        uint64 // frames delivered to the callback
	Dropped       uint64 // estimated loss from sequence gaps
	Invalid       uint64 // frame events with an over-declared length
	DecodeErrors  uint64 // COBS spans that failed to decode
	ShortMessages uint64 // decoded spans shorter than the header
	Responses     uint64 // command responses received

	FrameRate float64 // frames/sec, filled by CalculateRates
}

// CalculateRates fills the derived rate fields.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.Frames) / elapsed
	}
}

// String returns a formatted statistics summary.
func (s Statistics) String() string {
	s.CalculateRates()
	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Capture statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Frames received: %8d\n", s.Frames)
	result += fmt.Sprintf("Frames dropped:  %8d (estimated)\n", s.Dropped)
	if s.Invalid > 0 {
		result += fmt.Sprintf("Invalid frames:  %8d\n", s.Invalid)
	}
	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode errors:   %8d\n", s.DecodeErrors)
	}
	if s.ShortMessages > 0 {
		result += fmt.Sprintf("Short messages:  %8d\n", s.ShortMessages)
	}
	result += fmt.Sprintf("Frame rate:      %8.1f frames/sec\n", s.FrameRate)
	result += "========================================\n"
	return result
}

// seqTracker implements the wrapping-counter gap heuristic: a forward gap
// of less than half the counter range is loss, anything else is reordering
// noise and ignored. The expectation always advances to seq+1.
type seqTracker struct {
	expected  uint16
	firstSeen bool
}

// observe returns the number of frames presumed dropped before seq.
func (t *seqTracker) observe(seq uint16) uint64 {
	var dropped uint64
	if !t.firstSeen {
		t.firstSeen = true
	} else if gap := seq - t.expected; gap < 0x8000 {
		dropped = uint64(gap)
	}
	t.expected = seq + 1
	return dropped
}
