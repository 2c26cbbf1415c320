// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package wire

import "bytes"

// Reassembler extracts delimiter-framed COBS spans from an arbitrary-chunked
// byte stream. It keeps partial data across Push calls, so transport reads
// can split messages anywhere.
//
// Decode failures and undersized spans are counted and dropped; a corrupt
// span never terminates the stream.
type Reassembler struct {
	buf []byte

	// Drop counters, readable by the owner for diagnostics.
	DecodeErrors uint64
	ShortSpans   uint64
	Overflows    uint64
}

// maxSpan bounds the accumulation buffer. The largest legal message encodes
// to well under this, so a span this long without a delimiter is garbage
// (noise on an unframed line) and is discarded wholesale.
const maxSpan = 4096

// NewReassembler creates an empty reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{buf: make([]byte, 0, 4096)}
}

// Push appends a transport read and returns every complete message decoded
// from the accumulated stream, in arrival order.
func (r *Reassembler) Push(chunk []byte) []Message {
	r.buf = append(r.buf, chunk...)

	var msgs []Message
	for {
		idx := bytes.IndexByte(r.buf, Delimiter)
		if idx < 0 {
			break
		}
		span := r.buf[:idx]
		r.buf = r.buf[idx+1:]

		// Consecutive delimiters produce empty spans; skip them.
		if len(span) == 0 {
			continue
		}

		decoded, err := CobsDecode(span)
		if err != nil {
			r.DecodeErrors++
			continue
		}

		msg, err := ParseMessage(decoded)
		if err != nil {
			r.ShortSpans++
			continue
		}
		msgs = append(msgs, msg)
	}

	if len(r.buf) > maxSpan {
		r.buf = r.buf[:0]
		r.Overflows++
	}

	// Reclaim capacity once consumed bytes dominate the backing array.
	if len(r.buf) == 0 && cap(r.buf) > 64*1024 {
		r.buf = make([]byte, 0, 4096)
	}
	return msgs
}

// Reset discards any partial span, e.g. after a reconnect.
func (r *Reassembler) Reset() {
	r.buf = r.buf[:0]
}
