// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package wire

import (
	"bytes"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// TestFuzzCobsRoundTrip encodes random byte sequences and verifies the
// round-trip law and the zero-free output property.
func TestFuzzCobsRoundTrip(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		length := rng.Intn(1024)
		data := make([]byte, length)
		rng.Read(data)

		// Bias some rounds toward zero-heavy input.
		if rng.Intn(4) == 0 {
			for j := range data {
				if rng.Intn(2) == 0 {
					data[j] = 0
				}
			}
		}

		enc := CobsEncode(data)
		if bytes.IndexByte(enc, 0x00) >= 0 {
			t.Fatalf("round %d: zero byte in encoded output", i)
		}

		dec, err := CobsDecode(enc)
		if err != nil {
			t.Fatalf("round %d: decode error: %v", i, err)
		}
		if !bytes.Equal(dec, data) {
			t.Fatalf("round %d: round trip mismatch at length %d", i, length)
		}
	}
}

// TestFuzzCobsDecodeRandomBytes feeds random garbage to the decoder and
// verifies it either fails cleanly or returns without panicking.
func TestFuzzCobsDecodeRandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		length := rng.Intn(512) + 1
		data := make([]byte, length)
		rng.Read(data)

		CobsDecode(data)
	}
}

// TestFuzzReassemblerRandomChunking pushes a known message sequence through
// the reassembler in random chunk sizes mixed with garbage spans.
func TestFuzzReassemblerRandomChunking(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		r := NewReassembler()

		numMsgs := rng.Intn(8) + 1
		var stream []byte
		for j := 0; j < numMsgs; j++ {
			stream = append(stream, Frame(NewAck(uint8(j)))...)
			if rng.Intn(3) == 0 {
				// Inject a garbage span the reassembler must skip.
				garbage := make([]byte, rng.Intn(8)+1)
				rng.Read(garbage)
				for k := range garbage {
					if garbage[k] == 0 {
						garbage[k] = 0xFF
					}
				}
				garbage[0] = 0xFF // code byte claims more than the span holds
				stream = append(stream, garbage...)
				stream = append(stream, Delimiter)
			}
		}

		var got []Message
		for len(stream) > 0 {
			n := rng.Intn(len(stream)) + 1
			got = append(got, r.Push(stream[:n])...)
			stream = stream[n:]
		}

		valid := 0
		for _, m := range got {
			if m.Header.Type == MsgAck {
				valid++
			}
		}
		if valid != numMsgs {
			t.Fatalf("round %d: recovered %d of %d messages", i, valid, numMsgs)
		}
	}
}

// TestFuzzReassemblerRandomBytes verifies the reassembler survives pure noise.
func TestFuzzReassemblerRandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	r := NewReassembler()
	for i := 0; i < rounds; i++ {
		chunk := make([]byte, rng.Intn(256)+1)
		rng.Read(chunk)
		r.Push(chunk)
	}
}
