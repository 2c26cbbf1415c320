// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package wire

import (
	"errors"
	"fmt"
)

// COBS decode failures. Both are wrapped with position information; use
// errors.Is to classify.
var (
	ErrMalformedEncoding = errors.New("cobs: zero byte in encoded data")
	ErrTruncated         = errors.New("cobs: truncated encoded data")
)

// cobsMaxGroup is the saturation value of a COBS code byte: a group of 254
// literal bytes with no implied zero.
const cobsMaxGroup = 0xFF

// CobsEncode byte-stuffs src so the output contains no zero byte.
// Worst-case expansion is one byte per 254 input bytes plus one.
func CobsEncode(src []byte) []byte {
	dst := make([]byte, 0, len(src)+len(src)/254+1)

	codeIdx := len(dst)
	dst = append(dst, 0) // placeholder for the first code byte
	code := byte(1)

	for _, b := range src {
		if b == 0x00 {
			dst[codeIdx] = code
			codeIdx = len(dst)
			dst = append(dst, 0)
			code = 1
			continue
		}
		dst = append(dst, b)
		code++
		if code == cobsMaxGroup {
			dst[codeIdx] = code
			codeIdx = len(dst)
			dst = append(dst, 0)
			code = 1
		}
	}

	dst[codeIdx] = code
	return dst
}

// CobsDecode reverses CobsEncode. It fails with ErrMalformedEncoding if a
// code byte is zero and with ErrTruncated if a code byte claims more bytes
// than remain.
func CobsDecode(src []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src))
	i := 0

	for i < len(src) {
		code := src[i]
		i++
		if code == 0 {
			return nil, fmt.Errorf("%w at offset %d", ErrMalformedEncoding, i-1)
		}

		for j := byte(1); j < code; j++ {
			if i >= len(src) {
				return nil, fmt.Errorf("%w: code %d at offset %d", ErrTruncated, code, i)
			}
			dst = append(dst, src[i])
			i++
		}

		// A full group carries no implied zero; neither does the final group.
		if code < cobsMaxGroup && i < len(src) {
			dst = append(dst, 0x00)
		}
	}

	return dst, nil
}
