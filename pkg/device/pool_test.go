// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package device

import "testing"

func TestPoolAcquireRelease(t *testing.T) {
	p := NewPool(3, 64)

	if p.Free() != 3 {
		t.Fatalf("new pool Free = %d, want 3", p.Free())
	}

	h, buf, ok := p.Acquire()
	if !ok {
		t.Fatal("acquire from fresh pool failed")
	}
	if len(buf) != 64 {
		t.Errorf("slot size = %d, want 64", len(buf))
	}
	if p.Free() != 2 {
		t.Errorf("Free = %d after one acquire, want 2", p.Free())
	}

	p.Release(h)
	if p.Free() != 3 {
		t.Errorf("Free = %d after release, want 3", p.Free())
	}
}

func TestPoolExhaustionIsNonBlocking(t *testing.T) {
	p := NewPool(2, 16)

	h1, _, _ := p.Acquire()
	h2, _, _ := p.Acquire()

	// Must return immediately with ok=false, never wait.
	if _, _, ok := p.Acquire(); ok {
		t.Fatal("acquire from empty pool should fail")
	}

	p.Release(h1)
	p.Release(h2)
	if p.Free() != 2 {
		t.Errorf("Free = %d, want 2", p.Free())
	}
}

func TestPoolDistinctSlots(t *testing.T) {
	p := NewPool(4, 8)
	seen := map[int]bool{}
	for i := 0; i < 4; i++ {
		h, _, ok := p.Acquire()
		if !ok {
			t.Fatalf("acquire %d failed", i)
		}
		if seen[h] {
			t.Fatalf("handle %d issued twice", h)
		}
		seen[h] = true
	}
}

func TestPoolDoubleReleasePanics(t *testing.T) {
	p := NewPool(1, 8)
	h, _, _ := p.Acquire()
	p.Release(h)

	defer func() {
		if recover() == nil {
			t.Error("double release should panic")
		}
	}()
	p.Release(h)
}
