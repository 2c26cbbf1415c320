// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package device

import "github.com/miketahani/sniffy/pkg/wire"

// Pool sizing. Each slot holds one complete frame event: header, metadata,
// and the raw 802.11 bytes.
const (
	PoolSize = 8
	SlotSize = wire.HeaderSize + wire.MetaSize + wire.MaxFrameLen
)

// Pool is a fixed arena of fixed-size buffer slots with a free-list queue
// of slot handles. Acquire never blocks: an empty free list is
// back-pressure and the caller drops its work item. A slot has exactly one
// owner at a time; ownership moves with the handle.
type Pool struct {
	slots [][]byte
	free  chan int
}

// NewPool allocates n slots of slotSize bytes each.
func NewPool(n, slotSize int) *Pool {
	p := &Pool{
		slots: make([][]byte, n),
		free:  make(chan int, n),
	}
	for i := range p.slots {
		p.slots[i] = make([]byte, slotSize)
		p.free <- i
	}
	return p
}

// Acquire takes a slot from the free list without blocking. ok is false
// when the pool is exhausted.
func (p *Pool) Acquire() (handle int, buf []byte, ok bool) {
	select {
	case h := <-p.free:
		return h, p.slots[h], true
	default:
		return 0, nil, false
	}
}

// Buf returns the backing buffer for a held handle.
func (p *Pool) Buf(handle int) []byte {
	return p.slots[handle]
}

// Release returns a slot to the free list. The caller must not touch the
// buffer afterward.
func (p *Pool) Release(handle int) {
	select {
	case p.free <- handle:
	default:
		// Double release; the free list can never exceed the slot count.
		panic("device: buffer slot released twice")
	}
}

// Free reports how many slots are currently available.
func (p *Pool) Free() int {
	return len(p.free)
}
