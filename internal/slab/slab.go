// Copyright 2025 Skein Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package slab stores live objects under the slot keys that addresses
// carry. Lookups are wait-free; insertion and removal take a
// per-shard lock. A generation tag in every slot key guarantees that
// a stale key reads as absent instead of resolving to whatever object
// reused the slot.
package slab

import (
	"sync"
	"sync/atomic"

	"skein.io/internal/identity"
	"skein.io/internal/object"
	"skein.io/internal/util"
)

// Slot key layout, most significant bits first. The total must equal
// identity.SlotKeyBits: the group and node fields of an address sit
// directly above these bits and must stay untouched.
// On a 32-bit host the key would shrink to 32 used bits (8 random +
// 7 generation + 7 shard + 10 slot); only the 64-bit layout is wired
// up here.
const (
	GenerationBits = 10
	ShardBits      = 9
	SlotBits       = 21

	UsedBits = GenerationBits + ShardBits + SlotBits

	// PageSize and MaxPages split the per-shard slot space so slots
	// are allocated lazily without ever moving: concurrent readers
	// hold pointers into pages.
	pageOffsetBits = 10
	PageSize       = 1 << pageOffsetBits
	MaxPages       = 1 << (SlotBits - pageOffsetBits)

	generationMask = (uint64(1) << GenerationBits) - 1
	usedMask       = (uint64(1) << UsedBits) - 1
	slotMask       = (uint64(1) << SlotBits) - 1
)

// Width checks: both shifts compile only when UsedBits matches the
// address layout exactly.
const (
	_ = uint64(1) << (identity.SlotKeyBits - UsedBits)
	_ = uint64(1) << (UsedBits - identity.SlotKeyBits)
)

// Config bounds a slab. The defaults yield the design targets of the
// address scheme: up to 1024 generations per slot for reuse
// protection and up to 2^21 (about two million) live objects per shard.
type Config struct {
	// Shards is the number of independently locked shards. At most
	// 1<<ShardBits; more shards mean less insert contention and more
	// base memory.
	Shards int
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{Shards: 64}
}

type cell struct {
	// state is generation<<1 | occupied. Readers revalidate it around
	// the object load so a concurrent removal reads as absent.
	state atomic.Uint64
	obj   atomic.Pointer[object.Object]
}

type page [PageSize]cell

type shard struct {
	mu    sync.Mutex
	pages [MaxPages]atomic.Pointer[page]
	free  []uint32
	next  uint32 // first never-used slot
}

// Slab is the sharded object table.
type Slab struct {
	shards []util.CachePadded[shard]
	cursor atomic.Uint32
}

// New creates a slab.
func New(cfg Config) *Slab {
	if cfg.Shards <= 0 || cfg.Shards > 1<<ShardBits {
		cfg.Shards = DefaultConfig().Shards
	}
	return &Slab{shards: make([]util.CachePadded[shard], cfg.Shards)}
}

// Insert stores the object produced by build, which receives the slot
// key the object is about to live under (so the object can embed its
// own address). It reports false when every shard is full.
func (s *Slab) Insert(build func(slotKey uint64) *object.Object) (uint64, bool) {
	start := s.cursor.Add(1)
	for i := 0; i < len(s.shards); i++ {
		shardNo := (uint64(start) + uint64(i)) % uint64(len(s.shards))
		if key, ok := s.shards[shardNo].Value.insert(shardNo, build); ok {
			inserts.Inc()
			liveObjects.Inc()
			return key, true
		}
	}
	insertFailures.Inc()
	return 0, false
}

// Get resolves a slot key, returning nil for absent, stale, or
// malformed keys. Bits above UsedBits are ignored, so callers may
// pass an address's full XORed word. The result is either the exact
// object stored under this key or nil, never a successor that reused
// the slot.
func (s *Slab) Get(slotKey uint64) *object.Object {
	key := slotKey & usedMask
	shardNo := (key >> SlotBits) & ((1 << ShardBits) - 1)
	if shardNo >= uint64(len(s.shards)) {
		return nil
	}
	sh := &s.shards[shardNo].Value
	slot := key & slotMask
	pg := sh.pages[slot>>pageOffsetBits].Load()
	if pg == nil {
		return nil
	}
	c := &pg[slot&(PageSize-1)]

	want := (key>>(ShardBits+SlotBits))<<1 | 1
	if c.state.Load() != want {
		return nil
	}
	obj := c.obj.Load()
	if c.state.Load() != want {
		return nil
	}
	return obj
}

// Remove deletes the object under slotKey and returns it. The slot's
// generation is bumped so the key, and every address minted from it,
// goes stale immediately.
func (s *Slab) Remove(slotKey uint64) (*object.Object, bool) {
	key := slotKey & usedMask
	shardNo := (key >> SlotBits) & ((1 << ShardBits) - 1)
	if shardNo >= uint64(len(s.shards)) {
		return nil, false
	}
	obj, ok := s.shards[shardNo].Value.remove(key)
	if ok {
		removals.Inc()
		liveObjects.Dec()
	}
	return obj, ok
}

func (sh *shard) insert(shardNo uint64, build func(slotKey uint64) *object.Object) (uint64, bool) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	var slot uint32
	if n := len(sh.free); n > 0 {
		slot = sh.free[n-1]
		sh.free = sh.free[:n-1]
	} else {
		if uint64(sh.next) > slotMask {
			return 0, false
		}
		slot = sh.next
		sh.next++
	}

	pg := sh.pages[slot>>pageOffsetBits].Load()
	if pg == nil {
		pg = new(page)
		sh.pages[slot>>pageOffsetBits].Store(pg)
	}
	c := &pg[slot&(PageSize-1)]

	gen := (c.state.Load() >> 1) & generationMask
	key := gen<<(ShardBits+SlotBits) | shardNo<<SlotBits | uint64(slot)
	c.obj.Store(build(key))
	c.state.Store(gen<<1 | 1)
	return key, true
}

func (sh *shard) remove(key uint64) (*object.Object, bool) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	slot := key & slotMask
	pg := sh.pages[slot>>pageOffsetBits].Load()
	if pg == nil {
		return nil, false
	}
	c := &pg[slot&(PageSize-1)]

	gen := key >> (ShardBits + SlotBits)
	if c.state.Load() != gen<<1|1 {
		return nil, false
	}
	obj := c.obj.Load()
	c.state.Store(((gen + 1) & generationMask) << 1)
	c.obj.Store(nil)
	sh.free = append(sh.free, uint32(slot))
	return obj, true
}
