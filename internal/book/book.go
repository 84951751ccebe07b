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

// Package book resolves addresses to the live objects behind them.
// It is the only place that undoes the launch-id mixing inside an
// Addr; everywhere else addresses stay opaque words.
package book

import (
	"skein.io/internal/envelope"
	"skein.io/internal/identity"
	"skein.io/internal/object"
	"skein.io/internal/slab"
)

// AddressBook maps local addresses to live objects through the slab.
type AddressBook struct {
	launchID identity.NodeLaunchId
	slab     *slab.Slab
}

// New creates a book over the given slab. Every address it mints or
// resolves is mixed with launchID.
func New(launchID identity.NodeLaunchId, s *slab.Slab) *AddressBook {
	return &AddressBook{launchID: launchID, slab: s}
}

// LaunchID returns the launch id addresses are mixed with.
func (b *AddressBook) LaunchID() identity.NodeLaunchId {
	return b.launchID
}

// Get resolves a live local address. Remote addresses resolve on
// their home node only; null and stale addresses report false. A
// reused slot can never resolve: the slab's generation check rejects
// the stale key, and the stored address is compared as a second
// guard against keys minted under another launch.
func (b *AddressBook) Get(addr identity.Addr) (*object.Object, bool) {
	if !addr.IsLocal() {
		return nil, false
	}
	obj := b.slab.Get(addr.SlotKey(b.launchID))
	if obj == nil || obj.Addr() != addr {
		return nil, false
	}
	return obj, true
}

// Insert stores the object produced by build under a fresh address in
// groupNo. build receives the address the object will live under. It
// reports false when the slab is full.
func (b *AddressBook) Insert(groupNo identity.GroupNo, build func(identity.Addr) *object.Object) (identity.Addr, bool) {
	var addr identity.Addr
	_, ok := b.slab.Insert(func(slotKey uint64) *object.Object {
		addr = identity.NewLocalAddr(slotKey, groupNo, b.launchID)
		return build(addr)
	})
	if !ok {
		return identity.Null, false
	}
	return addr, true
}

// Remove deletes the object under addr, invalidating the address.
func (b *AddressBook) Remove(addr identity.Addr) (*object.Object, bool) {
	if _, ok := b.Get(addr); !ok {
		return nil, false
	}
	obj, ok := b.slab.Remove(addr.SlotKey(b.launchID))
	if !ok || obj.Addr() != addr {
		return nil, false
	}
	return obj, true
}

// CloneToken reissues a response token through the original sender's
// request table, for envelope duplication. It reports false when the
// sender is gone, is not an actor, or has already resolved the
// request.
func (b *AddressBook) CloneToken(token envelope.ResponseToken) (envelope.ResponseToken, bool) {
	obj, ok := b.Get(token.Sender)
	if !ok {
		return envelope.ResponseToken{}, false
	}
	actor, ok := obj.AsActor()
	if !ok {
		return envelope.ResponseToken{}, false
	}
	return actor.Requests().CloneToken(token)
}

// Send resolves addr and delivers env: directly into an actor's
// mailbox, or through a group's router. It reports false when the
// address is dead or the mailbox refused the envelope.
func (b *AddressBook) Send(addr identity.Addr, env *envelope.Envelope) bool {
	obj, ok := b.Get(addr)
	if !ok {
		return false
	}
	if actor, ok := obj.AsActor(); ok {
		return actor.Enqueue(env)
	}
	group, _ := obj.AsGroup()
	delivered := false
	group.Handle(env, countingVisitor{delivered: &delivered})
	return delivered
}

type countingVisitor struct {
	delivered *bool
}

func (v countingVisitor) Visit(obj *object.Object, env *envelope.Envelope) {
	if actor, ok := obj.AsActor(); ok && actor.Enqueue(env) {
		*v.delivered = true
	}
}

func (v countingVisitor) Empty(*envelope.Envelope) {}
