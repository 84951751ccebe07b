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

// Package object defines what lives behind an address: either a
// single actor with its mailbox and request table, or a group handle
// that routes envelopes to the actors it supervises.
package object

import (
	"skein.io/internal/envelope"
	"skein.io/internal/identity"
)

// GroupVisitor is the sink an envelope dispatch flows through. The
// group handle picks the targets; the visitor delivers.
type GroupVisitor interface {
	// Visit delivers the envelope to one routed target.
	Visit(obj *Object, env *envelope.Envelope)
	// Empty is called instead when routing produced no target.
	Empty(env *envelope.Envelope)
}

// GroupHandle is the runtime surface of a live actor group.
type GroupHandle interface {
	// Handle dispatches one envelope through the group's router and
	// the visitor sink.
	Handle(env *envelope.Envelope, visitor GroupVisitor)
	// Finished returns a channel closed once every actor in the group
	// has exited.
	Finished() <-chan struct{}
}

// Object is the slab's unit of storage: one address, resolving to
// either an actor or a group.
type Object struct {
	addr  identity.Addr
	actor *Actor
	group GroupHandle
}

// NewActorObject stores an actor under addr.
func NewActorObject(addr identity.Addr, actor *Actor) *Object {
	return &Object{addr: addr, actor: actor}
}

// NewGroupObject stores a group handle under addr.
func NewGroupObject(addr identity.Addr, group GroupHandle) *Object {
	return &Object{addr: addr, group: group}
}

// Addr returns the address this object was stored under.
func (o *Object) Addr() identity.Addr {
	return o.addr
}

// AsActor narrows to the actor, reporting false for group objects.
func (o *Object) AsActor() (*Actor, bool) {
	return o.actor, o.actor != nil
}

// AsGroup narrows to the group handle, reporting false for actors.
func (o *Object) AsGroup() (GroupHandle, bool) {
	return o.group, o.group != nil
}

// DeliverVisitor is the default sink: it pushes envelopes into actor
// mailboxes and drops everything undeliverable.
type DeliverVisitor struct {
	// Dropped, if set, observes envelopes that found no mailbox.
	Dropped func(env *envelope.Envelope)
}

func (v DeliverVisitor) Visit(obj *Object, env *envelope.Envelope) {
	if actor, ok := obj.AsActor(); ok && actor.Enqueue(env) {
		return
	}
	v.Empty(env)
}

func (v DeliverVisitor) Empty(env *envelope.Envelope) {
	if v.Dropped != nil {
		v.Dropped(env)
	}
}
