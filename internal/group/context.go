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

package group

import (
	"context"

	"github.com/go-kit/kit/log"

	"skein.io/internal/envelope"
	"skein.io/internal/identity"
	"skein.io/internal/object"
	"skein.io/internal/traceid"
)

// Context is an actor body's view of the runtime: its key within the
// group, the group config, and its mailbox.
type Context[C any, K comparable] struct {
	key    K
	cfg    C
	addr   identity.Addr
	group  identity.Addr
	actor  *object.Actor
	mgr    *RuntimeManager
	logger log.Logger
}

// Key returns the router key this actor was spawned for.
func (c *Context[C, K]) Key() K {
	return c.key
}

// Config returns the group's config.
func (c *Context[C, K]) Config() C {
	return c.cfg
}

// Addr returns this actor's own address.
func (c *Context[C, K]) Addr() identity.Addr {
	return c.addr
}

// Group returns the group object's address.
func (c *Context[C, K]) Group() identity.Addr {
	return c.group
}

// Logger returns a logger tagged with the group and key.
func (c *Context[C, K]) Logger() log.Logger {
	return c.logger
}

// Recv blocks for the next envelope. It reports false once the
// mailbox is closed and drained, or ctx is done.
func (c *Context[C, K]) Recv(ctx context.Context) (*envelope.Envelope, bool) {
	return c.actor.Recv(ctx)
}

// Close closes this actor's own mailbox. Used by actor bodies under
// TerminationManually once they have observed Terminate.
func (c *Context[C, K]) Close() {
	c.actor.Close()
}

// Send wraps msg in a regular envelope from this actor, stamps a
// fresh trace id, and delivers it through the address book. It
// reports false when to is dead or its mailbox refused.
func (c *Context[C, K]) Send(to identity.Addr, msg any) bool {
	env := envelope.New(msg, envelope.RegularKind(c.addr))
	env.SetTraceID(traceid.Next())
	return c.mgr.Book.Send(to, env)
}

// Request sends msg as a RequestAny and returns the token the caller
// can watch in its request table.
func (c *Context[C, K]) Request(to identity.Addr, msg any) (envelope.ResponseToken, bool) {
	token := c.actor.Requests().IssueToken(c.addr)
	env := envelope.New(msg, envelope.RequestAnyKind(token))
	env.SetTraceID(traceid.Next())
	if !c.mgr.Book.Send(to, env) {
		c.actor.Requests().ResolveToken(token)
		return envelope.ResponseToken{}, false
	}
	return token, true
}

// Respond resolves token with msg: the response travels as a regular
// envelope back to the requester, whose table stops awaiting it.
func (c *Context[C, K]) Respond(token envelope.ResponseToken, msg any) bool {
	obj, ok := c.mgr.Book.Get(token.Sender)
	if !ok {
		return false
	}
	actor, ok := obj.AsActor()
	if !ok || !actor.Requests().ResolveToken(token) {
		return false
	}
	env := envelope.New(msg, envelope.RegularKind(c.addr))
	env.SetTraceID(traceid.Next())
	return actor.Enqueue(env)
}
