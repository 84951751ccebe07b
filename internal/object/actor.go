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

package object

import (
	"context"
	"sync"

	"skein.io/internal/envelope"
)

// DefaultMailboxCapacity bounds a mailbox that was created without an
// explicit capacity.
const DefaultMailboxCapacity = 128

// Actor is one scheduled mailbox plus the request table that
// correlates its outstanding requests. The message loop itself runs
// elsewhere; the actor only owns delivery-side state.
type Actor struct {
	requests RequestTable

	mailbox chan *envelope.Envelope
	closed  chan struct{}
	once    sync.Once
}

// NewActor creates an actor with a bounded mailbox. capacity <= 0
// selects DefaultMailboxCapacity.
func NewActor(capacity int) *Actor {
	if capacity <= 0 {
		capacity = DefaultMailboxCapacity
	}
	return &Actor{
		mailbox: make(chan *envelope.Envelope, capacity),
		closed:  make(chan struct{}),
	}
}

// Requests returns the actor's request table.
func (a *Actor) Requests() *RequestTable {
	return &a.requests
}

// Enqueue offers an envelope to the mailbox without blocking. It
// reports false when the mailbox is closed or full; senders per pair
// are ordered because each sender enqueues from one goroutine.
func (a *Actor) Enqueue(env *envelope.Envelope) bool {
	select {
	case <-a.closed:
		return false
	default:
	}
	select {
	case a.mailbox <- env:
		return true
	case <-a.closed:
		return false
	default:
		return false
	}
}

// Recv blocks for the next envelope. After Close it keeps draining
// what was already enqueued, then reports false.
func (a *Actor) Recv(ctx context.Context) (*envelope.Envelope, bool) {
	select {
	case env := <-a.mailbox:
		return env, true
	case <-ctx.Done():
		return nil, false
	case <-a.closed:
		select {
		case env := <-a.mailbox:
			return env, true
		default:
			return nil, false
		}
	}
}

// Close stops the mailbox from accepting new envelopes. Already
// enqueued envelopes stay receivable.
func (a *Actor) Close() {
	a.once.Do(func() { close(a.closed) })
}

// Closed reports whether the mailbox was closed.
func (a *Actor) Closed() bool {
	select {
	case <-a.closed:
		return true
	default:
		return false
	}
}
