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

// Package envelope carries one message in transit: the payload, its
// trace id, and either the sender's address or, for requests, a
// response token. Mailboxes carry envelopes as *Envelope; payloads
// are type-erased interface values recovered with Is and Downcast.
package envelope

import (
	"fmt"

	"skein.io/internal/identity"
	"skein.io/internal/traceid"
)

type kindTag uint8

const (
	kindRegular kindTag = iota
	kindRequestAny
	kindRequestAll
)

// ResponseToken correlates a response with the original request in
// the sender's request table. RequestNo is opaque to everyone but
// that table. Tokens are reissued, never copied, when an envelope is
// duplicated, so the table can account for fan-out.
type ResponseToken struct {
	Sender    identity.Addr
	RequestNo uint64
}

// MessageKind distinguishes fire-and-forget messages from the two
// request flavors: RequestAny expects the first response to win,
// RequestAll collects one response per recipient.
type MessageKind struct {
	tag    kindTag
	sender identity.Addr
	token  ResponseToken
}

// RegularKind tags a fire-and-forget message from sender.
func RegularKind(sender identity.Addr) MessageKind {
	return MessageKind{tag: kindRegular, sender: sender}
}

// RequestAnyKind tags a request resolved by the first response.
func RequestAnyKind(token ResponseToken) MessageKind {
	return MessageKind{tag: kindRequestAny, token: token}
}

// RequestAllKind tags a request that collects all responses.
func RequestAllKind(token ResponseToken) MessageKind {
	return MessageKind{tag: kindRequestAll, token: token}
}

// TokenSource reissues a response token on behalf of the original
// requester. The address book implements it by resolving the sender
// and asking that actor's request table.
type TokenSource interface {
	CloneToken(token ResponseToken) (ResponseToken, bool)
}

// Envelope is one message in transit. It stays a small struct;
// channels pass it by pointer, without reference counting.
type Envelope struct {
	traceID traceid.TraceId
	kind    MessageKind
	message any
}

// New wraps message with kind. The trace id defaults to
// traceid.Default until the sending layer stamps a real one.
func New(message any, kind MessageKind) *Envelope {
	return &Envelope{
		traceID: traceid.Default,
		kind:    kind,
		message: message,
	}
}

// TraceID returns the envelope's correlation id.
func (e *Envelope) TraceID() traceid.TraceId {
	return e.traceID
}

// SetTraceID stamps a correlation id.
func (e *Envelope) SetTraceID(id traceid.TraceId) {
	e.traceID = id
}

// Sender returns the sending actor's address uniformly across kinds:
// for requests it comes from the token.
func (e *Envelope) Sender() identity.Addr {
	switch e.kind.tag {
	case kindRegular:
		return e.kind.sender
	default:
		return e.kind.token.Sender
	}
}

// IsRequest reports whether the envelope expects a response.
func (e *Envelope) IsRequest() bool {
	return e.kind.tag != kindRegular
}

// Message returns the payload without consuming the envelope.
func (e *Envelope) Message() any {
	return e.message
}

// SetMessage replaces the payload; trace id and kind are preserved.
func (e *Envelope) SetMessage(message any) {
	e.message = message
}

// Is reports whether the payload has type M.
func Is[M any](e *Envelope) bool {
	_, ok := e.message.(M)
	return ok
}

// Downcast recovers the payload as M. A mismatch means the sending
// layer lied about the type, which is unrecoverable.
func Downcast[M any](e *Envelope) M {
	m, ok := e.message.(M)
	if !ok {
		panic(fmt.Sprintf("envelope: cannot downcast %T", e.message))
	}
	return m
}

// UnpackRegular consumes a fire-and-forget envelope, yielding its
// payload. Calling it on a request is a contract violation.
func (e *Envelope) UnpackRegular() any {
	if e.kind.tag != kindRegular {
		panic("envelope: request envelope unpacked as regular")
	}
	return e.message
}

// UnpackRequest consumes a request envelope, yielding the payload and
// the token to respond with. Calling it on a regular envelope is a
// contract violation.
func (e *Envelope) UnpackRequest() (any, ResponseToken) {
	if e.kind.tag == kindRegular {
		panic("envelope: regular envelope unpacked as request")
	}
	return e.message, e.kind.token
}

// Duplicate deep-clones the envelope. Requests need a sibling token
// reissued through the book; if the sender is gone or its table
// refuses, it reports false and the caller decides whether that
// matters. Regular envelopes duplicate unconditionally.
func (e *Envelope) Duplicate(book TokenSource) (*Envelope, bool) {
	kind := e.kind
	if e.kind.tag != kindRegular {
		token, ok := book.CloneToken(e.kind.token)
		if !ok {
			return nil, false
		}
		kind.token = token
	}
	return &Envelope{
		traceID: e.traceID,
		kind:    kind,
		message: e.message,
	}, true
}
