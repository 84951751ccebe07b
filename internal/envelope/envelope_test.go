// Copyright 2025 Skein Authors
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

package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skein.io/internal/identity"
	"skein.io/internal/traceid"
)

type ping struct{ seq int }
type pong struct{ seq int }

// tokenSourceFunc adapts a function to TokenSource.
type tokenSourceFunc func(ResponseToken) (ResponseToken, bool)

func (f tokenSourceFunc) CloneToken(t ResponseToken) (ResponseToken, bool) { return f(t) }

func testAddr(t *testing.T, slot uint64) identity.Addr {
	g, ok := identity.NewGroupNo(7, 0)
	require.True(t, ok)
	return identity.NewLocalAddr(slot, g, 0)
}

func TestSender(t *testing.T) {
	sender := testAddr(t, 0x10)

	regular := New(ping{1}, RegularKind(sender))
	assert.Equal(t, sender, regular.Sender())
	assert.False(t, regular.IsRequest())

	token := ResponseToken{Sender: sender, RequestNo: 3}
	assert.Equal(t, sender, New(ping{1}, RequestAnyKind(token)).Sender(), "request sender comes from the token")
	assert.Equal(t, sender, New(ping{1}, RequestAllKind(token)).Sender())
}

func TestDefaultTraceId(t *testing.T) {
	env := New(ping{1}, RegularKind(identity.Null))
	assert.Equal(t, traceid.Default, env.TraceID(), "trace id defaults until the sender stamps one")

	id := traceid.Next()
	env.SetTraceID(id)
	assert.Equal(t, id, env.TraceID())
}

func TestDowncast(t *testing.T) {
	env := New(ping{7}, RegularKind(identity.Null))

	assert.True(t, Is[ping](env))
	assert.False(t, Is[pong](env))
	assert.Equal(t, ping{7}, Downcast[ping](env))
	assert.Panics(t, func() { Downcast[pong](env) }, "downcast mismatch is a contract violation")
}

func TestSetMessage(t *testing.T) {
	sender := testAddr(t, 0x20)
	env := New(ping{1}, RegularKind(sender))
	id := traceid.Next()
	env.SetTraceID(id)

	env.SetMessage(pong{2})
	assert.Equal(t, pong{2}, env.Message())
	assert.Equal(t, id, env.TraceID(), "trace id survives payload replacement")
	assert.Equal(t, sender, env.Sender(), "kind survives payload replacement")
}

func TestUnpack(t *testing.T) {
	sender := testAddr(t, 0x30)
	token := ResponseToken{Sender: sender, RequestNo: 9}

	regular := New(ping{1}, RegularKind(sender))
	assert.Equal(t, ping{1}, regular.UnpackRegular())
	assert.Panics(t, func() { regular.UnpackRequest() })

	request := New(ping{2}, RequestAllKind(token))
	msg, gotToken := request.UnpackRequest()
	assert.Equal(t, ping{2}, msg)
	assert.Equal(t, token, gotToken)
	assert.Panics(t, func() { request.UnpackRegular() })
}

func TestDuplicateRegular(t *testing.T) {
	refuse := tokenSourceFunc(func(ResponseToken) (ResponseToken, bool) {
		return ResponseToken{}, false
	})

	env := New(ping{1}, RegularKind(testAddr(t, 0x40)))
	env.SetTraceID(traceid.Next())

	dup, ok := env.Duplicate(refuse)
	require.True(t, ok, "regular envelopes duplicate unconditionally")
	assert.Equal(t, env.TraceID(), dup.TraceID())
	assert.Equal(t, env.Sender(), dup.Sender())
	assert.Equal(t, env.Message(), dup.Message())
}

func TestDuplicateRequest(t *testing.T) {
	sender := testAddr(t, 0x50)
	token := ResponseToken{Sender: sender, RequestNo: 1}

	cloned := 0
	source := tokenSourceFunc(func(got ResponseToken) (ResponseToken, bool) {
		assert.Equal(t, token, got)
		cloned++
		return got, true
	})

	env := New(ping{1}, RequestAnyKind(token))
	dup, ok := env.Duplicate(source)
	require.True(t, ok)
	assert.Equal(t, 1, cloned, "duplication reissues the token, it does not copy it")
	assert.Equal(t, sender, dup.Sender())

	// The requester resolved the request; its table refuses siblings.
	refuse := tokenSourceFunc(func(ResponseToken) (ResponseToken, bool) {
		return ResponseToken{}, false
	})
	_, ok = env.Duplicate(refuse)
	assert.False(t, ok, "refused token clone fails the duplication")
}
