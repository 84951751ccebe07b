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

package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skein.io/internal/envelope"
	"skein.io/internal/identity"
	"skein.io/internal/object"
	"skein.io/internal/slab"
)

func newTestBook(t *testing.T, launchID identity.NodeLaunchId) (*AddressBook, identity.GroupNo) {
	g, ok := identity.NewGroupNo(9, launchID)
	require.True(t, ok)
	return New(launchID, slab.New(slab.Config{Shards: 4})), g
}

func insertActor(t *testing.T, b *AddressBook, g identity.GroupNo) (identity.Addr, *object.Actor) {
	actor := object.NewActor(4)
	addr, ok := b.Insert(g, func(addr identity.Addr) *object.Object {
		return object.NewActorObject(addr, actor)
	})
	require.True(t, ok)
	return addr, actor
}

func TestGetRoundTrip(t *testing.T) {
	for _, launchID := range []identity.NodeLaunchId{0, identity.GenerateLaunchId()} {
		b, g := newTestBook(t, launchID)
		addr, _ := insertActor(t, b, g)

		require.True(t, addr.IsLocal())
		gotGroup, ok := addr.GroupNo()
		require.True(t, ok)
		assert.Equal(t, g, gotGroup)

		obj, ok := b.Get(addr)
		require.True(t, ok, "a live address resolves under launch id %#x", launchID.Bits())
		assert.Equal(t, addr, obj.Addr())
	}
}

func TestGetRejectsDeadAndForeign(t *testing.T) {
	b, g := newTestBook(t, identity.GenerateLaunchId())
	addr, _ := insertActor(t, b, g)

	_, ok := b.Get(identity.Null)
	assert.False(t, ok)

	node, _ := identity.NodeNoFromBits(3)
	_, ok = b.Get(addr.IntoRemote(node))
	assert.False(t, ok, "remote addresses resolve on their home node only")

	_, ok = b.Remove(addr)
	require.True(t, ok)
	_, ok = b.Get(addr)
	assert.False(t, ok, "a removed address is dead")
	_, ok = b.Remove(addr)
	assert.False(t, ok)
}

func TestCloneTokenThroughBook(t *testing.T) {
	b, g := newTestBook(t, identity.GenerateLaunchId())
	addr, actor := insertActor(t, b, g)

	token := actor.Requests().IssueToken(addr)
	env := envelope.New("req", envelope.RequestAnyKind(token))

	dup, ok := env.Duplicate(b)
	require.True(t, ok)
	assert.Equal(t, addr, dup.Sender())

	// Sender gone: duplication reports absence, not failure.
	_, ok = b.Remove(addr)
	require.True(t, ok)
	_, ok = env.Duplicate(b)
	assert.False(t, ok)
}

func TestSend(t *testing.T) {
	b, g := newTestBook(t, 0)
	addr, actor := insertActor(t, b, g)

	env := envelope.New("hi", envelope.RegularKind(identity.Null))
	require.True(t, b.Send(addr, env))

	got, ok := actor.Recv(context.Background())
	require.True(t, ok)
	assert.Same(t, env, got)

	assert.False(t, b.Send(identity.Null, env))
}
