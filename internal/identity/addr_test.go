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

package identity

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const netLaunchId = 0xE1F0_E1F0_E1F0_E1F0

func mustGroupNo(t *testing.T, no uint8, lid NodeLaunchId) GroupNo {
	g, ok := NewGroupNo(no, lid)
	require.True(t, ok, "group number %d must be valid", no)
	return g
}

func TestPlainLocalAddr(t *testing.T) {
	lid := LaunchIdFromBits(0)
	g := mustGroupNo(t, 3, lid)
	addr := NewLocalAddr(0x1234, g, lid)

	assert.Equal(t, uint64(3)<<40|0x1234, addr.Bits(), "plain packing is group<<40|slot")
	assert.Equal(t, "3/4660", addr.String())
	assert.True(t, addr.IsLocal())
	assert.False(t, addr.IsRemote())
	assert.False(t, addr.IsNull())
}

func TestObfuscatedLocalAddr(t *testing.T) {
	lid := LaunchIdFromBits(netLaunchId)
	g := mustGroupNo(t, 3, lid)
	addr := NewLocalAddr(0x1234, g, lid)

	parts := strings.Split(addr.String(), "/")
	require.Len(t, parts, 2, "local address displays as G/S")
	assert.Equal(t, g.String(), parts[0], "displayed group is the stored form")
	assert.Equal(t, uint64(0x1234), addr.SlotKey(lid)&((1<<40)-1), "slot key round-trips through the launch id")
}

func TestIntoRemote(t *testing.T) {
	lid := LaunchIdFromBits(0)
	g := mustGroupNo(t, 3, lid)
	addr := NewLocalAddr(0x1234, g, lid)

	node, ok := NodeNoFromBits(42)
	require.True(t, ok)

	remote := addr.IntoRemote(node)
	assert.Equal(t, "42/3/4660", remote.String())
	assert.True(t, remote.IsRemote())
	assert.False(t, remote.IsLocal())

	gotNode, ok := remote.NodeNo()
	require.True(t, ok)
	assert.Equal(t, node, gotNode)

	gotGroup, ok := remote.GroupNo()
	require.True(t, ok)
	assert.Equal(t, g, gotGroup, "group survives the remote rewrite")

	// Idempotent on a remote input; inverse of IntoLocal.
	assert.Equal(t, remote, remote.IntoRemote(node))
	assert.Equal(t, addr, remote.IntoLocal())
	assert.Equal(t, addr, addr.IntoLocal())
}

func TestNullAddr(t *testing.T) {
	assert.Equal(t, "null", Null.String())
	assert.True(t, Null.IsNull())
	assert.False(t, Null.IsLocal())
	assert.False(t, Null.IsRemote())
	assert.Equal(t, uint64(0), Null.Bits())

	_, ok := Null.GroupNo()
	assert.False(t, ok)
	_, ok = Null.NodeNo()
	assert.False(t, ok)

	node, _ := NodeNoFromBits(7)
	assert.True(t, Null.IntoRemote(node).IsNull(), "null stays null")
	assert.True(t, Null.IntoLocal().IsNull())
}

func TestAddrFromBits(t *testing.T) {
	_, ok := AddrFromBits(1)
	assert.False(t, ok, "nonzero slot with zero group is malformed")

	a, ok := AddrFromBits(0)
	assert.True(t, ok)
	assert.True(t, a.IsNull())

	for _, lid := range []NodeLaunchId{0, netLaunchId} {
		g := mustGroupNo(t, 9, lid)
		addr := NewLocalAddr(0x51234, g, lid)
		back, ok := AddrFromBits(addr.Bits())
		assert.True(t, ok)
		assert.Equal(t, addr, back, "addresses round-trip through their bits")
	}
}

func TestAddrUniqueness(t *testing.T) {
	lids := []NodeLaunchId{0, 1, netLaunchId, LaunchIdFromBits(1 << 40)}
	slots := []uint64{0, 1, 0x1234, 1<<40 - 1}
	groups := []uint8{1, 3, 254, 255}

	// Within one launch, distinct (slot, group) pairs mint distinct
	// addresses: the launch-id mixing is a bijection.
	for _, lid := range lids {
		seen := map[Addr][2]uint64{}
		for _, slot := range slots {
			for _, no := range groups {
				g := mustGroupNo(t, no, lid)
				addr := NewLocalAddr(slot, g, lid)
				key := [2]uint64{slot, uint64(no)}
				if prev, dup := seen[addr]; dup {
					assert.Fail(t, "address collision", "%v and %v both map to %s under launch id %#x", prev, key, addr, lid.Bits())
				}
				seen[addr] = key
			}
		}
	}

	// Across launches the same pair yields different raw words, so a
	// stale address from the previous launch reads as garbage.
	for _, slot := range slots {
		for _, no := range groups {
			plain := NewLocalAddr(slot, mustGroupNo(t, no, 0), 0)
			mixed := NewLocalAddr(slot, mustGroupNo(t, no, netLaunchId), netLaunchId)
			assert.NotEqual(t, plain, mixed, "launch id must randomize slot %#x group %d", slot, no)
		}
	}
}

func TestOverwideSlotKeyPanics(t *testing.T) {
	g := mustGroupNo(t, 1, 0)
	assert.Panics(t, func() { NewLocalAddr(1<<40, g, 0) })
}

func TestAddrRefusesSerialization(t *testing.T) {
	g := mustGroupNo(t, 3, 0)
	addr := NewLocalAddr(0x1234, g, 0)

	_, err := json.Marshal(addr)
	assert.Error(t, err, "a bare Addr must not serialize")

	var decoded Addr
	assert.Error(t, json.Unmarshal([]byte("42"), &decoded))
}

func TestLocalWrapper(t *testing.T) {
	g := mustGroupNo(t, 3, 0)
	addr := NewLocalAddr(0x1234, g, 0)

	data, err := json.Marshal(Local{Addr: addr})
	require.NoError(t, err, "local addresses may be wrapped for process-local use")

	var back Local
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, addr, back.Addr)

	node, _ := NodeNoFromBits(42)
	_, err = json.Marshal(Local{Addr: addr.IntoRemote(node)})
	assert.Error(t, err, "remote addresses must not cross the boundary")

	assert.Error(t, json.Unmarshal([]byte("1"), &back), "malformed bits are rejected")
}
