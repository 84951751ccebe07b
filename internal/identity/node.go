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

// Package identity provides the value types that name things in a
// cluster: nodes, launches of a node, actor groups, and individual
// actors. Everything here is a plain copyable word; the object slab
// is the only authority that turns an Addr back into a live object.
package identity

import (
	crand "crypto/rand"
	"strconv"

	"github.com/OneOfOne/xxhash"
)

// NodeNo identifies one node (process) in the cluster. Zero is
// reserved to mean "the local node" and is never a legal NodeNo, so
// values are only obtainable through NodeNoFromBits.
type NodeNo uint16

// NodeNoFromBits validates bits as a node number. It reports false
// for zero.
func NodeNoFromBits(bits uint16) (NodeNo, bool) {
	if bits == 0 {
		return 0, false
	}
	return NodeNo(bits), true
}

// Bits returns the raw node number.
func (n NodeNo) Bits() uint16 {
	return uint16(n)
}

func (n NodeNo) String() string {
	return strconv.FormatUint(uint64(n), 10)
}

// NodeLaunchId distinguishes successive launches of the same node. It
// is minted once at process start and mixed into locally minted
// addresses so that stale addresses from a previous launch, or from
// an impostor reusing our NodeNo, do not collide with current ones.
//
// The zero value disables the mixing entirely (the XOR with zero is
// the identity), which is convenient for tests and for deployments
// that never talk to the network.
type NodeLaunchId uint64

// launchIdSalt keeps independent processes that share an entropy
// source from minting identical ids.
const launchIdSalt = 0x9e37_79b9_7f4a_7c15

// GenerateLaunchId mints the launch id for this process. The entropy
// comes from the operating system and is hashed with a fixed salt, so
// two launches agree with probability about 2^-64.
func GenerateLaunchId() NodeLaunchId {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// Addresses are unusable without launch entropy.
		panic("identity: reading launch entropy: " + err.Error())
	}
	return NodeLaunchId(xxhash.Checksum64S(seed[:], launchIdSalt))
}

// LaunchIdFromBits reconstitutes a launch id from its raw bits.
func LaunchIdFromBits(bits uint64) NodeLaunchId {
	return NodeLaunchId(bits)
}

// Bits returns the raw launch id.
func (l NodeLaunchId) Bits() uint64 {
	return uint64(l)
}
