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

package identity

import "strconv"

// GroupNo identifies an actor group within a node. It holds the
// *stored* form of the group number: the logical number XORed with a
// byte of the node's launch id, which randomizes the byte that ends
// up inside every Addr across restarts. Zero is reserved for the null
// address.
type GroupNo uint8

// NewGroupNo converts a logical group number into its stored form
// under the given launch id. It reports false for zero.
//
// The XOR would map exactly one logical number to the reserved zero
// byte; that number is mapped to the XOR byte instead (nonzero, since
// it equals the logical number, which is nonzero). For a fixed launch
// id this is a bijection of 1..=255 onto 1..=255.
func NewGroupNo(no uint8, launchID NodeLaunchId) (GroupNo, bool) {
	if no == 0 {
		return 0, false
	}
	xor := uint8(launchID.Bits() >> 40)
	stored := no ^ xor
	if stored == 0 {
		stored = xor
	}
	return GroupNo(stored), true
}

// GroupNoFromBits reconstitutes a stored group number, e.g. one
// extracted from an Addr. It reports false for zero.
func GroupNoFromBits(bits uint8) (GroupNo, bool) {
	if bits == 0 {
		return 0, false
	}
	return GroupNo(bits), true
}

// Bits returns the stored byte.
func (g GroupNo) Bits() uint8 {
	return uint8(g)
}

func (g GroupNo) String() string {
	return strconv.FormatUint(uint64(g), 10)
}
