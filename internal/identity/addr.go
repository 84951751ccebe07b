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

import (
	"fmt"
)

// SlotKeyBits is the width of the slab slot key carried inside an
// Addr. The slab must expose exactly this many used bits.
const SlotKeyBits = 40

const slotKeyMask = (uint64(1) << SlotKeyBits) - 1

// Addr names one actor, local or remote, in a single machine word.
//
// Layout, most significant bits first:
//
//	63..48  node number (0 means local)
//	47..40  stored group number (0 only in the null address)
//	39..0   slot key into the object slab
//
// When minted under a nonzero launch id the lower 48 bits are XORed
// with the launch id, so raw values are opaque across launches; the
// true slot key is reconstructed only by SlotKey. Addrs compare with
// ==, copy freely, and deliberately cannot be serialized — wrap one
// in Local for process-local persistence.
type Addr struct {
	bits uint64
}

// Null is the address of nothing. It is the zero value.
var Null = Addr{}

// NewLocalAddr mints the address of a local object stored under
// slotKey. The slot key must fit in SlotKeyBits; a wider key is a
// slab contract violation, not a runtime condition, so it panics.
func NewLocalAddr(slotKey uint64, groupNo GroupNo, launchID NodeLaunchId) Addr {
	if slotKey > slotKeyMask {
		panic(fmt.Sprintf("identity: slot key %#x exceeds %d bits", slotKey, SlotKeyBits))
	}
	slotKey ^= launchID.Bits() & slotKeyMask
	return Addr{bits: uint64(groupNo.Bits())<<SlotKeyBits | slotKey}
}

// AddrFromBits validates bits as an address. A word is an address iff
// it is null or carries a nonzero group number; anything else (e.g. a
// bare slot key) reports false.
func AddrFromBits(bits uint64) (Addr, bool) {
	a := Addr{bits: bits}
	_, hasGroup := a.GroupNo()
	if a.IsNull() == hasGroup {
		return Null, false
	}
	return a, true
}

// Bits returns the raw word. Values minted under a nonzero launch id
// are only meaningful within that launch.
func (a Addr) Bits() uint64 {
	return a.bits
}

// IsNull reports whether a is the null address.
func (a Addr) IsNull() bool {
	return a == Null
}

// IsLocal reports whether a names an object on this node.
func (a Addr) IsLocal() bool {
	return !a.IsNull() && a.bits>>48 == 0
}

// IsRemote reports whether a names an object on another node.
func (a Addr) IsRemote() bool {
	return a.bits>>48 != 0
}

// NodeNo returns the remote node number, reporting false for local
// and null addresses.
func (a Addr) NodeNo() (NodeNo, bool) {
	return NodeNoFromBits(uint16(a.bits >> 48))
}

// GroupNo returns the stored group number, reporting false for the
// null address.
func (a Addr) GroupNo() (GroupNo, bool) {
	return GroupNoFromBits(uint8(a.bits >> SlotKeyBits))
}

// IntoRemote rewrites a local address into the form it takes on the
// wire back to us, tagging it with our node number as seen by the
// peer. Null and already-remote addresses pass through unchanged.
func (a Addr) IntoRemote(nodeNo NodeNo) Addr {
	if a.IsLocal() {
		a.bits |= uint64(nodeNo.Bits()) << 48
	}
	return a
}

// IntoLocal strips the node number, turning a remote address back
// into the local form used for slab lookups on its home node.
func (a Addr) IntoLocal() Addr {
	a.bits &= (uint64(1) << 48) - 1
	return a
}

// SlotKey recovers the slab key this address was minted under. The
// slab masks off everything above its used bits, so the group byte
// leaking into bits 40..47 is harmless.
func (a Addr) SlotKey(launchID NodeLaunchId) uint64 {
	return a.bits ^ launchID.Bits()
}

func (a Addr) String() string {
	group, ok := a.GroupNo()
	if !ok {
		return "null"
	}
	if node, ok := a.NodeNo(); ok {
		return fmt.Sprintf("%d/%d/%d", node.Bits(), group.Bits(), a.bits&slotKeyMask)
	}
	return fmt.Sprintf("%d/%d", group.Bits(), a.bits&slotKeyMask)
}

// Addrs are launch-local: a serialized one would alias an unrelated
// actor after a restart, or on another node. Implementing the codec
// interfaces with a hard error turns any attempt into an immediate,
// attributable failure instead of silent corruption.

var errAddrNotSerializable = fmt.Errorf("identity: Addr is not serializable; wrap it in Local for process-local use")

// MarshalJSON always fails.
func (Addr) MarshalJSON() ([]byte, error) { return nil, errAddrNotSerializable }

// UnmarshalJSON always fails.
func (*Addr) UnmarshalJSON([]byte) error { return errAddrNotSerializable }

// MarshalYAML always fails.
func (Addr) MarshalYAML() (interface{}, error) { return nil, errAddrNotSerializable }

// UnmarshalYAML always fails.
func (*Addr) UnmarshalYAML(func(interface{}) error) error { return errAddrNotSerializable }
