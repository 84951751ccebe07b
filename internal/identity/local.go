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
	"strconv"
)

// Local wraps an Addr for payloads that never leave this process,
// e.g. dumping state to a local debug file. It refuses to carry a
// remote address: that is the one form that could plausibly cross a
// node boundary and alias an unrelated actor there.
type Local struct {
	Addr Addr
}

func (l Local) String() string {
	return l.Addr.String()
}

// MarshalJSON encodes the raw bits, or fails for a remote address.
func (l Local) MarshalJSON() ([]byte, error) {
	if l.Addr.IsRemote() {
		return nil, fmt.Errorf("identity: refusing to serialize remote address %s", l.Addr)
	}
	return strconv.AppendUint(nil, l.Addr.Bits(), 10), nil
}

// UnmarshalJSON decodes raw bits, rejecting malformed words and
// remote addresses.
func (l *Local) UnmarshalJSON(data []byte) error {
	bits, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	addr, ok := AddrFromBits(bits)
	if !ok {
		return fmt.Errorf("identity: %#x is not a valid address", bits)
	}
	if addr.IsRemote() {
		return fmt.Errorf("identity: refusing to deserialize remote address %s", addr)
	}
	l.Addr = addr
	return nil
}
