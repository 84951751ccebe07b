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

// Package traceid supplies nonzero correlation ids for envelopes.
package traceid

import "sync/atomic"

// TraceId correlates an envelope with the causal chain it belongs
// to. Zero is not a valid trace id; Default marks an envelope whose
// sender never stamped one.
type TraceId uint64

// Default is the id carried by envelopes until a real one is set.
const Default TraceId = 1

var counter atomic.Uint64

// Next returns a fresh process-local trace id, never Default. Ids are
// unique within a process; cross-node uniqueness is the transport
// layer's concern.
func Next() TraceId {
	for {
		if id := counter.Add(1); id != 0 && id != uint64(Default) {
			return TraceId(id)
		}
	}
}

// FromBits validates bits as a trace id, reporting false for zero.
func FromBits(bits uint64) (TraceId, bool) {
	if bits == 0 {
		return 0, false
	}
	return TraceId(bits), true
}

// Bits returns the raw id.
func (t TraceId) Bits() uint64 {
	return uint64(t)
}
