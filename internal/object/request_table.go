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
	"sync"

	"skein.io/internal/envelope"
	"skein.io/internal/identity"
)

// RequestTable tracks an actor's outstanding requests so responses
// can arrive out of order. Each request gets a numbered token;
// duplicating an envelope reissues a sibling token under the same
// number, bumping the count of responses the request still awaits.
type RequestTable struct {
	mu          sync.Mutex
	nextNo      uint64
	outstanding map[uint64]int // request no -> responses still expected
}

// IssueToken registers a new request from sender and returns its
// token.
func (t *RequestTable) IssueToken(sender identity.Addr) envelope.ResponseToken {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.outstanding == nil {
		t.outstanding = map[uint64]int{}
	}
	t.nextNo++
	t.outstanding[t.nextNo] = 1
	return envelope.ResponseToken{Sender: sender, RequestNo: t.nextNo}
}

// CloneToken reissues a sibling of token for fan-out delivery. It
// reports false when the request has already been resolved.
func (t *RequestTable) CloneToken(token envelope.ResponseToken) (envelope.ResponseToken, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.outstanding[token.RequestNo]; !ok {
		return envelope.ResponseToken{}, false
	}
	t.outstanding[token.RequestNo]++
	return token, true
}

// ResolveToken records one response (or a dropped token, which counts
// as a response with no data). It reports false for an unknown or
// already fully resolved request.
func (t *RequestTable) ResolveToken(token envelope.ResponseToken) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	left, ok := t.outstanding[token.RequestNo]
	if !ok {
		return false
	}
	if left <= 1 {
		delete(t.outstanding, token.RequestNo)
	} else {
		t.outstanding[token.RequestNo] = left - 1
	}
	return true
}

// Outstanding returns the number of requests still awaiting at least
// one response.
func (t *RequestTable) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.outstanding)
}
