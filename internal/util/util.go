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

// Package util holds the small helpers shared across the runtime.
package util

import (
	"errors"
	"strings"
)

// Spatial prefetchers pull two cache lines at a time on x86-64 and
// arm64, so hot adjacent counters need 128 bytes between them.
const cacheLinePad = 128

// CachePadded keeps its value on cache lines of its own, so that
// per-shard counters placed next to each other in a slice do not
// false-share.
type CachePadded[T any] struct {
	Value T

	_ [cacheLinePad]byte
}

// ErrorChain formats an error and its causes as
// "outer: inner: innermost", joining each cause's own message with
// ": ". Wrappers that already embed their cause's text (as
// pkg/errors wrappers do) are printed once, not once per level.
type ErrorChain struct {
	Err error
}

func (c ErrorChain) String() string {
	var b strings.Builder
	for err := c.Err; err != nil; {
		msg := err.Error()
		next := errors.Unwrap(err)
		if next != nil {
			if msg == next.Error() {
				// A pure annotation layer (e.g. an attached stack);
				// the next link carries the same text.
				err = next
				continue
			}
			msg = strings.TrimSuffix(msg, ": "+next.Error())
		}
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(msg)
		err = next
	}
	return b.String()
}
