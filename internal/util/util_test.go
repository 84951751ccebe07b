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

package util

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTrivialErrorChain(t *testing.T) {
	err := errors.New("oops")
	assert.Equal(t, "oops", ErrorChain{err}.String())
}

func TestErrorChain(t *testing.T) {
	innermost := errors.New("innermost")
	inner := errors.Wrap(innermost, "inner")
	outer := errors.Wrap(inner, "outer")
	assert.Equal(t, "outer: inner: innermost", ErrorChain{outer}.String())
}

func TestErrorChainStdlibWrapping(t *testing.T) {
	innermost := fmt.Errorf("innermost")
	inner := fmt.Errorf("inner: %w", innermost)
	outer := fmt.Errorf("outer: %w", inner)
	assert.Equal(t, "outer: inner: innermost", ErrorChain{outer}.String())
}

func TestCachePadded(t *testing.T) {
	var padded [2]CachePadded[uint64]
	gap := uintptr(unsafe.Pointer(&padded[1].Value)) - uintptr(unsafe.Pointer(&padded[0].Value))
	assert.GreaterOrEqual(t, int(gap), cacheLinePad, "adjacent values must not share cache lines")
}
