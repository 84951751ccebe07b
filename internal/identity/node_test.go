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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeNoFromBits(t *testing.T) {
	_, ok := NodeNoFromBits(0)
	assert.False(t, ok, "zero is reserved for the local node")

	n, ok := NodeNoFromBits(42)
	assert.True(t, ok)
	assert.Equal(t, uint16(42), n.Bits())
	assert.Equal(t, "42", n.String())
}

func TestGenerateLaunchId(t *testing.T) {
	seen := map[NodeLaunchId]bool{}
	for i := 0; i < 10; i++ {
		lid := GenerateLaunchId()
		assert.False(t, seen[lid], "launch ids must not repeat")
		seen[lid] = true
	}
}

func TestGroupNoBijection(t *testing.T) {
	_, ok := NewGroupNo(0, GenerateLaunchId())
	assert.False(t, ok, "zero is reserved for the null address")

	for _, lid := range []NodeLaunchId{0, netLaunchId, GenerateLaunchId()} {
		seen := map[GroupNo]bool{}
		for no := 1; no <= 255; no++ {
			g, ok := NewGroupNo(uint8(no), lid)
			assert.True(t, ok)
			assert.NotZero(t, g.Bits(), "stored form never collides with the reserved zero")
			seen[g] = true
		}
		assert.Len(t, seen, 255, "the stored mapping is a bijection for launch id %#x", lid.Bits())
	}
}
