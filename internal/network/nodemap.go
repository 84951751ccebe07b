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

package network

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"skein.io/internal/identity"
)

// NodeInfo is what discovery knows about one peer.
type NodeInfo struct {
	NodeNo identity.NodeNo
	Name   string
	Addr   string
}

// NodeMap is discovery's view of the cluster, keyed by node number.
// Reads come from routing and connection setup; writes only from the
// discovery actor.
type NodeMap struct {
	mu    sync.RWMutex
	nodes map[identity.NodeNo]NodeInfo
}

// NewNodeMap creates an empty map.
func NewNodeMap() *NodeMap {
	return &NodeMap{nodes: map[identity.NodeNo]NodeInfo{}}
}

// Upsert records a live peer.
func (m *NodeMap) Upsert(info NodeInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[info.NodeNo] = info
}

// Delete forgets a departed peer.
func (m *NodeMap) Delete(no identity.NodeNo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.nodes, no)
}

// Get resolves a node number.
func (m *NodeMap) Get(no identity.NodeNo) (NodeInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.nodes[no]
	return info, ok
}

// Len returns the number of known peers.
func (m *NodeMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// memberName encodes a node's identity into its gossip name, e.g.
// "42/alpha". The node number must survive gossip because peers key
// everything by it.
func memberName(no identity.NodeNo, name string) string {
	return fmt.Sprintf("%d/%s", no.Bits(), name)
}

// parseMemberName is the inverse of memberName.
func parseMemberName(member string) (identity.NodeNo, string, bool) {
	noStr, name, found := strings.Cut(member, "/")
	if !found {
		return 0, "", false
	}
	bits, err := strconv.ParseUint(noStr, 10, 16)
	if err != nil {
		return 0, "", false
	}
	no, ok := identity.NodeNoFromBits(uint16(bits))
	if !ok {
		return 0, "", false
	}
	return no, name, true
}
