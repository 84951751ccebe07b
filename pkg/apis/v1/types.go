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

// Package v1 holds the externally visible configuration types. A
// topology file is a YAML document with this shape:
//
//	node:
//	  no: 1
//	  name: alpha
//	groups:
//	  - name: pinger
//	    no: 3
//	    restart: on-failures
//	network:
//	  no: 250
//	  bind: 0.0.0.0:9400
//	  peers: ["10.0.0.2:9400"]
package v1

// MetricsNamespace prefixes every metric the runtime exports.
const MetricsNamespace = "skein"

// TopologySpec is the root of a topology file.
type TopologySpec struct {
	Node   NodeSpec    `json:"node" yaml:"node"`
	Groups []GroupSpec `json:"groups" yaml:"groups"`

	// Network enables the networking group. Omitting it yields a
	// standalone node.
	Network *NetworkSpec `json:"network,omitempty" yaml:"network,omitempty"`
}

// NodeSpec identifies this node in the cluster.
type NodeSpec struct {
	// No is the cluster-unique node number, 1..65535.
	No uint16 `json:"no" yaml:"no"`
	// Name is the human-readable node name used in logs and
	// discovery. Defaults to "node-<no>".
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// GroupSpec declares one actor group.
type GroupSpec struct {
	// Name is the unique group name.
	Name string `json:"name" yaml:"name"`
	// No is the node-unique group number, 1..255.
	No uint8 `json:"no" yaml:"no"`
	// Restart is the restart policy: "always", "on-failures"
	// (default), or "never".
	Restart string `json:"restart,omitempty" yaml:"restart,omitempty"`
	// Termination is the termination policy: "closing" (default) or
	// "manually".
	Termination string `json:"termination,omitempty" yaml:"termination,omitempty"`
	// MailboxCapacity overrides the default per-actor mailbox bound.
	MailboxCapacity int `json:"mailboxCapacity,omitempty" yaml:"mailboxCapacity,omitempty"`
}

// NetworkSpec configures the networking group.
type NetworkSpec struct {
	// No is the group number of the networking group itself.
	No uint8 `json:"no" yaml:"no"`
	// Bind is the host:port discovery listens on.
	Bind string `json:"bind" yaml:"bind"`
	// Peers are host:port addresses of nodes to join at startup.
	Peers []string `json:"peers,omitempty" yaml:"peers,omitempty"`
	// Secret, when set, authenticates and encrypts gossip traffic.
	// 16, 24, or 32 bytes, base64.
	Secret string `json:"secret,omitempty" yaml:"secret,omitempty"`
}
