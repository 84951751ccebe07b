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

// Package network is the node-to-node surface of the runtime: one
// discovery actor tracking cluster membership, plus one worker actor
// per inter-node connection, all living in a single actor group and
// demultiplexed by ActorKey.
package network

import (
	"fmt"

	"skein.io/internal/envelope"
	"skein.io/internal/group"
	"skein.io/internal/identity"
	"skein.io/internal/routers"
)

// GroupInfo names one actor group on one node, as exchanged during
// connection setup.
type GroupInfo struct {
	NodeNo    identity.NodeNo
	GroupNo   uint8
	GroupName string
}

// HandleConnection hands an established transport session to the
// worker actor responsible for the local/remote group pair.
type HandleConnection struct {
	Local  GroupInfo
	Remote GroupInfo
}

// ActorKey demultiplexes the network group: the single discovery
// actor, or one worker per connection. Keys compare structurally.
type ActorKey struct {
	worker bool
	local  GroupInfo
	remote GroupInfo
}

// Discovery is the key of the discovery actor.
func Discovery() ActorKey {
	return ActorKey{}
}

// Worker is the key of the worker owning the local/remote session.
func Worker(local, remote GroupInfo) ActorKey {
	return ActorKey{worker: true, local: local, remote: remote}
}

// IsDiscovery reports whether this is the discovery key.
func (k ActorKey) IsDiscovery() bool {
	return !k.worker
}

// Local returns the local side of a worker key.
func (k ActorKey) Local() GroupInfo { return k.local }

// Remote returns the remote side of a worker key.
func (k ActorKey) Remote() GroupInfo { return k.remote }

func (k ActorKey) String() string {
	if !k.worker {
		return "discovery"
	}
	return fmt.Sprintf("%s:%d:%s", k.local.GroupName, k.remote.NodeNo.Bits(), k.remote.GroupName)
}

// New describes the network group. Workers die with their connection
// rather than being restarted into a session that no longer exists,
// so the group-level policy is RestartNever; the discovery actor
// re-enters its own loop instead.
func New() group.Blueprint {
	return group.New[Config, ActorKey]().
		RestartPolicy(group.RestartNever()).
		Router(routers.NewMapRouter[Config, ActorKey](route)).
		Exec(func(ctx *group.Context[Config, ActorKey]) error {
			if ctx.Key().IsDiscovery() {
				return runDiscovery(ctx)
			}
			return runWorker(ctx)
		})
}

func route(env *envelope.Envelope) routers.Outcome[ActorKey] {
	switch msg := env.Message().(type) {
	case group.UpdateConfig:
		// A single discovery actor owns the config today. The seam
		// for pushing it to live connections is a Multicast over the
		// worker keys once discovery publishes them.
		return routers.Unicast(Discovery())
	case HandleConnection:
		return routers.Unicast(Worker(msg.Local, msg.Remote))
	default:
		return routers.Default[ActorKey]()
	}
}
