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

// Package routers decides which actors of a group receive an
// envelope. A router maps an envelope to an Outcome over the group's
// key type; the supervisor spawns actors for keys it has not seen.
package routers

import "skein.io/internal/envelope"

// OutcomeKind enumerates routing decisions.
type OutcomeKind uint8

const (
	// KindDefault defers to the group's default routing: existing
	// actors receive the envelope, none are spawned.
	KindDefault OutcomeKind = iota
	// KindUnicast targets one key, spawning its actor if needed.
	KindUnicast
	// KindMulticast targets several keys, spawning as needed.
	KindMulticast
	// KindBroadcast targets every running actor.
	KindBroadcast
	// KindDiscard drops the envelope.
	KindDiscard
)

// Outcome is a routing decision over key type K.
type Outcome[K comparable] struct {
	kind OutcomeKind
	key  K
	keys []K
}

// Unicast routes to exactly one key.
func Unicast[K comparable](key K) Outcome[K] {
	return Outcome[K]{kind: KindUnicast, key: key}
}

// Multicast routes to each of keys.
func Multicast[K comparable](keys []K) Outcome[K] {
	return Outcome[K]{kind: KindMulticast, keys: keys}
}

// Broadcast routes to every running actor.
func Broadcast[K comparable]() Outcome[K] {
	return Outcome[K]{kind: KindBroadcast}
}

// Default defers to the group's default routing.
func Default[K comparable]() Outcome[K] {
	return Outcome[K]{kind: KindDefault}
}

// Discard drops the envelope.
func Discard[K comparable]() Outcome[K] {
	return Outcome[K]{kind: KindDiscard}
}

// Kind returns the decision kind.
func (o Outcome[K]) Kind() OutcomeKind {
	return o.kind
}

// Key returns the unicast target. Only meaningful for KindUnicast.
func (o Outcome[K]) Key() K {
	return o.key
}

// Keys returns the multicast targets. Only meaningful for
// KindMulticast.
func (o Outcome[K]) Keys() []K {
	return o.keys
}

// Router maps envelopes to outcomes for a group configured with C.
type Router[C any, K comparable] interface {
	Route(env *envelope.Envelope) Outcome[K]
	// UpdateConfig lets stateful routers track config changes.
	UpdateConfig(cfg C)
}

// MapRouter is a stateless router defined by a single function.
type MapRouter[C any, K comparable] struct {
	route func(env *envelope.Envelope) Outcome[K]
}

// NewMapRouter wraps route as a Router.
func NewMapRouter[C any, K comparable](route func(env *envelope.Envelope) Outcome[K]) MapRouter[C, K] {
	return MapRouter[C, K]{route: route}
}

func (r MapRouter[C, K]) Route(env *envelope.Envelope) Outcome[K] {
	return r.route(env)
}

func (r MapRouter[C, K]) UpdateConfig(C) {}
