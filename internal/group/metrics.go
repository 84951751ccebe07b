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

package group

import (
	"github.com/prometheus/client_golang/prometheus"

	skeinv1 "skein.io/pkg/apis/v1"
)

const subsystem = "group"

var (
	// spawns counts actors spawned per group.
	spawns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: skeinv1.MetricsNamespace,
		Subsystem: subsystem,
		Name:      "spawns_total",
		Help:      "Total number of actors spawned per group",
	}, []string{"group"})

	// restarts counts actor restarts per group.
	restarts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: skeinv1.MetricsNamespace,
		Subsystem: subsystem,
		Name:      "restarts_total",
		Help:      "Total number of actor restarts per group",
	}, []string{"group"})

	// failures counts actor bodies that exited with an error.
	failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: skeinv1.MetricsNamespace,
		Subsystem: subsystem,
		Name:      "failures_total",
		Help:      "Total number of failed actor exits per group",
	}, []string{"group"})

	// dropped counts envelopes discarded by routing.
	dropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: skeinv1.MetricsNamespace,
		Subsystem: subsystem,
		Name:      "dropped_envelopes_total",
		Help:      "Total number of envelopes discarded by routing per group",
	}, []string{"group"})
)

func init() {
	prometheus.MustRegister(spawns)
	prometheus.MustRegister(restarts)
	prometheus.MustRegister(failures)
	prometheus.MustRegister(dropped)
}
