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
	"github.com/prometheus/client_golang/prometheus"

	skeinv1 "skein.io/pkg/apis/v1"
)

const subsystem = "network"

var (
	// memberCount tracks the number of members discovery can see,
	// including this node.
	memberCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: skeinv1.MetricsNamespace,
		Subsystem: subsystem,
		Name:      "member_count",
		Help:      "Current number of members visible to discovery",
	})

	// nodeEvents counts membership events.
	nodeEvents = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: skeinv1.MetricsNamespace,
		Subsystem: subsystem,
		Name:      "node_events_total",
		Help:      "Total number of membership events observed",
	})

	// sessions tracks live connection workers.
	sessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: skeinv1.MetricsNamespace,
		Subsystem: subsystem,
		Name:      "sessions",
		Help:      "Number of live connection workers",
	})
)

func init() {
	prometheus.MustRegister(memberCount)
	prometheus.MustRegister(nodeEvents)
	prometheus.MustRegister(sessions)
}
