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

package slab

import (
	"github.com/prometheus/client_golang/prometheus"

	skeinv1 "skein.io/pkg/apis/v1"
)

const subsystem = "slab"

var (
	// liveObjects tracks the number of objects currently stored.
	liveObjects = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: skeinv1.MetricsNamespace,
		Subsystem: subsystem,
		Name:      "live_objects",
		Help:      "Number of objects currently stored in the slab",
	})

	// inserts counts successful insertions.
	inserts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: skeinv1.MetricsNamespace,
		Subsystem: subsystem,
		Name:      "inserts_total",
		Help:      "Total number of objects inserted into the slab",
	})

	// insertFailures counts insertions rejected because every shard
	// was full.
	insertFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: skeinv1.MetricsNamespace,
		Subsystem: subsystem,
		Name:      "insert_failures_total",
		Help:      "Total number of insertions rejected by a full slab",
	})

	// removals counts successful removals.
	removals = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: skeinv1.MetricsNamespace,
		Subsystem: subsystem,
		Name:      "removals_total",
		Help:      "Total number of objects removed from the slab",
	})
)

func init() {
	prometheus.MustRegister(liveObjects)
	prometheus.MustRegister(inserts)
	prometheus.MustRegister(insertFailures)
	prometheus.MustRegister(removals)
}
