// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package testbed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeReady        = "ready"
	outcomeUnidentified = "unidentified"
	outcomeFailed       = "failed"
	outcomeDropped      = "dropped"
)

var (
	deploymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testbed_deployments_total",
			Help: "Total number of deployment requests by outcome",
		},
		[]string{"outcome"},
	)

	deploymentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "testbed_deployment_duration_seconds",
			Help:    "Duration from job submission to an observable service in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"outcome"},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "testbed_deployment_queue_depth",
			Help: "Current number of deployment requests waiting for the worker",
		},
	)

	servicePolls = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "testbed_service_polls_total",
			Help: "Total number of service listings made while waiting for applications",
		},
	)
)
