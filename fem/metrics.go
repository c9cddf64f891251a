// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters and histograms of element passes and time steps
type Metrics struct {
	Passes     *prometheus.CounterVec   // element passes by kind: residual, tangent, update
	Duration   *prometheus.HistogramVec // duration of element passes by kind [s]
	Degenerate prometheus.Counter       // elements with non-positive Jacobian
	Restarts   prometheus.Counter       // running restarts (time steps retried with a smaller step)
	Steps      prometheus.Counter       // converged time steps
	Iterations prometheus.Histogram     // iterations per converged time step
}

// NewMetrics registers all metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Passes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "febio",
			Name:      "element_passes_total",
			Help:      "Number of element passes by kind",
		}, []string{"pass"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "febio",
			Name:      "element_pass_duration_seconds",
			Help:      "Duration of element passes by kind",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"pass"}),
		Degenerate: f.NewCounter(prometheus.CounterOpts{
			Namespace: "febio",
			Name:      "degenerate_elements_total",
			Help:      "Number of element updates failing with a non-positive Jacobian",
		}),
		Restarts: f.NewCounter(prometheus.CounterOpts{
			Namespace: "febio",
			Name:      "running_restarts_total",
			Help:      "Number of time steps retried with a smaller step",
		}),
		Steps: f.NewCounter(prometheus.CounterOpts{
			Namespace: "febio",
			Name:      "steps_total",
			Help:      "Number of converged time steps",
		}),
		Iterations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "febio",
			Name:      "iterations_per_step",
			Help:      "Number of Newton iterations per converged time step",
			Buckets:   prometheus.LinearBuckets(1, 1, 20),
		}),
	}
}
