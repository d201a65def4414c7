// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics provides prometheus instrumentation for the block
// container streams.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Label values for the direction label.
const (
	Read  = "read"
	Write = "write"
)

// Metrics holds the collectors updated by the container streams.
// Each collector is labeled by container and direction.
type Metrics struct {
	Blocks            *prometheus.CounterVec
	CompressedBytes   *prometheus.CounterVec
	UncompressedBytes *prometheus.CounterVec
	CodecLatency      *prometheus.HistogramVec
}

// New returns a Metrics with collectors named within namespace.
func New(namespace string) *Metrics {
	labels := []string{"container", "direction"}
	return &Metrics{
		Blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Number of container blocks processed.",
		}, labels),
		CompressedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compressed_bytes_total",
			Help:      "Number of compressed frame bytes read or written.",
		}, labels),
		UncompressedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uncompressed_bytes_total",
			Help:      "Number of uncompressed block bytes produced or consumed.",
		}, labels),
		CodecLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "codec_latency_seconds",
			Help:      "Time spent compressing or decompressing a single block.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, labels),
	}
}

// Collectors returns the collectors held by m.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Blocks, m.CompressedBytes, m.UncompressedBytes, m.CodecLatency}
}

// Register registers the collectors held by m with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Recorder returns a Recorder for the named container and direction.
// A nil Metrics returns a nil Recorder.
func (m *Metrics) Recorder(container, direction string) *Recorder {
	if m == nil {
		return nil
	}
	return &Recorder{
		blocks:       m.Blocks.WithLabelValues(container, direction),
		compressed:   m.CompressedBytes.WithLabelValues(container, direction),
		uncompressed: m.UncompressedBytes.WithLabelValues(container, direction),
		latency:      m.CodecLatency.WithLabelValues(container, direction),
	}
}

// Recorder updates the collectors for a single container and direction.
// All methods are no-ops on a nil Recorder.
type Recorder struct {
	blocks       prometheus.Counter
	compressed   prometheus.Counter
	uncompressed prometheus.Counter
	latency      prometheus.Observer
}

// Block records one block of compressed and uncompressed bytes that
// took d to encode or decode.
func (r *Recorder) Block(compressed, uncompressed int, d time.Duration) {
	if r == nil {
		return
	}
	r.blocks.Inc()
	r.compressed.Add(float64(compressed))
	r.uncompressed.Add(float64(uncompressed))
	r.latency.Observe(d.Seconds())
}
