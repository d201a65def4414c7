// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	metric := &dto.Metric{}
	require.NoError(t, c.Write(metric))
	return metric.GetCounter().GetValue()
}

func TestRecorder(t *testing.T) {
	m := New("test")
	r := m.Recorder("bgzf", Write)
	r.Block(100, 400, time.Millisecond)
	r.Block(50, 200, time.Millisecond)

	require.Equal(t, 2.0, counterValue(t, m.Blocks.WithLabelValues("bgzf", Write)))
	require.Equal(t, 150.0, counterValue(t, m.CompressedBytes.WithLabelValues("bgzf", Write)))
	require.Equal(t, 600.0, counterValue(t, m.UncompressedBytes.WithLabelValues("bgzf", Write)))
	require.Equal(t, 0.0, counterValue(t, m.Blocks.WithLabelValues("bgzf", Read)))

	metric := &dto.Metric{}
	hist := m.CodecLatency.WithLabelValues("bgzf", Write).(prometheus.Histogram)
	require.NoError(t, hist.Write(metric))
	require.Equal(t, uint64(2), metric.GetHistogram().GetSampleCount())
}

func TestNilRecorder(t *testing.T) {
	var m *Metrics
	r := m.Recorder("bgzf", Read)
	require.Nil(t, r)
	require.NotPanics(t, func() { r.Block(1, 1, 0) })
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("test")
	require.NoError(t, m.Register(reg))
	require.Error(t, m.Register(reg))
}
