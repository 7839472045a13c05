// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()
	assert.NotPanics(t, func() {
		m.GetOrCreateCountMeter("c").Add(1)
		m.GetOrCreateCountVecMeter("cv", []string{"l"}).AddWithLabel(1, map[string]string{"l": "x"})
		m.GetOrCreateGaugeMeter("g").Set(3)
		m.GetOrCreateHistogramMeter("h", nil).Observe(5)
	})
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	defer func() { metrics = defaultNoopMetrics() }()

	lazy := LazyLoadCounterVec("test_tx_count", []string{"outcome"})
	lazy().AddWithLabel(2, map[string]string{"outcome": "ok"})
	lazy().AddWithLabel(1, map[string]string{"outcome": "reverted"})
	Counter("test_counter").Add(7)
	assert.Same(t, Counter("test_counter"), Counter("test_counter"))
	Gauge("test_gauge").Set(42)
	Histogram("test_hist", BucketMessages).Observe(3)

	srv := httptest.NewServer(HTTPHandler())
	defer srv.Close()

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, `tge_test_tx_count{outcome="ok"} 2`))
	assert.True(t, strings.Contains(text, `tge_test_tx_count{outcome="reverted"} 1`))
	assert.Contains(t, text, "tge_test_counter 7")
	assert.Contains(t, text, "tge_test_gauge 42")
	assert.Contains(t, text, "tge_test_hist_count 1")
}

func TestPromGather(t *testing.T) {
	InitializePrometheusMetrics()
	defer func() { metrics = defaultNoopMetrics() }()

	CounterVec("gather_ops", []string{"op"}).AddWithLabel(3, map[string]string{"op": "lock"})
	CounterVec("gather_ops", []string{"op"}).AddWithLabel(2, map[string]string{"op": "withdraw"})
	Histogram("gather_hist", BucketMessages).Observe(4)
	Histogram("gather_hist", BucketMessages).Observe(6)

	families, err := prometheus.Gatherers{prometheus.DefaultGatherer}.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	ops := byName["tge_gather_ops"]
	require.NotNil(t, ops)
	total := 0.0
	for _, m := range ops.Metric {
		total += m.GetCounter().GetValue()
	}
	assert.Equal(t, 5.0, total)

	hist := byName["tge_gather_hist"]
	require.NotNil(t, hist)
	assert.Equal(t, uint64(2), hist.Metric[0].GetHistogram().GetSampleCount())
	assert.Equal(t, 10.0, hist.Metric[0].GetHistogram().GetSampleSum())
}
