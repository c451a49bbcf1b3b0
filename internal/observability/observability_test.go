package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "warn")
	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Str("session", "connection_1").Msg("shown")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "connection_1", line["session"])
	assert.Contains(t, line, "time")
}

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "verbose")
	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	log.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestMetricsRegistered(t *testing.T) {
	m := NewMetrics()
	m.Published.WithLabelValues("mouse").Inc()
	m.Dropped.WithLabelValues("throttled").Add(3)
	m.FramesReceived.Inc()
	m.AgentState.Set(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Published.WithLabelValues("mouse")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Dropped.WithLabelValues("throttled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesReceived))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AgentState))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}
