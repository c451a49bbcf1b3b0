package relay

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mqttdesk/internal/observability"
	"mqttdesk/internal/transport"
)

func newRelay(t *testing.T) (*Hub, *observability.Metrics, string) {
	t.Helper()
	hub := NewHub()
	m := observability.NewMetrics()
	ts := httptest.NewServer(NewServer(hub, zerolog.Nop(), m).Handler())
	t.Cleanup(ts.Close)
	return hub, m, ts.URL
}

func wsURL(base string) string {
	return "ws" + strings.TrimPrefix(base, "http") + "/ws"
}

func TestHealthz(t *testing.T) {
	_, _, base := newRelay(t)
	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestRelayPublishSubscribe(t *testing.T) {
	hub, m, base := newRelay(t)
	ctx := context.Background()

	var mu sync.Mutex
	var got [][]byte
	sub := transport.NewWS(wsURL(base), zerolog.Nop())
	require.NoError(t, sub.Subscribe("connection_1/screen", func(_ string, p []byte) {
		mu.Lock()
		got = append(got, append([]byte(nil), p...))
		mu.Unlock()
	}))
	code, err := sub.Connect(ctx)
	require.NoError(t, err)
	require.Equal(t, transport.CodeAccepted, code)
	t.Cleanup(func() { _ = sub.Close() })

	pub := transport.NewWS(wsURL(base), zerolog.Nop())
	code, err = pub.Connect(ctx)
	require.NoError(t, err)
	require.Equal(t, transport.CodeAccepted, code)
	t.Cleanup(func() { _ = pub.Close() })

	require.Eventually(t, func() bool { return hub.Subscribers("connection_1/screen") == 1 }, 2*time.Second, 10*time.Millisecond)

	frame := make([]byte, 16)
	for i := range frame {
		frame[i] = byte(i)
	}
	require.NoError(t, pub.Publish("connection_1/screen", frame))
	require.NoError(t, pub.Publish("connection_1/mouse", []byte("moved-1-1")))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, 2*time.Second, 10*time.Millisecond)
	mu.Lock()
	assert.Equal(t, frame, got[0])
	mu.Unlock()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.Published.WithLabelValues("mouse")) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Published.WithLabelValues("screen")))
}

func TestRelayForgetsClosedPeer(t *testing.T) {
	hub, _, base := newRelay(t)
	c := transport.NewWS(wsURL(base), zerolog.Nop())
	require.NoError(t, c.Subscribe("connection_1/keyboard", func(string, []byte) {}))
	_, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Subscribers("connection_1/keyboard") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.Close())
	require.Eventually(t, func() bool { return hub.Subscribers("connection_1/keyboard") == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, c.Publish("connection_1/keyboard", []byte("a")), transport.ErrNotConnected)
}

func TestDialFailure(t *testing.T) {
	c := transport.NewWS("ws://127.0.0.1:1/ws", zerolog.Nop())
	code, err := c.Connect(context.Background())
	assert.Error(t, err)
	assert.Equal(t, transport.CodeNetworkError, code)
}

func TestPeerEnqueueDropsWhenFull(t *testing.T) {
	p := &peer{send: make(chan []byte, 1), done: make(chan struct{})}
	assert.True(t, p.enqueue([]byte("a")))
	assert.False(t, p.enqueue([]byte("b")))
}
