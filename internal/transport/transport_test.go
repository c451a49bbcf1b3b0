package transport

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) handle(topic string, payload []byte) {
	r.mu.Lock()
	r.msgs = append(r.msgs, topic+"="+string(payload))
	r.mu.Unlock()
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func TestMemoryDeliversToExactTopic(t *testing.T) {
	b := NewMemoryBroker()
	pub, sub := b.Client(), b.Client()
	var rec recorder
	require.NoError(t, sub.Subscribe("connection_1/mouse", rec.handle))

	for _, c := range []*MemoryClient{pub, sub} {
		code, err := c.Connect(context.Background())
		require.NoError(t, err)
		require.Equal(t, CodeAccepted, code)
	}

	require.NoError(t, pub.Publish("connection_1/mouse", []byte("moved-1-2")))
	require.NoError(t, pub.Publish("connection_1/keyboard", []byte("a")))
	require.NoError(t, pub.Publish("connection_2/mouse", []byte("moved-3-4")))

	assert.Equal(t, []string{"connection_1/mouse=moved-1-2"}, rec.all())
}

func TestMemoryCopiesPayload(t *testing.T) {
	b := NewMemoryBroker()
	pub, sub := b.Client(), b.Client()
	var got []byte
	require.NoError(t, sub.Subscribe("x", func(_ string, p []byte) { got = p }))
	_, _ = pub.Connect(context.Background())
	_, _ = sub.Connect(context.Background())

	payload := []byte{1, 2, 3}
	require.NoError(t, pub.Publish("x", payload))
	payload[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestMemoryPublishBeforeConnect(t *testing.T) {
	c := NewMemoryBroker().Client()
	assert.ErrorIs(t, c.Publish("x", nil), ErrNotConnected)
}

func TestMemoryRejectCode(t *testing.T) {
	b := NewMemoryBroker()
	b.RejectCode = CodeNotAuthorized
	code, err := b.Client().Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CodeNotAuthorized, code)
}

func TestMemoryClosedClientStopsReceiving(t *testing.T) {
	b := NewMemoryBroker()
	pub, sub := b.Client(), b.Client()
	var rec recorder
	require.NoError(t, sub.Subscribe("x", rec.handle))
	_, _ = pub.Connect(context.Background())
	_, _ = sub.Connect(context.Background())
	require.NoError(t, sub.Close())
	require.NoError(t, pub.Publish("x", []byte("late")))
	assert.Empty(t, rec.all())
	assert.ErrorIs(t, sub.Publish("x", nil), ErrNotConnected)
}

func TestRelayFrame(t *testing.T) {
	b := EncodeFrame(OpPublish, "connection_1/screen", []byte{0, 1, 2})
	op, topic, payload, err := DecodeFrame(b)
	require.NoError(t, err)
	assert.Equal(t, OpPublish, op)
	assert.Equal(t, "connection_1/screen", topic)
	assert.Equal(t, []byte{0, 1, 2}, payload)

	_, _, _, err = DecodeFrame([]byte{2, 0})
	assert.Error(t, err)
	_, _, _, err = DecodeFrame([]byte{2, 0, 5, 'a'})
	assert.Error(t, err)
}
