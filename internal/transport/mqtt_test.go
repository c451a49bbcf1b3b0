package transport

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMQTTPublishBeforeConnect(t *testing.T) {
	m := NewMQTT(MQTTOptions{BrokerURL: "tcp://127.0.0.1:1"}, zerolog.Nop())
	assert.ErrorIs(t, m.Publish("connection_1/mouse", []byte("moved-1-1")), ErrNotConnected)
	require.NoError(t, m.Subscribe("connection_1/screen", func(string, []byte) {}))
	assert.NoError(t, m.Close())
}

func TestMQTTUnreachableBroker(t *testing.T) {
	m := NewMQTT(MQTTOptions{BrokerURL: "tcp://127.0.0.1:1", KeepAlive: time.Second}, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	code, err := m.Connect(ctx)
	assert.Error(t, err)
	assert.Equal(t, CodeNetworkError, code)
}
