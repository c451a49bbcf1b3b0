package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mqttdesk/internal/types"
)

func TestTopic(t *testing.T) {
	s := New(1)
	assert.Equal(t, "connection_1", s.Prefix())
	assert.Equal(t, "connection_1/screen", s.Topic(types.ChannelScreen))
	assert.Equal(t, "connection_1/keyboard", s.Topic(types.ChannelKeyboard))
	assert.Equal(t, "connection_42/mouse", New(42).Topic(types.ChannelMouse))
}

func TestChannelOfRoundTrip(t *testing.T) {
	s := New(7)
	for _, ch := range types.Channels {
		got, ok := ChannelOf(s.Topic(ch))
		assert.True(t, ok)
		assert.Equal(t, ch, got)
	}
}

func TestChannelOfUnknown(t *testing.T) {
	for _, topic := range []string{"", "connection_1/", "connection_1/video", "screen/extra", "a/b/c"} {
		_, ok := ChannelOf(topic)
		assert.False(t, ok, topic)
	}
	ch, ok := ChannelOf("other/prefix/mouse")
	assert.True(t, ok)
	assert.Equal(t, types.ChannelMouse, ch)
}
