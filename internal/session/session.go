// Package session maps a session id to its topics and back.
package session

import (
	"strconv"
	"strings"

	t "mqttdesk/internal/types"
)

const topicPrefix = "connection_"

// Session identifies one controller/target pairing.
type Session struct {
	id int
}

func New(id int) Session { return Session{id: id} }

func (s Session) ID() int { return s.id }

// Prefix returns "connection_{id}".
func (s Session) Prefix() string { return topicPrefix + strconv.Itoa(s.id) }

// Topic returns the fully qualified topic for ch, e.g. "connection_1/screen".
func (s Session) Topic(ch t.Channel) string { return s.Prefix() + "/" + string(ch) }

// ChannelOf returns the last path segment of topic as a channel. ok is false
// when the segment is not a channel this protocol produces.
func ChannelOf(topic string) (ch t.Channel, ok bool) {
	seg := topic
	if i := strings.LastIndexByte(topic, '/'); i >= 0 {
		seg = topic[i+1:]
	}
	switch c := t.Channel(seg); c {
	case t.ChannelScreen, t.ChannelKeyboard, t.ChannelMouse:
		return c, true
	}
	return "", false
}
