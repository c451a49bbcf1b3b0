package agent

import (
	"errors"

	"mqttdesk/internal/codec"
	"mqttdesk/internal/transport"
)

// DropReason names why a message or event was discarded.
type DropReason string

const (
	DropFrameSize      DropReason = "frame_size"
	DropUnknownCommand DropReason = "unknown_command"
	DropMalformed      DropReason = "malformed"
	DropUnknownTopic   DropReason = "unknown_topic"
	DropThrottled      DropReason = "throttled"
	DropInboxFull      DropReason = "inbox_full"
	DropNotConnected   DropReason = "not_connected"
)

func reasonFor(err error) DropReason {
	switch {
	case errors.Is(err, codec.ErrFrameSize):
		return DropFrameSize
	case errors.Is(err, codec.ErrUnknownCommand):
		return DropUnknownCommand
	case errors.Is(err, transport.ErrNotConnected):
		return DropNotConnected
	}
	return DropMalformed
}
