// Package transport delivers raw payloads per topic over a pub/sub bus. It
// knows nothing about the remote-control protocol carried on top.
package transport

import (
	"context"
	"errors"
)

// Connect acknowledgement codes. CodeAccepted mirrors the MQTT CONNACK
// "accepted" code; the others are MQTT refusal codes or local failures.
const (
	CodeAccepted         byte = 0x00
	CodeBadProtocol      byte = 0x01
	CodeIdentifierReject byte = 0x02
	CodeServerUnavail    byte = 0x03
	CodeBadCredentials   byte = 0x04
	CodeNotAuthorized    byte = 0x05
	CodeNetworkError     byte = 0xFE
)

// ErrNotConnected is returned by Publish before a successful connect or
// after Close.
var ErrNotConnected = errors.New("transport: not connected")

// Handler receives one inbound message. It runs on the bus's own delivery
// goroutine and must not block.
type Handler func(topic string, payload []byte)

// Bus is a minimal connect/subscribe/publish client.
type Bus interface {
	// Connect dials the broker and waits for its acknowledgement. A non-nil
	// error means the broker was unreachable; otherwise code is the
	// broker's answer and anything but CodeAccepted is a refusal.
	Connect(ctx context.Context) (code byte, err error)
	// Subscribe registers h for messages on topic. Registrations made
	// before Connect take effect once the connection is accepted.
	Subscribe(topic string, h Handler) error
	// Publish hands payload to the bus without waiting for delivery.
	Publish(topic string, payload []byte) error
	Close() error
}
