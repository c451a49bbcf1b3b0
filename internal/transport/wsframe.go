package transport

import (
	"encoding/binary"
	"errors"
	"math"
)

// Relay frame opcodes. Each websocket binary message carries one frame:
//
//	op(1) | topic length(2, big endian) | topic | payload
type Op byte

const (
	OpConnAck   Op = 0
	OpSubscribe Op = 1
	OpPublish   Op = 2
)

var errShortFrame = errors.New("transport: short relay frame")

// EncodeFrame builds a relay frame.
func EncodeFrame(op Op, topic string, payload []byte) []byte {
	if len(topic) > math.MaxUint16 {
		topic = topic[:math.MaxUint16]
	}
	b := make([]byte, 3+len(topic)+len(payload))
	b[0] = byte(op)
	binary.BigEndian.PutUint16(b[1:3], uint16(len(topic)))
	copy(b[3:], topic)
	copy(b[3+len(topic):], payload)
	return b
}

// DecodeFrame splits a relay frame. payload aliases b.
func DecodeFrame(b []byte) (op Op, topic string, payload []byte, err error) {
	if len(b) < 3 {
		return 0, "", nil, errShortFrame
	}
	n := int(binary.BigEndian.Uint16(b[1:3]))
	if len(b) < 3+n {
		return 0, "", nil, errShortFrame
	}
	return Op(b[0]), string(b[3 : 3+n]), b[3+n:], nil
}
