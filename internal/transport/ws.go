package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	wsWriteWait = 5 * time.Second
	wsAckWait   = 10 * time.Second
)

// WS is a Bus that talks to the websocket relay.
type WS struct {
	url string
	log zerolog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
	subs map[string]Handler

	writeMu sync.Mutex
}

func NewWS(url string, log zerolog.Logger) *WS {
	return &WS{url: url, log: log, subs: make(map[string]Handler)}
}

func (w *WS) Connect(ctx context.Context) (byte, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return CodeNetworkError, fmt.Errorf("dial relay: %w", err)
	}
	conn.SetReadLimit(64 << 20)

	_ = conn.SetReadDeadline(time.Now().Add(wsAckWait))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return CodeNetworkError, fmt.Errorf("read connack: %w", err)
	}
	op, _, payload, err := DecodeFrame(msg)
	if err != nil || op != OpConnAck || len(payload) != 1 {
		conn.Close()
		return CodeNetworkError, errors.New("relay sent no connack")
	}
	if code := payload[0]; code != CodeAccepted {
		conn.Close()
		return code, nil
	}
	_ = conn.SetReadDeadline(time.Time{})

	w.mu.Lock()
	w.conn = conn
	topics := make([]string, 0, len(w.subs))
	for topic := range w.subs {
		topics = append(topics, topic)
	}
	w.mu.Unlock()

	for _, topic := range topics {
		if err := w.write(conn, EncodeFrame(OpSubscribe, topic, nil)); err != nil {
			return CodeNetworkError, fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	go w.readLoop(conn)
	return CodeAccepted, nil
}

func (w *WS) readLoop(conn *websocket.Conn) {
	defer w.drop(conn)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			w.log.Debug().Err(err).Msg("relay read closed")
			return
		}
		op, topic, payload, err := DecodeFrame(msg)
		if err != nil || op != OpPublish {
			continue
		}
		w.mu.Lock()
		h := w.subs[topic]
		w.mu.Unlock()
		if h != nil {
			h(topic, payload)
		}
	}
}

func (w *WS) drop(conn *websocket.Conn) {
	w.mu.Lock()
	if w.conn == conn {
		w.conn = nil
	}
	w.mu.Unlock()
	conn.Close()
}

func (w *WS) write(conn *websocket.Conn, frame []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (w *WS) current() *websocket.Conn {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn
}

func (w *WS) Subscribe(topic string, h Handler) error {
	w.mu.Lock()
	w.subs[topic] = h
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return nil
	}
	return w.write(conn, EncodeFrame(OpSubscribe, topic, nil))
}

func (w *WS) Publish(topic string, payload []byte) error {
	conn := w.current()
	if conn == nil {
		return ErrNotConnected
	}
	return w.write(conn, EncodeFrame(OpPublish, topic, payload))
}

func (w *WS) Close() error {
	conn := w.current()
	if conn == nil {
		return nil
	}
	w.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	w.writeMu.Unlock()
	w.drop(conn)
	return nil
}

var _ Bus = (*WS)(nil)
