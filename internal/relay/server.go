// Package relay is a small websocket pub/sub hub that can stand in for an
// MQTT broker. Clients speak the frame format in package transport.
package relay

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mqttdesk/internal/observability"
	"mqttdesk/internal/session"
	"mqttdesk/internal/transport"
)

const (
	readLimit  = 64 << 20
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	writeWait  = 5 * time.Second
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type peer struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// enqueue queues a frame for p without blocking; a full queue drops it.
func (p *peer) enqueue(frame []byte) bool {
	select {
	case p.send <- frame:
		return true
	case <-p.done:
		return false
	default:
		return false
	}
}

// Server accepts relay connections.
type Server struct {
	hub     *Hub
	log     zerolog.Logger
	metrics *observability.Metrics
}

func NewServer(hub *Hub, log zerolog.Logger, m *observability.Metrics) *Server {
	return &Server{hub: hub, log: log, metrics: m}
}

// Handler serves /ws, /healthz and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	return mux
}

// HandleWS upgrades a connection and relays its frames.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("upgrade error")
		return
	}
	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	p := &peer{conn: ws, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
	p.send <- transport.EncodeFrame(transport.OpConnAck, "", []byte{transport.CodeAccepted})
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("relay peer connected")

	go s.writeLoop(p)
	s.readLoop(p)
}

func (s *Server) readLoop(p *peer) {
	defer func() {
		s.hub.Remove(p)
		close(p.done)
		p.conn.Close()
	}()
	for {
		_, msg, err := p.conn.ReadMessage()
		if err != nil {
			s.log.Debug().Err(err).Msg("relay read close")
			return
		}
		op, topic, _, err := transport.DecodeFrame(msg)
		if err != nil {
			s.metrics.Dropped.WithLabelValues("malformed").Inc()
			continue
		}
		switch op {
		case transport.OpSubscribe:
			s.hub.Subscribe(topic, p)
		case transport.OpPublish:
			s.publish(topic, msg)
		}
	}
}

func (s *Server) publish(topic string, frame []byte) {
	label := "unknown"
	if ch, ok := session.ChannelOf(topic); ok {
		label = string(ch)
	}
	s.metrics.Published.WithLabelValues(label).Inc()
	s.hub.ForEachSubscriber(topic, func(p *peer) {
		if !p.enqueue(frame) {
			s.metrics.Dropped.WithLabelValues("slow_peer").Inc()
		}
	})
}

func (s *Server) writeLoop(p *peer) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case frame := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				s.log.Debug().Err(err).Msg("relay write error")
				p.conn.Close()
				return
			}
		case <-ticker.C:
			if err := p.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				p.conn.Close()
				return
			}
		case <-p.done:
			return
		}
	}
}
