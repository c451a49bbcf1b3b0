// Package agent runs the two ends of a remote-control session: the Target,
// which streams its screen and replays input, and the Controller, which
// shows frames and forwards local input.
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"mqttdesk/internal/observability"
	"mqttdesk/internal/session"
	"mqttdesk/internal/transport"
	t "mqttdesk/internal/types"
)

// inboxSize bounds the queue between the bus delivery goroutine and the
// dispatcher. Messages arriving while it is full are dropped.
const inboxSize = 64

type inbound struct {
	ch      t.Channel
	payload []byte
}

// core is the part shared by both roles: lifecycle, subscriptions, the
// inbound dispatcher and drop accounting.
type core struct {
	role    string
	sess    session.Session
	bus     transport.Bus
	log     zerolog.Logger
	metrics *observability.Metrics

	lc     lifecycle
	inbox  chan inbound
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newCore(role string, sess session.Session, bus transport.Bus, log zerolog.Logger, m *observability.Metrics) *core {
	if m == nil {
		m = observability.NewMetrics()
	}
	c := &core{
		role:    role,
		sess:    sess,
		bus:     bus,
		log:     log.With().Str("role", role).Str("session", sess.Prefix()).Logger(),
		metrics: m,
		inbox:   make(chan inbound, inboxSize),
	}
	c.lc.onChange = func(s State) { m.AgentState.Set(float64(s)) }
	return c
}

// State reports the lifecycle state.
func (c *core) State() State { return c.lc.get() }

func (c *core) Metrics() *observability.Metrics { return c.metrics }

// start connects, subscribes to subs and starts the dispatcher. A refused
// or failed connection leaves the agent in StateFailed and is only logged;
// the returned error is for lifecycle misuse.
func (c *core) start(ctx context.Context, subs []t.Channel, handle func(inbound)) (context.Context, error) {
	if err := c.lc.to(StateConnecting); err != nil {
		return nil, err
	}
	for _, ch := range subs {
		topic := c.sess.Topic(ch)
		if err := c.bus.Subscribe(topic, c.receive); err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}

	code, err := c.bus.Connect(ctx)
	if err != nil || code != transport.CodeAccepted {
		_ = c.lc.to(StateFailed)
		c.log.Error().Err(err).Uint8("code", code).Msg("connection failed")
		return nil, nil
	}
	if err := c.lc.to(StateConnected); err != nil {
		// Stopped while connecting.
		return nil, nil
	}
	c.log.Info().Msg("connected")

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.dispatch(runCtx, handle)
	}()
	return runCtx, nil
}

// stop tears the agent down. Loops observe the cancellation at their next
// iteration boundary.
func (c *core) stop() {
	if err := c.lc.to(StateTearingDown); err != nil {
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if err := c.bus.Close(); err != nil {
		c.log.Warn().Err(err).Msg("close bus")
	}
	c.log.Info().Msg("stopped")
}

// receive runs on the bus delivery goroutine and never blocks it.
func (c *core) receive(topic string, payload []byte) {
	ch, ok := session.ChannelOf(topic)
	if !ok {
		c.drop(DropUnknownTopic, nil)
		return
	}
	select {
	case c.inbox <- inbound{ch: ch, payload: payload}:
	default:
		c.drop(DropInboxFull, nil)
	}
}

func (c *core) dispatch(ctx context.Context, handle func(inbound)) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-c.inbox:
			handle(m)
		}
	}
}

// publish hands payload to the bus. It never blocks on the peer.
func (c *core) publish(ch t.Channel, payload []byte) bool {
	if c.lc.get() != StateConnected {
		c.drop(DropNotConnected, nil)
		return false
	}
	if err := c.bus.Publish(c.sess.Topic(ch), payload); err != nil {
		c.drop(reasonFor(err), err)
		return false
	}
	c.metrics.Published.WithLabelValues(string(ch)).Inc()
	return true
}

func (c *core) drop(reason DropReason, err error) {
	c.metrics.Dropped.WithLabelValues(string(reason)).Inc()
	if reason != DropThrottled {
		c.log.Debug().Err(err).Str("reason", string(reason)).Msg("dropped")
	}
}
