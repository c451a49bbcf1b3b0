package agent

import (
	"context"

	"github.com/rs/zerolog"

	"mqttdesk/internal/codec"
	"mqttdesk/internal/framebuf"
	"mqttdesk/internal/observability"
	"mqttdesk/internal/session"
	"mqttdesk/internal/throttle"
	"mqttdesk/internal/transport"
	t "mqttdesk/internal/types"
)

// Display shows a frame to the user.
type Display interface {
	Render(f *t.Frame)
}

type ControllerOptions struct {
	// Width and Height are the expected incoming frame dimensions.
	Width, Height int
	// OffsetX and OffsetY are added to every cursor position.
	OffsetX, OffsetY int
	MoveDelay        int
	ScrollDelay      int
}

// Controller runs on the controlling machine.
type Controller struct {
	*core
	opts   ControllerOptions
	latest *framebuf.Latest
	move   *throttle.Throttle
	scroll *throttle.Throttle
}

func NewController(sess session.Session, bus transport.Bus, opts ControllerOptions, log zerolog.Logger, m *observability.Metrics) *Controller {
	return &Controller{
		core:   newCore("controller", sess, bus, log, m),
		opts:   opts,
		latest: framebuf.New(),
		move:   throttle.New(opts.MoveDelay),
		scroll: throttle.New(opts.ScrollDelay),
	}
}

// Start connects and subscribes to the screen topic.
func (a *Controller) Start(ctx context.Context) error {
	_, err := a.start(ctx, []t.Channel{t.ChannelScreen}, a.handle)
	return err
}

func (a *Controller) Stop() { a.stop() }

// Latest is the buffer holding the most recent frame.
func (a *Controller) Latest() *framebuf.Latest { return a.latest }

// Render shows the latest frame on d. It does nothing until a frame has
// arrived.
func (a *Controller) Render(d Display) bool {
	f := a.latest.Load()
	if f == nil {
		return false
	}
	d.Render(f)
	return true
}

func (a *Controller) handle(m inbound) {
	if m.ch != t.ChannelScreen {
		a.drop(DropUnknownTopic, nil)
		return
	}
	f, err := codec.DecodeFrame(m.payload, a.opts.Width, a.opts.Height)
	if err != nil {
		a.drop(reasonFor(err), err)
		return
	}
	a.latest.Store(f)
	a.metrics.FramesReceived.Inc()
}

// OnKey forwards a key press. Key presses are never throttled.
func (a *Controller) OnKey(code string) {
	a.send(t.KeyEvent{Code: code})
}

// OnMove forwards a cursor position, thinned by the move throttle.
func (a *Controller) OnMove(x, y int) {
	if !a.move.Allow() {
		a.drop(DropThrottled, nil)
		return
	}
	a.send(t.MouseMoveEvent{X: x + a.opts.OffsetX, Y: y + a.opts.OffsetY})
}

// OnClick forwards a button transition. Button events are never throttled.
func (a *Controller) OnClick(b t.Button, pressed bool) {
	a.send(t.MouseButtonEvent{Button: b, Pressed: pressed})
}

// OnScroll forwards a wheel movement, thinned by the scroll throttle. A
// negative dy scrolls down.
func (a *Controller) OnScroll(dy float64) {
	if !a.scroll.Allow() {
		a.drop(DropThrottled, nil)
		return
	}
	dir := t.ScrollUp
	if dy < 0 {
		dir = t.ScrollDown
	}
	a.send(t.ScrollEvent{Direction: dir})
}

func (a *Controller) send(ev t.InputEvent) {
	payload, err := codec.Encode(ev)
	if err != nil {
		a.drop(reasonFor(err), err)
		return
	}
	a.publish(ev.Channel(), payload)
}
