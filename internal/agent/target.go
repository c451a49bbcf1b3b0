package agent

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"mqttdesk/internal/codec"
	"mqttdesk/internal/observability"
	"mqttdesk/internal/session"
	"mqttdesk/internal/transport"
	t "mqttdesk/internal/types"
)

// Capturer produces screen frames. Capture may return a nil frame when
// nothing new is available.
type Capturer interface {
	Capture() (*t.Frame, error)
}

// Injector replays input on the local machine. Every operation is best
// effort; failures stay local.
type Injector interface {
	PressNamedKey(name string)
	// TypeText delivers literal text, typically through the clipboard.
	TypeText(text string)
	MoveCursor(x, y int)
	SetButton(b t.Button, pressed bool)
	// Scroll moves the wheel by amount notches; positive is up.
	Scroll(amount int)
}

type TargetOptions struct {
	// CaptureInterval is the loop period.
	CaptureInterval time.Duration
	// CaptureEvery publishes on every Nth loop iteration.
	CaptureEvery int
	// ScrollAmount is the notch count injected per scroll command.
	ScrollAmount int
}

// Target runs on the controlled machine.
type Target struct {
	*core
	capturer Capturer
	injector Injector
	opts     TargetOptions
}

func NewTarget(sess session.Session, bus transport.Bus, c Capturer, in Injector, opts TargetOptions, log zerolog.Logger, m *observability.Metrics) *Target {
	if opts.CaptureInterval <= 0 {
		opts.CaptureInterval = 100 * time.Millisecond
	}
	if opts.CaptureEvery < 1 {
		opts.CaptureEvery = 1
	}
	if opts.ScrollAmount == 0 {
		opts.ScrollAmount = 5
	}
	return &Target{
		core:     newCore("target", sess, bus, log, m),
		capturer: c,
		injector: in,
		opts:     opts,
	}
}

// Start connects, subscribes to the keyboard and mouse topics and starts
// the capture loop.
func (a *Target) Start(ctx context.Context) error {
	runCtx, err := a.start(ctx, []t.Channel{t.ChannelKeyboard, t.ChannelMouse}, a.handle)
	if err != nil || runCtx == nil {
		return err
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.captureLoop(runCtx)
	}()
	return nil
}

func (a *Target) Stop() { a.stop() }

func (a *Target) captureLoop(ctx context.Context) {
	ticker := time.NewTicker(a.opts.CaptureInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		if i%a.opts.CaptureEvery == 0 {
			a.captureOnce()
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// captureOnce grabs a frame and publishes it if there is one.
func (a *Target) captureOnce() bool {
	f, err := a.capturer.Capture()
	if err != nil {
		a.log.Debug().Err(err).Msg("capture error")
		return false
	}
	if f == nil {
		return false
	}
	payload, err := codec.EncodeFrame(f)
	if err != nil {
		a.drop(reasonFor(err), err)
		return false
	}
	return a.publish(t.ChannelScreen, payload)
}

func (a *Target) handle(m inbound) {
	ev, err := codec.Decode(m.ch, m.payload)
	if err != nil {
		a.drop(reasonFor(err), err)
		return
	}
	a.apply(ev)
}

func (a *Target) apply(ev t.InputEvent) {
	switch e := ev.(type) {
	case t.KeyEvent:
		if name, named := codec.ResolveKey(e.Code); named {
			a.injector.PressNamedKey(name)
		} else {
			a.injector.TypeText(name)
		}
	case t.MouseMoveEvent:
		a.injector.MoveCursor(e.X, e.Y)
	case t.MouseButtonEvent:
		a.injector.SetButton(e.Button, e.Pressed)
	case t.ScrollEvent:
		if e.Direction == t.ScrollDown {
			a.injector.Scroll(-a.opts.ScrollAmount)
		} else {
			a.injector.Scroll(a.opts.ScrollAmount)
		}
	}
}
