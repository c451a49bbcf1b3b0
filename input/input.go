// Package input replays decoded remote input on the local desktop.
// The cgo build drives robotgo; without cgo every operation is a no-op so
// the rest of the program still builds.
package input

import (
	"github.com/rs/zerolog"

	"mqttdesk/internal/keymap"
	t "mqttdesk/internal/types"
)

// Robot injects keyboard and mouse input. All operations are best effort;
// failures are logged and otherwise ignored.
type Robot struct {
	log zerolog.Logger
}

func NewRobot(log zerolog.Logger) *Robot {
	return &Robot{log: log.With().Str("component", "injector").Logger()}
}

// PressNamedKey taps a special key by its wire name ("space", "page_up").
func (r *Robot) PressNamedKey(name string) {
	if err := keyTap(keymap.Normalize(name)); err != nil {
		r.log.Debug().Err(err).Str("key", name).Msg("key tap failed")
	}
}

// TypeText puts text on the clipboard and pastes it, which works for any
// Unicode text regardless of keyboard layout.
func (r *Robot) TypeText(text string) {
	if err := writeClipboard(text); err != nil {
		r.log.Debug().Err(err).Msg("clipboard write error")
		return
	}
	if err := keyTap("v", pasteModifier); err != nil {
		r.log.Debug().Err(err).Msg("paste failed")
	}
}

// MoveCursor moves the cursor to absolute screen coordinates.
func (r *Robot) MoveCursor(x, y int) { moveMouse(x, y) }

// SetButton presses or releases a mouse button.
func (r *Robot) SetButton(b t.Button, pressed bool) {
	if err := toggleButton(string(b), pressed); err != nil {
		r.log.Debug().Err(err).Str("button", string(b)).Msg("button toggle failed")
	}
}

// Scroll moves the wheel vertically; positive is up.
func (r *Robot) Scroll(amount int) { scroll(amount) }
