// Package codec converts input events and frames to and from the byte
// payloads carried on the session topics.
//
// Keyboard payloads are the key code as text: a literal character ("a") or a
// dotted symbolic name ("Key.space"). Mouse payloads are dash separated:
//
//	moved-{x}-{y}
//	pressed-{left|right|middle}
//	released-{left|right|middle}
//	scrolled-{up|down}
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	t "mqttdesk/internal/types"
)

var (
	// ErrUnknownCommand is returned for a mouse payload whose first token is
	// not a known command. Receivers ignore these.
	ErrUnknownCommand = errors.New("codec: unknown command")
	// ErrMalformed is returned when a known command has bad arguments.
	ErrMalformed = errors.New("codec: malformed payload")
	// ErrFrameSize is returned when a screen payload does not match the
	// expected width*height*4 layout.
	ErrFrameSize = errors.New("codec: frame size mismatch")
)

const (
	cmdMoved    = "moved"
	cmdPressed  = "pressed"
	cmdReleased = "released"
	cmdScrolled = "scrolled"
)

// Encode renders ev as the payload for its channel.
func Encode(ev t.InputEvent) ([]byte, error) {
	switch e := ev.(type) {
	case t.KeyEvent:
		if e.Code == "" {
			return nil, fmt.Errorf("%w: empty key code", ErrMalformed)
		}
		return []byte(e.Code), nil
	case t.MouseMoveEvent:
		return []byte(cmdMoved + "-" + strconv.Itoa(e.X) + "-" + strconv.Itoa(e.Y)), nil
	case t.MouseButtonEvent:
		if !validButton(e.Button) {
			return nil, fmt.Errorf("%w: button %q", ErrMalformed, e.Button)
		}
		action := cmdReleased
		if e.Pressed {
			action = cmdPressed
		}
		return []byte(action + "-" + string(e.Button)), nil
	case t.ScrollEvent:
		if e.Direction != t.ScrollUp && e.Direction != t.ScrollDown {
			return nil, fmt.Errorf("%w: scroll direction %q", ErrMalformed, e.Direction)
		}
		return []byte(cmdScrolled + "-" + string(e.Direction)), nil
	}
	return nil, fmt.Errorf("%w: event %T", ErrMalformed, ev)
}

// Decode parses a payload received on ch.
func Decode(ch t.Channel, payload []byte) (t.InputEvent, error) {
	switch ch {
	case t.ChannelKeyboard:
		return DecodeKey(payload)
	case t.ChannelMouse:
		return DecodeMouse(payload)
	}
	return nil, fmt.Errorf("%w: channel %q carries no input", ErrUnknownCommand, ch)
}

// DecodeKey parses a keyboard payload. A code wrapped in single quotes, as
// older controllers sent printable keys, is unwrapped.
func DecodeKey(payload []byte) (t.KeyEvent, error) {
	code := string(payload)
	if len(code) >= 3 && code[0] == '\'' && code[len(code)-1] == '\'' {
		code = code[1 : len(code)-1]
	}
	if code == "" {
		return t.KeyEvent{}, fmt.Errorf("%w: empty key code", ErrMalformed)
	}
	return t.KeyEvent{Code: code}, nil
}

// ResolveKey decides how a key code is injected. A code with a second
// dot-separated segment names a key ("Key.space" -> "space"); anything else,
// including a lone ".", is literal text to paste.
func ResolveKey(code string) (name string, named bool) {
	if code == "." {
		return code, false
	}
	parts := strings.Split(code, ".")
	if len(parts) > 1 && parts[1] != "" {
		return parts[1], true
	}
	return code, false
}

// DecodeMouse parses a mouse payload.
func DecodeMouse(payload []byte) (t.InputEvent, error) {
	cmd, args, _ := strings.Cut(string(payload), "-")
	switch cmd {
	case cmdMoved:
		x, y, err := parsePoint(args)
		if err != nil {
			return nil, err
		}
		return t.MouseMoveEvent{X: x, Y: y}, nil
	case cmdPressed, cmdReleased:
		btn := t.Button(args)
		if !validButton(btn) {
			return nil, fmt.Errorf("%w: button %q", ErrMalformed, args)
		}
		return t.MouseButtonEvent{Button: btn, Pressed: cmd == cmdPressed}, nil
	case cmdScrolled:
		switch dir := t.ScrollDirection(args); dir {
		case t.ScrollUp, t.ScrollDown:
			return t.ScrollEvent{Direction: dir}, nil
		}
		return nil, fmt.Errorf("%w: scroll direction %q", ErrMalformed, args)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
}

// parsePoint reads "{x}-{y}". A leading '-' on either number is a sign.
func parsePoint(s string) (x, y int, err error) {
	i := strings.IndexByte(s[min(1, len(s)):], '-')
	if i < 0 {
		return 0, 0, fmt.Errorf("%w: point %q", ErrMalformed, s)
	}
	i += min(1, len(s))
	if x, err = strconv.Atoi(s[:i]); err != nil {
		return 0, 0, fmt.Errorf("%w: x: %v", ErrMalformed, err)
	}
	if y, err = strconv.Atoi(s[i+1:]); err != nil {
		return 0, 0, fmt.Errorf("%w: y: %v", ErrMalformed, err)
	}
	return x, y, nil
}

func validButton(b t.Button) bool {
	switch b {
	case t.ButtonLeft, t.ButtonRight, t.ButtonMiddle:
		return true
	}
	return false
}
