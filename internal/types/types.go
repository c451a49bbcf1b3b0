package types

// Channel is one of the logical topics of a session.
type Channel string

const (
	ChannelScreen   Channel = "screen"
	ChannelKeyboard Channel = "keyboard"
	ChannelMouse    Channel = "mouse"
)

// Channels lists every channel a session carries.
var Channels = []Channel{ChannelScreen, ChannelKeyboard, ChannelMouse}

// FrameChannels is the fixed number of bytes per pixel on the screen topic.
const FrameChannels = 4

// Frame is one captured screen image in RGBA-like byte layout.
type Frame struct {
	Width    int
	Height   int
	Channels int
	Pixels   []byte
}

type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonMiddle Button = "middle"
)

type ScrollDirection string

const (
	ScrollUp   ScrollDirection = "up"
	ScrollDown ScrollDirection = "down"
)

// InputEvent is implemented by KeyEvent, MouseMoveEvent, MouseButtonEvent
// and ScrollEvent.
type InputEvent interface {
	// Channel reports the topic the event travels on.
	Channel() Channel
}

// KeyEvent is a key press. Code is either a literal character ("a") or a
// dotted symbolic name ("Key.space").
type KeyEvent struct {
	Code string
}

type MouseMoveEvent struct {
	X int
	Y int
}

type MouseButtonEvent struct {
	Button  Button
	Pressed bool
}

type ScrollEvent struct {
	Direction ScrollDirection
}

func (KeyEvent) Channel() Channel         { return ChannelKeyboard }
func (MouseMoveEvent) Channel() Channel   { return ChannelMouse }
func (MouseButtonEvent) Channel() Channel { return ChannelMouse }
func (ScrollEvent) Channel() Channel      { return ChannelMouse }
