package codec

import (
	"fmt"

	t "mqttdesk/internal/types"
)

// EncodeFrame returns the screen payload for f: its raw pixel bytes.
func EncodeFrame(f *t.Frame) ([]byte, error) {
	if want := f.Width * f.Height * t.FrameChannels; f.Channels != t.FrameChannels || len(f.Pixels) != want {
		return nil, fmt.Errorf("%w: %dx%dx%d frame holds %d bytes", ErrFrameSize, f.Width, f.Height, f.Channels, len(f.Pixels))
	}
	return f.Pixels, nil
}

// DecodeFrame reinterprets payload as a width x height frame with four
// channels. The returned frame aliases payload.
func DecodeFrame(payload []byte, width, height int) (*t.Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d", ErrFrameSize, width, height)
	}
	if want := width * height * t.FrameChannels; len(payload) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(payload), want)
	}
	return &t.Frame{Width: width, Height: height, Channels: t.FrameChannels, Pixels: payload}, nil
}
