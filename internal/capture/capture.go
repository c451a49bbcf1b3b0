package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	t "mqttdesk/internal/types"
)

type Options struct {
	Top, Left, Width, Height int
}

// Screen grabs a fixed rectangle of the desktop.
type Screen struct {
	rect image.Rectangle
}

func NewScreen(opts Options) *Screen {
	return &Screen{rect: image.Rect(opts.Left, opts.Top, opts.Left+opts.Width, opts.Top+opts.Height)}
}

// Capture grabs the configured rectangle. It returns a nil frame when no
// display is active.
func (s *Screen) Capture() (*t.Frame, error) {
	if screenshot.NumActiveDisplays() <= 0 {
		return nil, nil
	}
	img, err := screenshot.CaptureRect(s.rect)
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", s.rect, err)
	}
	return FrameFromRGBA(img), nil
}

// FrameFromRGBA packs img into a frame with no row padding.
func FrameFromRGBA(img *image.RGBA) *t.Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rowLen := w * t.FrameChannels
	pix := make([]byte, rowLen*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(pix[y*rowLen:(y+1)*rowLen], img.Pix[off:off+rowLen])
	}
	return &t.Frame{Width: w, Height: h, Channels: t.FrameChannels, Pixels: pix}
}
