// Package display is the controller's window: it shows the latest remote
// frame and turns local keyboard and mouse activity into controller calls.
package display

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"mqttdesk/internal/agent"
	"mqttdesk/internal/keymap"
	t "mqttdesk/internal/types"
)

// Controller is what the window drives.
type Controller interface {
	Render(d agent.Display) bool
	OnKey(code string)
	OnMove(x, y int)
	OnClick(b t.Button, pressed bool)
	OnScroll(dy float64)
}

// specialKeys are sent as "Key.<name>". Printable keys travel as the
// characters they produce instead.
var specialKeys = map[ebiten.Key]string{
	ebiten.KeyEnter:       "enter",
	ebiten.KeyNumpadEnter: "enter",
	ebiten.KeySpace:       "space",
	ebiten.KeyTab:         "tab",
	ebiten.KeyBackspace:   "backspace",
	ebiten.KeyDelete:      "delete",
	ebiten.KeyEscape:      "esc",
	ebiten.KeyArrowUp:     "up",
	ebiten.KeyArrowDown:   "down",
	ebiten.KeyArrowLeft:   "left",
	ebiten.KeyArrowRight:  "right",
	ebiten.KeyHome:        "home",
	ebiten.KeyEnd:         "end",
	ebiten.KeyPageUp:      "page_up",
	ebiten.KeyPageDown:    "page_down",
	ebiten.KeyInsert:      "insert",
	ebiten.KeyCapsLock:    "caps_lock",
	ebiten.KeyPrintScreen: "print_screen",
	ebiten.KeyF1:          "f1",
	ebiten.KeyF2:          "f2",
	ebiten.KeyF3:          "f3",
	ebiten.KeyF4:          "f4",
	ebiten.KeyF5:          "f5",
	ebiten.KeyF6:          "f6",
	ebiten.KeyF7:          "f7",
	ebiten.KeyF8:          "f8",
	ebiten.KeyF9:          "f9",
	ebiten.KeyF10:         "f10",
	ebiten.KeyF11:         "f11",
	ebiten.KeyF12:         "f12",
}

var buttons = []struct {
	eb  ebiten.MouseButton
	btn t.Button
}{
	{ebiten.MouseButtonLeft, t.ButtonLeft},
	{ebiten.MouseButtonRight, t.ButtonRight},
	{ebiten.MouseButtonMiddle, t.ButtonMiddle},
}

// Game implements ebiten.Game.
type Game struct {
	ctx           context.Context
	ctrl          Controller
	width, height int

	img    *ebiten.Image
	target *ebiten.Image

	keys         []ebiten.Key
	chars        []rune
	lastX, lastY int
}

func NewGame(ctx context.Context, ctrl Controller, width, height int) *Game {
	return &Game{ctx: ctx, ctrl: ctrl, width: width, height: height, lastX: -1, lastY: -1}
}

// Update forwards input gathered since the previous tick.
func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		if name, ok := specialKeys[k]; ok {
			g.ctrl.OnKey(keymap.Named(name))
		}
	}
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		if r == ' ' {
			continue
		}
		g.ctrl.OnKey(string(r))
	}

	if x, y := ebiten.CursorPosition(); x != g.lastX || y != g.lastY {
		g.lastX, g.lastY = x, y
		g.ctrl.OnMove(x, y)
	}
	for _, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			g.ctrl.OnClick(b.btn, true)
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			g.ctrl.OnClick(b.btn, false)
		}
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.ctrl.OnScroll(dy)
	}
	return nil
}

// Draw paints the latest frame, if any.
func (g *Game) Draw(screen *ebiten.Image) {
	g.target = screen
	g.ctrl.Render(g)
	g.target = nil
}

// Render implements agent.Display.
func (g *Game) Render(f *t.Frame) {
	if g.target == nil || f.Width != g.width || f.Height != g.height {
		return
	}
	if g.img == nil {
		g.img = ebiten.NewImage(g.width, g.height)
	}
	g.img.WritePixels(f.Pixels)
	g.target.DrawImage(g.img, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, ctrl Controller, width, height int, title string) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	err := ebiten.RunGame(NewGame(ctx, ctrl, width, height))
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
