//go:build cgo

package input

import "github.com/go-vgo/robotgo"

func keyTap(key string, modifiers ...string) error {
	if len(modifiers) == 0 {
		return robotgo.KeyTap(key)
	}
	return robotgo.KeyTap(key, modifiers)
}

func writeClipboard(text string) error { return robotgo.WriteAll(text) }

func moveMouse(x, y int) { robotgo.Move(x, y) }

func toggleButton(button string, pressed bool) error {
	dir := "up"
	if pressed {
		dir = "down"
	}
	return robotgo.Toggle(button, dir)
}

func scroll(amount int) { robotgo.Scroll(0, amount) }
