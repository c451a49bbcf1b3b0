//go:build !cgo

package input

// Pure-Go no-op shims when building without cgo.

func keyTap(key string, modifiers ...string) error { return nil }

func writeClipboard(text string) error { return nil }

func moveMouse(x, y int) {}

func toggleButton(button string, pressed bool) error { return nil }

func scroll(amount int) {}
