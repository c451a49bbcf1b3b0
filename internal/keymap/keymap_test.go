package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamed(t *testing.T) {
	assert.Equal(t, "Key.space", Named("space"))
	assert.Equal(t, "Key.page_up", Named("page_up"))
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"space":     "space",
		"Enter":     "enter",
		"esc":       "esc",
		"Escape":    "esc",
		"page_up":   "pageup",
		"page_down": "pagedown",
		"ctrl_l":    "ctrl",
		"shift_r":   "shift",
		"cmd_r":     "cmd",
		"caps_lock": "capslock",
		"ArrowUp":   "up",
		"f5":        "f5",
		"F12":       "f12",
		"media_x":   "media_x",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}
