// Package keymap translates key names between the wire form ("Key.<name>")
// and the names the injection backend understands.
package keymap

import "strings"

// NamedPrefix marks a symbolic key code on the keyboard topic.
const NamedPrefix = "Key."

// Named returns the wire code for a special key, e.g. "Key.space".
func Named(name string) string { return NamedPrefix + name }

// aliases maps wire names (and browser-style names) to injection names.
var aliases = map[string]string{
	"enter":        "enter",
	"return":       "enter",
	"space":        "space",
	" ":            "space",
	"tab":          "tab",
	"backspace":    "backspace",
	"delete":       "delete",
	"esc":          "esc",
	"escape":       "esc",
	"up":           "up",
	"down":         "down",
	"left":         "left",
	"right":        "right",
	"arrowup":      "up",
	"arrowdown":    "down",
	"arrowleft":    "left",
	"arrowright":   "right",
	"home":         "home",
	"end":          "end",
	"page_up":      "pageup",
	"page_down":    "pagedown",
	"pageup":       "pageup",
	"pagedown":     "pagedown",
	"insert":       "insert",
	"caps_lock":    "capslock",
	"print_screen": "printscreen",
	"shift":        "shift",
	"ctrl":         "ctrl",
	"control":      "ctrl",
	"alt":          "alt",
	"option":       "alt",
	"alt_gr":       "ralt",
	"cmd":          "cmd",
	"meta":         "cmd",
	"command":      "cmd",
	"menu":         "menu",
}

// Normalize maps a wire key name to the injection backend's name. Left and
// right variants of modifiers ("ctrl_l", "shift_r") collapse to the base
// key. Unknown names are returned lower-cased so the backend can try them.
func Normalize(name string) string {
	k := strings.ToLower(name)
	if v, ok := aliases[k]; ok {
		return v
	}
	if base, ok := strings.CutSuffix(k, "_l"); ok {
		k = base
	} else if base, ok := strings.CutSuffix(k, "_r"); ok {
		k = base
	}
	if v, ok := aliases[k]; ok {
		return v
	}
	return k
}
