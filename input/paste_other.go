//go:build !darwin

package input

const pasteModifier = "ctrl"
