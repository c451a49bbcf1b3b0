package input

const pasteModifier = "cmd"
