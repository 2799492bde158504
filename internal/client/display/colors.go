package display

import (
	"os"

	"golang.org/x/term"
)

// Terminal color codes; empty when colors are disabled
var (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	RedBg   = "\033[41m"
)

// SetColorEnabled switches ANSI color output on or off
func SetColorEnabled(enabled bool) {
	if enabled {
		Reset, Red, Green, Yellow = "\033[0m", "\033[31m", "\033[32m", "\033[33m"
		Blue, Magenta, Cyan, White = "\033[34m", "\033[35m", "\033[36m", "\033[37m"
		RedBg = "\033[41m"
		return
	}
	Reset, Red, Green, Yellow = "", "", "", ""
	Blue, Magenta, Cyan, White = "", "", "", ""
	RedBg = ""
}

// InitColors enables colors only when stdout is a terminal and noColor is unset
func InitColors(noColor bool) {
	SetColorEnabled(!noColor && term.IsTerminal(int(os.Stdout.Fd())))
}

// Prompt returns a colored prompt string
func Prompt(text string) string {
	return Yellow + text + Yellow + " > " + Reset
}
