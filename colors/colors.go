// Package colors renders text in named terminal colors.
package colors

import (
	"strings"

	"github.com/fatih/color"
)

var foreground = map[string]color.Attribute{
	"black":        color.FgBlack,
	"red":          color.FgRed,
	"green":        color.FgGreen,
	"yellow":       color.FgYellow,
	"blue":         color.FgBlue,
	"magenta":      color.FgMagenta,
	"purple":       color.FgMagenta,
	"cyan":         color.FgCyan,
	"white":        color.FgWhite,
	"dark_gray":    color.FgHiBlack,
	"light_red":    color.FgHiRed,
	"light_green":  color.FgHiGreen,
	"light_yellow": color.FgHiYellow,
	"light_blue":   color.FgHiBlue,
	"light_purple": color.FgHiMagenta,
	"light_cyan":   color.FgHiCyan,
	"light_gray":   color.FgHiWhite,
}

// Colorize wraps text in the escape sequence for the named color. An empty or
// unknown name returns text unchanged, as does a terminal without color
// support unless colors were forced with SetEnabled.
func Colorize(text, name string) string {
	attr, ok := foreground[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return text
	}
	return color.New(attr).Sprint(text)
}

// SetEnabled forces colors on or off regardless of the terminal.
func SetEnabled(enabled bool) {
	color.NoColor = !enabled
}

// Enabled reports whether Colorize emits escape sequences.
func Enabled() bool {
	return !color.NoColor
}

// Known reports whether name is a supported color.
func Known(name string) bool {
	_, ok := foreground[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
