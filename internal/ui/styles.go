// Package ui styles CLI output.
package ui

import "fmt"

// ANSI256 color codes.
const (
	colorAccent = 74  // blue
	colorOK     = 78  // green
	colorFail   = 167 // red
	colorMuted  = 245 // medium gray
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderStatus colors a health status: green for "ok" and "SERVING", red
// for anything else.
func RenderStatus(status string) string {
	switch status {
	case "ok", "SERVING":
		return paint(colorOK, status)
	default:
		return paint(colorFail, status)
	}
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// Setup disables color when stdout should not receive it.
func Setup() {
	if !ShouldUseColor() {
		ForceNoColor()
	}
}
