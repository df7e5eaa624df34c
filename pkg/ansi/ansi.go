// Package ansi emits the handful of terminal escape sequences the CLI uses.
package ansi

import "fmt"

const (
	Reset = "\x1b[0m"
	Bold  = "\x1b[1m"
	Dim   = "\x1b[2m"
)

// Foreground selects a 24-bit text color.
func Foreground(r, g, b uint8) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

// Background selects a 24-bit background color.
func Background(r, g, b uint8) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

// Wrap surrounds s with the given codes and a reset. An empty code list
// returns s unchanged.
func Wrap(s string, codes ...string) string {
	if len(codes) == 0 || s == "" {
		return s
	}
	n := len(s) + len(Reset)
	for _, c := range codes {
		n += len(c)
	}
	buf := make([]byte, 0, n)
	for _, c := range codes {
		buf = append(buf, c...)
	}
	buf = append(buf, s...)
	buf = append(buf, Reset...)
	return string(buf)
}
