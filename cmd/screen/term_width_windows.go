//go:build windows

package main

import (
	"os"
	"strconv"
)

// Windows consoles are assumed to handle ANSI colors.
func stdoutIsTerminal() bool { return true }

func detectTerminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 0
}
