//go:build !windows

package main

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// stdoutWinsize asks the kernel for stdout's window size; it fails when
// stdout is not a terminal.
func stdoutWinsize() (*unix.Winsize, bool) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	return ws, err == nil && ws != nil
}

func stdoutIsTerminal() bool {
	_, ok := stdoutWinsize()
	return ok
}

func detectTerminalWidth() int {
	if ws, ok := stdoutWinsize(); ok && ws.Col > 0 {
		return int(ws.Col)
	}
	return columnsEnv()
}

func columnsEnv() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 0
}
