package main

import (
	"golang.org/x/sys/windows"
)

// enableVirtualTerminal lets the Windows console interpret the ANSI
// sequences used by clear and player_loop.
func enableVirtualTerminal() error {
	var mode uint32
	if err := windows.GetConsoleMode(windows.Stdout, &mode); err != nil {
		return err
	}
	return windows.SetConsoleMode(windows.Stdout, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}
