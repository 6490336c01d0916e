//go:build !windows

package main

func enableVirtualTerminal() error { return nil }
