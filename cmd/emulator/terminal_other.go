//go:build !windows

// cmd/emulator/terminal_other.go
package main

func enableTerminalStatus() {}
