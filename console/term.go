package console

import (
	"os"

	"golang.org/x/term"
)

const fallbackHeight = 24

func terminalHeight() int {
	_, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || height <= 0 {
		return fallbackHeight
	}
	return height
}
