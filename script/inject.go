package script

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed payload/heroes3.lua
var DefaultPayload string

const DefaultPayloadName = "heroes3.lua"

// ReadPayload returns the payload at path, or the embedded HEROES3.EXE
// payload when path is empty.
func ReadPayload(path string) (name, source string, err error) {
	if path == "" {
		return DefaultPayloadName, DefaultPayload, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read payload: %w", err)
	}
	return filepath.Base(path), string(data), nil
}

// Inject loads source into target, wiring handler before the payload's
// top-level code runs so that load-time messages are not lost.
func Inject(target Target, name, source string, handler MessageHandler) (*Script, error) {
	s := New(target, name, source)
	if handler != nil {
		s.On(handler)
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}
