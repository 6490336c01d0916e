package script

import (
	"fmt"
)

// Player exports of the default payload.
const (
	ExportPrintPlayer = "printplayer"
	ExportSetPlayer   = "setplayer"
)

// PlayerExports is the typed view of a payload's player API.
type PlayerExports struct {
	Script *Script
}

// PrintPlayer returns the payload's status text. ok is false when the
// payload returned nil, meaning it has nothing to show (no game loaded).
func (p PlayerExports) PrintPlayer() (text string, ok bool, err error) {
	v, err := p.Script.Call(ExportPrintPlayer)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return fmt.Sprint(v), true, nil
	}
	return s, true, nil
}

func (p PlayerExports) SetPlayer(name string, value int) error {
	_, err := p.Script.Call(ExportSetPlayer, name, value)
	return err
}
