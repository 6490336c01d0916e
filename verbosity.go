package h3cheats

import (
	"fmt"
	"io"
	"os"
)

// Verbosity < 0 silences info lines, > 0 enables debug lines.
var Verbosity = 0

var LogOutput io.Writer = os.Stderr

func Debugf(format string, args ...any) {
	if Verbosity > 0 {
		fmt.Fprintf(LogOutput, "[d] "+format+"\n", args...)
	}
}

func Infof(format string, args ...any) {
	if Verbosity >= 0 {
		fmt.Fprintf(LogOutput, "[.] "+format+"\n", args...)
	}
}

func Warnf(format string, args ...any) {
	fmt.Fprintf(LogOutput, "[!] "+format+"\n", args...)
}
