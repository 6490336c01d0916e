//go:build !windows && !linux

package h3cheats

import (
	"errors"
	"runtime"
	"unsafe"
)

var errUnsupported = errors.New("process access is not supported on " + runtime.GOOS)

type osProcess struct{}

func ListProcesses() ([]ProcessEntry, error) {
	return nil, errUnsupported
}

func (o *osProcess) open(pid uint32) error { return errUnsupported }

func (o *osProcess) name(pid uint32) string { return "" }

func (o *osProcess) read(pid uint32, ea uintptr, buf []byte) (int, error) {
	return 0, errUnsupported
}

func (o *osProcess) write(pid uint32, ea uintptr, data []byte) (int, error) {
	return 0, errUnsupported
}

func (o *osProcess) modules(pid uint32) ([]Module, error) { return nil, errUnsupported }

func (o *osProcess) pointerSize(pid uint32) int { return int(unsafe.Sizeof(uintptr(0))) }

func (o *osProcess) close() error { return nil }
