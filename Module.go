package h3cheats

import (
	"fmt"
	"strings"
)

type Module struct {
	BaseOfDll   uintptr // Base address of the module
	SizeOfImage uint32  // Size of the module, in bytes
	EntryPoint  uintptr // Entry point of the module, 0 if unknown

	Name string // Base name of the module file
	Path string
}

func (m Module) End() uintptr {
	return m.BaseOfDll + uintptr(m.SizeOfImage)
}

func (m Module) Contains(ea uintptr) bool {
	return ea >= m.BaseOfDll && ea < m.End()
}

// moduleAt returns the module whose image contains ea.
func moduleAt(modules []Module, ea uintptr) (*Module, bool) {
	for i := range modules {
		if modules[i].Contains(ea) {
			return &modules[i], true
		}
	}
	return nil, false
}

func findModule(modules []Module, name string) (*Module, error) {
	for i := range modules {
		if strings.EqualFold(modules[i].Name, name) {
			return &modules[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
}

// baseName strips both slash and backslash separated directories, so Wine
// paths like C:\Games\HEROES3.EXE resolve on any host.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
