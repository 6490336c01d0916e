package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/zed-0xff/h3cheats"
)

const defaultCStringMax = 256

// registerHost installs the globals a payload can use:
//
//	Module.findBaseAddress(name) / Module.size(name)
//	Module.find(name) / Module.findByAddress(addr)
//	Memory.readS8/readS16/readS32/readU32/readPointer(addr)
//	Memory.readCString(addr [, max])
//	Memory.writeS16/writeS32/writeU32/writePointer(addr, value)
//	Memory.scan(module, "8B 0D ?? ??") / Memory.hexdump(addr, size)
//	console.log(...) / console.error(...) / send(payload)
//	rpc.exports
func (s *Script) registerHost(l *lua.State) {
	lua.NewLibrary(l, []lua.RegistryFunction{
		{Name: "findBaseAddress", Function: s.moduleBase},
		{Name: "size", Function: s.moduleSize},
		{Name: "find", Function: s.moduleFind},
		{Name: "findByAddress", Function: s.moduleByAddress},
	})
	l.SetGlobal("Module")

	lua.NewLibrary(l, []lua.RegistryFunction{
		{Name: "readS8", Function: s.readS8},
		{Name: "readS16", Function: s.readS16},
		{Name: "readS32", Function: s.readS32},
		{Name: "readU32", Function: s.readU32},
		{Name: "readPointer", Function: s.readPointer},
		{Name: "readCString", Function: s.readCString},
		{Name: "writeS16", Function: s.writeS16},
		{Name: "writeS32", Function: s.writeS32},
		{Name: "writeU32", Function: s.writeU32},
		{Name: "writePointer", Function: s.writePointer},
		{Name: "scan", Function: s.scan},
		{Name: "hexdump", Function: s.hexdump},
	})
	l.SetGlobal("Memory")

	lua.NewLibrary(l, []lua.RegistryFunction{
		{Name: "log", Function: s.logger("log")},
		{Name: "error", Function: s.logger("error")},
	})
	l.SetGlobal("console")

	l.Register("send", s.send)

	l.NewTable()
	l.NewTable()
	l.SetField(-2, "exports")
	l.SetGlobal("rpc")
}

func checkAddress(l *lua.State, arg int) uintptr {
	n := lua.CheckNumber(l, arg)
	if n < 0 {
		lua.ArgumentError(l, arg, "negative address")
	}
	return uintptr(n)
}

// raise turns a Go error into a Lua error that the payload can pcall.
func raise(l *lua.State, op string, ea uintptr, err error) int {
	msg := fmt.Sprintf("%s at 0x%x: %v", op, uint64(ea), err)
	lua.Errorf(l, "%s", msg)
	return 0
}

func (s *Script) moduleBase(l *lua.State) int {
	m, err := s.target.FindModule(lua.CheckString(l, 1))
	if err != nil {
		if !errors.Is(err, h3cheats.ErrModuleNotFound) {
			h3cheats.Debugf("findBaseAddress: %v", err)
		}
		l.PushNil()
		return 1
	}
	l.PushNumber(float64(m.BaseOfDll))
	return 1
}

func (s *Script) moduleSize(l *lua.State) int {
	m, err := s.target.FindModule(lua.CheckString(l, 1))
	if err != nil {
		l.PushNil()
		return 1
	}
	l.PushNumber(float64(m.SizeOfImage))
	return 1
}

// pushModule pushes {name, path, base, size, entryPoint}.
func pushModule(l *lua.State, m *h3cheats.Module) {
	l.NewTable()
	l.PushString(m.Name)
	l.SetField(-2, "name")
	l.PushString(m.Path)
	l.SetField(-2, "path")
	l.PushNumber(float64(m.BaseOfDll))
	l.SetField(-2, "base")
	l.PushNumber(float64(m.SizeOfImage))
	l.SetField(-2, "size")
	l.PushNumber(float64(m.EntryPoint))
	l.SetField(-2, "entryPoint")
}

func (s *Script) moduleFind(l *lua.State) int {
	m, err := s.target.FindModule(lua.CheckString(l, 1))
	if err != nil {
		l.PushNil()
		return 1
	}
	pushModule(l, m)
	return 1
}

func (s *Script) moduleByAddress(l *lua.State) int {
	m, err := s.target.ModuleAt(checkAddress(l, 1))
	if err != nil {
		l.PushNil()
		return 1
	}
	pushModule(l, m)
	return 1
}

func (s *Script) readS8(l *lua.State) int {
	ea := checkAddress(l, 1)
	v, err := h3cheats.ReadS8(s.target, ea)
	if err != nil {
		return raise(l, "readS8", ea, err)
	}
	l.PushInteger(int(v))
	return 1
}

func (s *Script) readS16(l *lua.State) int {
	ea := checkAddress(l, 1)
	v, err := h3cheats.ReadS16(s.target, ea)
	if err != nil {
		return raise(l, "readS16", ea, err)
	}
	l.PushInteger(int(v))
	return 1
}

func (s *Script) readS32(l *lua.State) int {
	ea := checkAddress(l, 1)
	v, err := h3cheats.ReadS32(s.target, ea)
	if err != nil {
		return raise(l, "readS32", ea, err)
	}
	l.PushInteger(int(v))
	return 1
}

func (s *Script) readU32(l *lua.State) int {
	ea := checkAddress(l, 1)
	v, err := h3cheats.ReadUInt32(s.target, ea)
	if err != nil {
		return raise(l, "readU32", ea, err)
	}
	l.PushNumber(float64(v))
	return 1
}

func (s *Script) readPointer(l *lua.State) int {
	ea := checkAddress(l, 1)
	v, err := h3cheats.ReadPointer(s.target, ea, s.target.PointerSize())
	if err != nil {
		return raise(l, "readPointer", ea, err)
	}
	l.PushNumber(float64(v))
	return 1
}

func (s *Script) readCString(l *lua.State) int {
	ea := checkAddress(l, 1)
	maxLen := lua.OptInteger(l, 2, defaultCStringMax)
	v, err := h3cheats.ReadCString(s.target, ea, maxLen)
	if err != nil {
		return raise(l, "readCString", ea, err)
	}
	l.PushString(v)
	return 1
}

func (s *Script) writeS16(l *lua.State) int {
	ea := checkAddress(l, 1)
	if err := h3cheats.WriteS16(s.target, ea, int16(lua.CheckInteger(l, 2))); err != nil {
		return raise(l, "writeS16", ea, err)
	}
	return 0
}

func (s *Script) writeS32(l *lua.State) int {
	ea := checkAddress(l, 1)
	if err := h3cheats.WriteS32(s.target, ea, int32(lua.CheckInteger(l, 2))); err != nil {
		return raise(l, "writeS32", ea, err)
	}
	return 0
}

func (s *Script) writeU32(l *lua.State) int {
	ea := checkAddress(l, 1)
	if err := h3cheats.WriteUInt32(s.target, ea, uint32(lua.CheckNumber(l, 2))); err != nil {
		return raise(l, "writeU32", ea, err)
	}
	return 0
}

func (s *Script) writePointer(l *lua.State) int {
	ea := checkAddress(l, 1)
	if err := h3cheats.WritePointer(s.target, ea, s.target.PointerSize(), checkAddress(l, 2)); err != nil {
		return raise(l, "writePointer", ea, err)
	}
	return 0
}

func (s *Script) scan(l *lua.State) int {
	name := lua.CheckString(l, 1)
	pattern, err := h3cheats.ParsePattern(lua.CheckString(l, 2))
	if err != nil {
		lua.ArgumentError(l, 2, err.Error())
		return 0
	}
	m, err := s.target.FindModule(name)
	if err != nil {
		l.PushNil()
		return 1
	}
	ea, ok := h3cheats.ScanModule(s.target, *m, pattern)
	if !ok {
		l.PushNil()
		return 1
	}
	l.PushNumber(float64(ea))
	return 1
}

func (s *Script) hexdump(l *lua.State) int {
	ea := checkAddress(l, 1)
	size := lua.OptInteger(l, 2, 0x100)
	buf, err := s.target.ReadMemory(ea, size)
	if err != nil {
		return raise(l, "hexdump", ea, err)
	}
	var out strings.Builder
	h3cheats.HexDump(&out, buf, ea)
	l.PushString(out.String())
	return 1
}

func (s *Script) logger(kind string) lua.Function {
	return func(l *lua.State) int {
		n := l.Top()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, toDisplayString(l, i))
		}
		s.post(Message{Type: kind, Payload: strings.Join(parts, " ")})
		return 0
	}
}

func (s *Script) send(l *lua.State) int {
	lua.CheckAny(l, 1)
	s.post(Message{Type: "send", Payload: luaToGo(l, 1)})
	return 0
}
