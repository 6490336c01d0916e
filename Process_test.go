package h3cheats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePidOrExeNumeric(t *testing.T) {
	pid, err := ParsePidOrExe("4242")
	assert.NoError(t, err)
	assert.Equal(t, uint32(4242), pid)

	_, err = ParsePidOrExe("0")
	assert.Error(t, err)

	_, err = ParsePidOrExe("99999999999")
	assert.Error(t, err)

	_, err = ParsePidOrExe("")
	assert.True(t, errors.Is(err, ErrProcessNotFound))
}

func TestMatchProcessIgnoresCase(t *testing.T) {
	entries := []ProcessEntry{
		{Pid: 1, Name: "init"},
		{Pid: 300, Name: "Heroes3.exe"},
		{Pid: 301, Name: "HEROES3.EXE"},
	}

	pid, ok := matchProcess(entries, "HEROES3.EXE")
	assert.True(t, ok)
	assert.Equal(t, uint32(300), pid, "first match wins")

	_, ok = matchProcess(entries, "HEROES3")
	assert.False(t, ok)
}

func TestFindModule(t *testing.T) {
	modules := []Module{
		{Name: "ntdll.dll", BaseOfDll: 0x77000000, SizeOfImage: 0x1000},
		{Name: "HEROES3.EXE", BaseOfDll: 0x400000, SizeOfImage: 0x2000},
	}

	m, err := findModule(modules, "heroes3.exe")
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x400000), m.BaseOfDll)
	assert.True(t, m.Contains(0x401fff))
	assert.False(t, m.Contains(0x402000))

	_, err = findModule(modules, "kernel32.dll")
	assert.True(t, errors.Is(err, ErrModuleNotFound))
}

func TestModuleAt(t *testing.T) {
	modules := []Module{
		{Name: "ntdll.dll", BaseOfDll: 0x77000000, SizeOfImage: 0x1000},
		{Name: "HEROES3.EXE", BaseOfDll: 0x400000, SizeOfImage: 0x2000},
	}

	m, ok := moduleAt(modules, 0x77000fff)
	require.True(t, ok)
	assert.Equal(t, "ntdll.dll", m.Name)

	m, ok = moduleAt(modules, 0x400000)
	require.True(t, ok)
	assert.Equal(t, "HEROES3.EXE", m.Name)

	_, ok = moduleAt(modules, 0x402000)
	assert.False(t, ok)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "HEROES3.EXE", baseName(`C:\GOG Games\HoMM 3 Complete\HEROES3.EXE`))
	assert.Equal(t, "wine64", baseName("/usr/bin/wine64"))
	assert.Equal(t, "HEROES3.EXE", baseName("HEROES3.EXE"))
}

func TestDetachedProcess(t *testing.T) {
	p := &Process{Pid: 1, detached: true}

	_, err := p.ReadMemory(0x1000, 4)
	assert.True(t, errors.Is(err, ErrDetached))
	assert.True(t, errors.Is(p.WriteMemory(0x1000, []byte{1}), ErrDetached))
	_, err = p.Modules()
	assert.True(t, errors.Is(err, ErrDetached))
	_, err = p.ModuleAt(0x400000)
	assert.True(t, errors.Is(err, ErrDetached))
	assert.NoError(t, p.Detach(), "detach is idempotent")
}

func TestReadMemoryRejectsEmptySize(t *testing.T) {
	p := &Process{Pid: 1}
	_, err := p.ReadMemory(0x1000, 0)
	assert.Error(t, err)
}
