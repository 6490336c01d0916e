package h3cheats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var findTests = []struct {
	pattern string
	buffer  []byte
	want    int
}{
	{pattern: "01 02", buffer: []byte{0, 1, 2, 3}, want: 1},
	{pattern: "01 ?? 03", buffer: []byte{0, 1, 2, 3}, want: 1},
	{pattern: "? 03", buffer: []byte{0, 1, 2, 3}, want: 2},
	{pattern: "03 04", buffer: []byte{0, 1, 2, 3}, want: -1},
	{pattern: "ff", buffer: nil, want: -1},
}

func TestPatternFind(t *testing.T) {
	for i, test := range findTests {
		p, err := ParsePattern(test.pattern)
		require.NoError(t, err, "test #%d", i)
		assert.Equal(t, test.want, p.Find(test.buffer), "test #%d", i)
	}
}

func TestParsePatternErrors(t *testing.T) {
	_, err := ParsePattern("")
	assert.Error(t, err)

	_, err = ParsePattern("0G")
	assert.Error(t, err)

	p, err := ParsePattern("8b 0d ?? ??")
	assert.NoError(t, err)
	assert.Equal(t, "8B 0D ?? ??", p.String())
	assert.Equal(t, 4, p.Length())
}

func TestScanModule(t *testing.T) {
	m := newFakeMemory()
	mod := Module{Name: "HEROES3.EXE", BaseOfDll: 0x400000, SizeOfImage: scanChunk + 0x100}
	require.NoError(t, m.WriteMemory(mod.BaseOfDll, make([]byte, mod.SizeOfImage)))

	// straddles the first chunk boundary
	sig := []byte{0x8b, 0x0d, 0x44, 0x33, 0x22, 0x11}
	at := mod.BaseOfDll + scanChunk - 2
	require.NoError(t, m.WriteMemory(at, sig))

	p, err := ParsePattern("8B 0D ?? ?? ?? 11")
	require.NoError(t, err)

	ea, ok := ScanModule(m, mod, p)
	assert.True(t, ok)
	assert.Equal(t, at, ea)

	missing, err := ParsePattern("DE AD BE EF")
	require.NoError(t, err)
	_, ok = ScanModule(m, mod, missing)
	assert.False(t, ok)
}

func TestHexDump(t *testing.T) {
	var out bytes.Buffer
	HexDump(&out, []byte("Heroes III\x00\x01"), 0x400000)
	assert.Equal(t,
		"00400000: 48 65 72 6f 65 73 20 49  49 49 00 01              |Heroes III      |\n",
		out.String())
}
