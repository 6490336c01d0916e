package h3cheats

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemory struct {
	bytes map[uintptr]byte
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{bytes: map[uintptr]byte{}}
}

func (m *fakeMemory) ReadMemory(ea uintptr, size int) ([]byte, error) {
	buf := make([]byte, size)
	for i := range buf {
		b, ok := m.bytes[ea+uintptr(i)]
		if !ok {
			return nil, fmt.Errorf("unmapped address %x", ea+uintptr(i))
		}
		buf[i] = b
	}
	return buf, nil
}

func (m *fakeMemory) WriteMemory(ea uintptr, data []byte) error {
	for i, b := range data {
		m.bytes[ea+uintptr(i)] = b
	}
	return nil
}

func TestReadWriteIntegers(t *testing.T) {
	m := newFakeMemory()

	require.NoError(t, WriteS32(m, 0x1000, -5))
	require.NoError(t, WriteS16(m, 0x1010, -2))
	require.NoError(t, WriteUInt64(m, 0x1020, 0x1122334455667788))

	s32, err := ReadS32(m, 0x1000)
	assert.NoError(t, err)
	assert.Equal(t, int32(-5), s32)

	u32, err := ReadUInt32(m, 0x1000)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0xfffffffb), u32)

	s16, err := ReadS16(m, 0x1010)
	assert.NoError(t, err)
	assert.Equal(t, int16(-2), s16)

	s8, err := ReadS8(m, 0x1000)
	assert.NoError(t, err)
	assert.Equal(t, int8(-5), s8)

	assert.Equal(t, byte(0x88), m.bytes[0x1020], "little endian")
}

func TestReadPointer(t *testing.T) {
	m := newFakeMemory()
	require.NoError(t, WriteUInt64(m, 0x2000, 0xdeadbeefcafe))

	p32, err := ReadPointer(m, 0x2000, 4)
	assert.NoError(t, err)
	assert.Equal(t, uintptr(0xbeefcafe), p32)

	p64, err := ReadPointer(m, 0x2000, 8)
	assert.NoError(t, err)
	assert.Equal(t, uintptr(0xdeadbeefcafe), p64)

	_, err = ReadPointer(m, 0x2000, 3)
	assert.Error(t, err)
}

func TestWritePointer(t *testing.T) {
	m := newFakeMemory()

	require.NoError(t, WritePointer(m, 0x3000, 8, 0x1122334455))
	p64, err := ReadUInt64(m, 0x3000)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x1122334455), p64)

	require.NoError(t, WritePointer(m, 0x3000, 4, 0xcafe))
	p64, err = ReadUInt64(m, 0x3000)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x11000000cafe), p64, "only the low dword is replaced")

	assert.Error(t, WritePointer(m, 0x3000, 2, 1))
}

func TestReadUnmapped(t *testing.T) {
	_, err := ReadS32(newFakeMemory(), 0x10)
	assert.Error(t, err)
}

var cstringTests = []struct {
	data   string
	maxLen int
	want   string
}{
	{data: "Orrin\x00junk", maxLen: 13, want: "Orrin"},
	{data: "\x00", maxLen: 13, want: ""},
	{data: "Christian\x00", maxLen: 4, want: "Chri"},
	{data: "Unterminated", maxLen: 100, want: "Unterminated"},
	{data: string(bytes.Repeat([]byte{'x'}, 100)) + "\x00", maxLen: 200, want: string(bytes.Repeat([]byte{'x'}, 100))},
}

func TestReadCString(t *testing.T) {
	for i, test := range cstringTests {
		m := newFakeMemory()
		require.NoError(t, m.WriteMemory(0x3000, []byte(test.data)))

		got, err := ReadCString(m, 0x3000, test.maxLen)
		assert.NoError(t, err, "test #%d", i)
		assert.Equal(t, test.want, got, "test #%d", i)
	}
}

func TestReadCStringUnmappedStart(t *testing.T) {
	_, err := ReadCString(newFakeMemory(), 0x3000, 16)
	assert.Error(t, err)
}
