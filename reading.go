package h3cheats

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// all targets are little-endian x86

func ReadS8(m MemoryReader, ea uintptr) (int8, error) {
	buf, err := m.ReadMemory(ea, 1)
	if err != nil {
		return 0, err
	}
	return int8(buf[0]), nil
}

func ReadS16(m MemoryReader, ea uintptr) (int16, error) {
	buf, err := m.ReadMemory(ea, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf)), nil
}

func ReadS32(m MemoryReader, ea uintptr) (int32, error) {
	v, err := ReadUInt32(m, ea)
	return int32(v), err
}

func ReadUInt32(m MemoryReader, ea uintptr) (uint32, error) {
	buf, err := m.ReadMemory(ea, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func ReadUInt64(m MemoryReader, ea uintptr) (uint64, error) {
	buf, err := m.ReadMemory(ea, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadPointer reads a ptrSize-wide (4 or 8) address.
func ReadPointer(m MemoryReader, ea uintptr, ptrSize int) (uintptr, error) {
	switch ptrSize {
	case 4:
		v, err := ReadUInt32(m, ea)
		return uintptr(v), err
	case 8:
		v, err := ReadUInt64(m, ea)
		return uintptr(v), err
	default:
		return 0, fmt.Errorf("unsupported pointer size: %d", ptrSize)
	}
}

const cstringChunk = 64

// ReadCString reads a NUL-terminated string of at most maxLen bytes.
// Reads are chunked so a string near the end of a mapping does not fail.
func ReadCString(m MemoryReader, ea uintptr, maxLen int) (string, error) {
	var out []byte
	for len(out) < maxLen {
		n := cstringChunk
		if rest := maxLen - len(out); rest < n {
			n = rest
		}
		buf, err := m.ReadMemory(ea+uintptr(len(out)), n)
		if err != nil {
			// retry byte by byte before giving up on a partially mapped chunk
			if n == 1 {
				if len(out) > 0 {
					return string(out), nil
				}
				return "", err
			}
			b, berr := ReadS8(m, ea+uintptr(len(out)))
			if berr != nil {
				if len(out) > 0 {
					return string(out), nil
				}
				return "", err
			}
			buf = []byte{byte(b)}
		}
		if i := bytes.IndexByte(buf, 0); i >= 0 {
			return string(append(out, buf[:i]...)), nil
		}
		out = append(out, buf...)
	}
	return string(out), nil
}
