package h3cheats

import (
	"encoding/binary"
	"fmt"
)

func WriteS16(m MemoryWriter, ea uintptr, value int16) error {
	buffer := make([]byte, 2)
	binary.LittleEndian.PutUint16(buffer, uint16(value))
	return m.WriteMemory(ea, buffer)
}

func WriteS32(m MemoryWriter, ea uintptr, value int32) error {
	return WriteUInt32(m, ea, uint32(value))
}

func WriteUInt32(m MemoryWriter, ea uintptr, value uint32) error {
	buffer := make([]byte, 4)
	binary.LittleEndian.PutUint32(buffer, value)
	return m.WriteMemory(ea, buffer)
}

func WriteUInt64(m MemoryWriter, ea uintptr, value uint64) error {
	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, value)
	return m.WriteMemory(ea, buffer)
}

// WritePointer stores a ptrSize-wide (4 or 8) address.
func WritePointer(m MemoryWriter, ea uintptr, ptrSize int, value uintptr) error {
	switch ptrSize {
	case 4:
		return WriteUInt32(m, ea, uint32(value))
	case 8:
		return WriteUInt64(m, ea, uint64(value))
	default:
		return fmt.Errorf("unsupported pointer size: %d", ptrSize)
	}
}
