package h3cheats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Pattern is a byte signature, "8B 0D ?? ?? ?? ?? 85 C9".
type Pattern struct {
	data []int // -1 means wildcard
}

func (p Pattern) Length() int {
	return len(p.data)
}

func (p Pattern) String() string {
	s := ""
	for _, c := range p.data {
		if c == -1 {
			s += "?? "
		} else {
			s += fmt.Sprintf("%02X ", c)
		}
	}
	return strings.TrimSpace(s)
}

// Find returns the offset of the first match in buffer, or -1.
func (p Pattern) Find(buffer []byte) int {
	if len(p.data) == 0 {
		return -1
	}
	for i := 0; i+len(p.data) <= len(buffer); i++ {
		found := true
		for j, c := range p.data {
			if c != -1 && int(buffer[i+j]) != c {
				found = false
				break
			}
		}
		if found {
			return i
		}
	}
	return -1
}

func (p *Pattern) FromHexString(s string) error {
	p.data = []int{}
	for _, c := range strings.Fields(s) {
		if c == "?" || c == "??" {
			p.data = append(p.data, -1)
			continue
		}
		x, err := strconv.ParseUint(c, 16, 8)
		if err != nil {
			return fmt.Errorf("invalid pattern byte %q: %w", c, err)
		}
		p.data = append(p.data, int(x))
	}
	if len(p.data) == 0 {
		return errors.New("empty pattern")
	}
	return nil
}

func ParsePattern(src string) (Pattern, error) {
	p := Pattern{}
	err := p.FromHexString(src)
	return p, err
}

const scanChunk = 0x10000

// ScanModule returns the address of the first match of p inside mod.
// Chunks overlap by the pattern length so matches across chunk borders are
// not missed; unreadable chunks are skipped.
func ScanModule(m MemoryReader, mod Module, p Pattern) (uintptr, bool) {
	if p.Length() == 0 {
		return 0, false
	}
	Debugf("scan %s for %s", mod.Name, p)
	overlap := uintptr(p.Length() - 1)
	for ea := mod.BaseOfDll; ea < mod.End(); ea += scanChunk {
		size := uintptr(scanChunk) + overlap
		if ea+size > mod.End() {
			size = mod.End() - ea
		}
		buf, err := m.ReadMemory(ea, int(size))
		if err != nil {
			Debugf("scan %s: skip %x: %v", mod.Name, ea, err)
			continue
		}
		if i := p.Find(buf); i >= 0 {
			return ea + uintptr(i), true
		}
	}
	return 0, false
}
