package h3cheats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const Version = "1.0"

var (
	ErrProcessNotFound = errors.New("process not found")
	ErrModuleNotFound  = errors.New("module not found")
	ErrDetached        = errors.New("process detached")
)

// MemoryReader reads raw bytes from a target address space.
type MemoryReader interface {
	ReadMemory(ea uintptr, size int) ([]byte, error)
}

// MemoryWriter writes raw bytes into a target address space.
type MemoryWriter interface {
	WriteMemory(ea uintptr, data []byte) error
}

type MemoryReadWriter interface {
	MemoryReader
	MemoryWriter
}

type ProcessEntry struct {
	Pid  uint32
	Name string
}

// Process is an attachment to a running process.
// All memory access goes through the platform backend (see process_*.go).
type Process struct {
	Pid  uint32
	Name string

	// PtrSize overrides the detected pointer size when non-zero.
	PtrSize int

	mu       sync.Mutex
	os       osProcess
	detached bool
}

// FindProcess returns the pid of the first process whose executable name
// matches name, ignoring case.
func FindProcess(name string) (uint32, error) {
	entries, err := ListProcesses()
	if err != nil {
		return 0, err
	}
	pid, ok := matchProcess(entries, name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrProcessNotFound, name)
	}
	return pid, nil
}

func matchProcess(entries []ProcessEntry, name string) (uint32, bool) {
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			return e.Pid, true
		}
	}
	return 0, false
}

// ParsePidOrExe treats all-digit input as a pid and anything else as an
// executable name to look up.
func ParsePidOrExe(pidOrExe string) (uint32, error) {
	if pidOrExe == "" {
		return 0, fmt.Errorf("%w: empty target", ErrProcessNotFound)
	}
	if isDigits(pidOrExe) {
		pid, err := strconv.ParseUint(pidOrExe, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid pid %q: %w", pidOrExe, err)
		}
		if pid == 0 {
			return 0, fmt.Errorf("invalid pid %q", pidOrExe)
		}
		return uint32(pid), nil
	}
	return FindProcess(pidOrExe)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// Attach resolves target (pid or exe name) and opens the process for
// reading and writing.
func Attach(target string) (*Process, error) {
	pid, err := ParsePidOrExe(target)
	if err != nil {
		return nil, err
	}
	Debugf("attaching to pid %d (%s)", pid, target)

	p, err := OpenProcess(pid)
	if err != nil {
		return nil, err
	}
	if p.Name == "" && !isDigits(target) {
		p.Name = target
	}
	return p, nil
}

// OpenProcess opens pid with memory read/write access.
func OpenProcess(pid uint32) (*Process, error) {
	p := &Process{Pid: pid}
	if err := p.os.open(pid); err != nil {
		return nil, fmt.Errorf("open process %d: %w", pid, err)
	}
	p.Name = p.os.name(pid)
	return p, nil
}

func (p *Process) ReadMemory(ea uintptr, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("read %d bytes at %x: invalid size", size, ea)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.detached {
		return nil, ErrDetached
	}

	buf := make([]byte, size)
	n, err := p.os.read(p.Pid, ea, buf)
	if err != nil {
		return nil, fmt.Errorf("read %d bytes at %x: %w", size, ea, err)
	}
	if n != size {
		return nil, fmt.Errorf("read %d bytes at %x: short read (%d)", size, ea, n)
	}
	return buf, nil
}

func (p *Process) WriteMemory(ea uintptr, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.detached {
		return ErrDetached
	}

	n, err := p.os.write(p.Pid, ea, data)
	if err != nil {
		return fmt.Errorf("write %d bytes at %x: %w", len(data), ea, err)
	}
	if n != len(data) {
		return fmt.Errorf("write %d bytes at %x: short write (%d)", len(data), ea, n)
	}
	return nil
}

func (p *Process) Modules() ([]Module, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.detached {
		return nil, ErrDetached
	}
	return p.os.modules(p.Pid)
}

// FindModule looks up a loaded module by base name, ignoring case.
func (p *Process) FindModule(name string) (*Module, error) {
	modules, err := p.Modules()
	if err != nil {
		return nil, err
	}
	return findModule(modules, name)
}

// ModuleAt returns the module mapped at ea.
func (p *Process) ModuleAt(ea uintptr) (*Module, error) {
	modules, err := p.Modules()
	if err != nil {
		return nil, err
	}
	if m, ok := moduleAt(modules, ea); ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: at 0x%x", ErrModuleNotFound, uint64(ea))
}

// PointerSize is the target's native pointer width in bytes.
func (p *Process) PointerSize() int {
	if p.PtrSize != 0 {
		return p.PtrSize
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.os.pointerSize(p.Pid)
}

// Detach releases the attachment. The target keeps running.
func (p *Process) Detach() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.detached {
		return nil
	}
	p.detached = true
	Debugf("detaching from pid %d", p.Pid)
	return p.os.close()
}

func (p *Process) String() string {
	if p.Name == "" {
		return fmt.Sprintf("pid %d", p.Pid)
	}
	return fmt.Sprintf("%s (pid %d)", p.Name, p.Pid)
}
