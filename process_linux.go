package h3cheats

import (
	"bufio"
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

type osProcess struct {
	mem *os.File // /proc/<pid>/mem, opened lazily for writes into read-only pages
}

func procPath(pid uint32, name string) string {
	return filepath.Join("/proc", strconv.FormatUint(uint64(pid), 10), name)
}

// ListProcesses names each process after the basename of argv[0], falling
// back to comm. Wine keeps the Windows image path in argv[0].
func ListProcesses() ([]ProcessEntry, error) {
	dirs, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("list /proc: %w", err)
	}

	var entries []ProcessEntry
	for _, d := range dirs {
		if !d.IsDir() || !isDigits(d.Name()) {
			continue
		}
		pid, err := strconv.ParseUint(d.Name(), 10, 32)
		if err != nil {
			continue
		}
		name := processName(uint32(pid))
		if name == "" {
			continue
		}
		entries = append(entries, ProcessEntry{Pid: uint32(pid), Name: name})
	}
	return entries, nil
}

func processName(pid uint32) string {
	if cmdline, err := os.ReadFile(procPath(pid, "cmdline")); err == nil && len(cmdline) > 0 {
		argv0, _, _ := bytes.Cut(cmdline, []byte{0})
		if len(argv0) > 0 {
			return baseName(string(argv0))
		}
	}
	comm, err := os.ReadFile(procPath(pid, "comm"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(comm))
}

func (o *osProcess) open(pid uint32) error {
	if _, err := os.Stat(procPath(pid, "")); err != nil {
		return fmt.Errorf("%w: pid %d", ErrProcessNotFound, pid)
	}
	// check access rights up front so attach fails instead of the first read
	var one [1]byte
	if _, err := o.read(pid, 0, one[:]); errors.Is(err, unix.EPERM) {
		return fmt.Errorf("process_vm_readv: %w", err)
	}
	return nil
}

func (o *osProcess) name(pid uint32) string {
	return processName(pid)
}

func (o *osProcess) read(pid uint32, ea uintptr, buf []byte) (int, error) {
	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(len(buf))
	remote := []unix.RemoteIovec{{Base: ea, Len: len(buf)}}
	return unix.ProcessVMReadv(int(pid), local, remote, 0)
}

func (o *osProcess) write(pid uint32, ea uintptr, data []byte) (int, error) {
	local := []unix.Iovec{{Base: &data[0]}}
	local[0].SetLen(len(data))
	remote := []unix.RemoteIovec{{Base: ea, Len: len(data)}}
	n, err := unix.ProcessVMWritev(int(pid), local, remote, 0)
	if err == nil || !errors.Is(err, unix.EFAULT) {
		return n, err
	}

	// process_vm_writev honours page protection, /proc/<pid>/mem does not
	if o.mem == nil {
		f, err := os.OpenFile(procPath(pid, "mem"), os.O_RDWR, 0)
		if err != nil {
			return 0, fmt.Errorf("open mem: %w", err)
		}
		o.mem = f
	}
	return o.mem.WriteAt(data, int64(ea))
}

// modules rebuilds an image list from /proc/<pid>/maps: every file-backed
// mapping contributes to the span of the module named after the file.
func (o *osProcess) modules(pid uint32) ([]Module, error) {
	f, err := os.Open(procPath(pid, "maps"))
	if err != nil {
		return nil, fmt.Errorf("open maps: %w", err)
	}
	defer f.Close()

	var modules []Module
	index := map[string]int{}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		start, end, path, ok := parseMapsLine(scanner.Text())
		if !ok {
			continue
		}
		i, seen := index[path]
		if !seen {
			index[path] = len(modules)
			modules = append(modules, Module{
				BaseOfDll:   start,
				SizeOfImage: uint32(end - start),
				Name:        baseName(path),
				Path:        path,
			})
			continue
		}
		m := &modules[i]
		if start < m.BaseOfDll {
			m.SizeOfImage += uint32(m.BaseOfDll - start)
			m.BaseOfDll = start
		}
		if end > m.End() {
			m.SizeOfImage = uint32(end - m.BaseOfDll)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read maps: %w", err)
	}
	return modules, nil
}

// 00400000-0052c000 r-xp 00000000 08:01 1234   /games/heroes3/HEROES3.EXE
func parseMapsLine(line string) (start, end uintptr, path string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 6 || !strings.HasPrefix(fields[5], "/") {
		return 0, 0, "", false
	}
	lo, hi, found := strings.Cut(fields[0], "-")
	if !found {
		return 0, 0, "", false
	}
	s, err := strconv.ParseUint(lo, 16, 64)
	if err != nil {
		return 0, 0, "", false
	}
	e, err := strconv.ParseUint(hi, 16, 64)
	if err != nil || e <= s {
		return 0, 0, "", false
	}
	return uintptr(s), uintptr(e), strings.Join(fields[5:], " "), true
}

func (o *osProcess) pointerSize(pid uint32) int {
	f, err := elf.Open(procPath(pid, "exe"))
	if err != nil {
		return int(unsafe.Sizeof(uintptr(0)))
	}
	defer f.Close()
	if f.Class == elf.ELFCLASS32 {
		return 4
	}
	return 8
}

func (o *osProcess) close() error {
	if o.mem == nil {
		return nil
	}
	err := o.mem.Close()
	o.mem = nil
	return err
}
