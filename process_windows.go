package h3cheats

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const processAccess = windows.PROCESS_QUERY_INFORMATION |
	windows.PROCESS_VM_OPERATION |
	windows.PROCESS_VM_READ |
	windows.PROCESS_VM_WRITE

type osProcess struct {
	handle windows.Handle
}

func ListProcesses() ([]ProcessEntry, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	if err = windows.Process32First(snapshot, &pe); err != nil {
		return nil, fmt.Errorf("Process32First: %w", err)
	}

	var entries []ProcessEntry
	for {
		entries = append(entries, ProcessEntry{
			Pid:  pe.ProcessID,
			Name: windows.UTF16ToString(pe.ExeFile[:]),
		})

		if err = windows.Process32Next(snapshot, &pe); err != nil {
			if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
				break
			}
			return nil, fmt.Errorf("Process32Next: %w", err)
		}
	}
	return entries, nil
}

func (o *osProcess) open(pid uint32) error {
	handle, err := windows.OpenProcess(processAccess, false, pid)
	if err != nil {
		return fmt.Errorf("OpenProcess: %w", err)
	}
	o.handle = handle
	return nil
}

func (o *osProcess) name(pid uint32) string {
	var buf [windows.MAX_PATH]uint16
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(o.handle, 0, &buf[0], &size); err != nil {
		return ""
	}
	return baseName(windows.UTF16ToString(buf[:size]))
}

func (o *osProcess) read(pid uint32, ea uintptr, buf []byte) (int, error) {
	var bytesRead uintptr
	err := windows.ReadProcessMemory(o.handle, ea, &buf[0], uintptr(len(buf)), &bytesRead)
	if err != nil {
		return int(bytesRead), err
	}
	return int(bytesRead), nil
}

func (o *osProcess) write(pid uint32, ea uintptr, data []byte) (int, error) {
	var bytesWritten uintptr
	err := windows.WriteProcessMemory(o.handle, ea, &data[0], uintptr(len(data)), &bytesWritten)
	if err != nil {
		return int(bytesWritten), err
	}
	return int(bytesWritten), nil
}

func (o *osProcess) modules(pid uint32) ([]Module, error) {
	var needed uint32

	err := windows.EnumProcessModulesEx(o.handle, nil, 0, &needed, windows.LIST_MODULES_ALL)
	if err != nil {
		if errno, ok := err.(syscall.Errno); ok {
			if errno == windows.ERROR_PARTIAL_COPY && needed == 0 {
				// process is not yet initialized OR started in a suspended state
				return nil, nil
			}
		}
		return nil, fmt.Errorf("EnumProcessModulesEx: %w [needed=%d]", err, needed)
	}

	numModules := int(needed) / int(unsafe.Sizeof(windows.Handle(0)))
	if numModules == 0 {
		return nil, nil
	}
	hModules := make([]windows.Handle, numModules)
	err = windows.EnumProcessModulesEx(o.handle, &hModules[0], needed, &needed, windows.LIST_MODULES_ALL)
	if err != nil {
		return nil, fmt.Errorf("EnumProcessModulesEx: %w [needed=%d]", err, needed)
	}

	modules := make([]Module, 0, numModules)
	for i := 0; i < numModules; i++ {
		var modName [windows.MAX_PATH]uint16
		windows.GetModuleBaseName(o.handle, hModules[i], &modName[0], windows.MAX_PATH)

		var modPath [windows.MAX_PATH]uint16
		windows.GetModuleFileNameEx(o.handle, hModules[i], &modPath[0], windows.MAX_PATH)

		var modInfo windows.ModuleInfo
		err = windows.GetModuleInformation(o.handle, hModules[i], &modInfo, uint32(unsafe.Sizeof(modInfo)))
		if err != nil {
			Debugf("GetModuleInformation(%x): %v", hModules[i], err)
			continue
		}

		modules = append(modules, Module{
			BaseOfDll:   modInfo.BaseOfDll,
			SizeOfImage: modInfo.SizeOfImage,
			EntryPoint:  modInfo.EntryPoint,
			Name:        windows.UTF16PtrToString(&modName[0]),
			Path:        windows.UTF16PtrToString(&modPath[0]),
		})
	}

	return modules, nil
}

func (o *osProcess) pointerSize(pid uint32) int {
	var wow64 bool
	if err := windows.IsWow64Process(o.handle, &wow64); err == nil && wow64 {
		return 4
	}
	return int(unsafe.Sizeof(uintptr(0)))
}

// closes the process handle, but does not terminate the process
func (o *osProcess) close() error {
	if o.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(o.handle)
	o.handle = 0
	if err != nil {
		return fmt.Errorf("failed to close process handle: %w", err)
	}
	return nil
}
