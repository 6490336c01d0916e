// Package script hosts the instrumentation payload: a Lua program run by an
// embedded VM whose host functions read and write the attached process.
//
// The payload owns all knowledge of the target's memory layout. It publishes
// callable functions by filling in the rpc.exports table and reports back
// through console.log and send, which arrive as Messages.
package script

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Shopify/go-lua"

	"github.com/zed-0xff/h3cheats"
)

var (
	ErrNotLoaded     = errors.New("script not loaded")
	ErrNoExports     = errors.New("script does not export any function")
	ErrUnknownExport = errors.New("unknown export")
)

// Target is the attached process as seen by the payload.
type Target interface {
	h3cheats.MemoryReadWriter
	FindModule(name string) (*h3cheats.Module, error)
	ModuleAt(ea uintptr) (*h3cheats.Module, error)
	PointerSize() int
}

type Message struct {
	Type    string // "log", "error" or "send"
	Payload any
}

func (m Message) String() string {
	switch m.Type {
	case "log":
		return fmt.Sprint(m.Payload)
	case "error":
		return fmt.Sprintf("[!] %v", m.Payload)
	default:
		return fmt.Sprintf("{'type': '%s', 'payload': %v}", m.Type, m.Payload)
	}
}

type MessageHandler func(Message)

type Script struct {
	Name string

	mu       sync.Mutex
	l        *lua.State
	target   Target
	source   string
	handlers []MessageHandler
	loaded   bool
}

func New(target Target, name, source string) *Script {
	return &Script{
		Name:   name,
		target: target,
		source: source,
	}
}

// On registers a handler for messages posted by the payload. Handlers run
// synchronously on the goroutine that is executing the payload.
func (s *Script) On(handler MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *Script) post(m Message) {
	for _, h := range s.handlers {
		h(m)
	}
}

// Load compiles and runs the payload's top-level chunk. A payload that raises
// at top level (for example because the game module is missing) or that
// exports nothing fails to load.
func (s *Script) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return fmt.Errorf("script %s already loaded", s.Name)
	}

	l := lua.NewState()
	lua.OpenLibraries(l)
	s.registerHost(l)

	h3cheats.Debugf("loading script %s (%d bytes)", s.Name, len(s.source))
	if err := lua.LoadBuffer(l, s.source, "@"+s.Name, ""); err != nil {
		return fmt.Errorf("compile %s: %s", s.Name, errorMessage(l, err))
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("run %s: %s", s.Name, errorMessage(l, err))
	}

	s.l = l
	if len(s.exportNames()) == 0 {
		s.l = nil
		return fmt.Errorf("%s: %w", s.Name, ErrNoExports)
	}
	s.loaded = true
	return nil
}

// Unload drops the VM. Calls after Unload fail with ErrNotLoaded.
func (s *Script) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.l = nil
	s.loaded = false
}

// Exports lists the names in rpc.exports, sorted.
func (s *Script) Exports() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil
	}
	return s.exportNames()
}

func (s *Script) exportNames() []string {
	l := s.l
	top := l.Top()
	defer l.SetTop(top)

	if !pushExports(l) {
		return nil
	}
	var names []string
	l.PushNil()
	for l.Next(-2) {
		if l.TypeOf(-2) == lua.TypeString && l.TypeOf(-1) == lua.TypeFunction {
			name, _ := l.ToString(-2)
			names = append(names, name)
		}
		l.Pop(1)
	}
	sort.Strings(names)
	return names
}

// pushExports leaves rpc.exports on top of the stack.
func pushExports(l *lua.State) bool {
	l.Global("rpc")
	if l.TypeOf(-1) != lua.TypeTable {
		return false
	}
	l.Field(-1, "exports")
	return l.TypeOf(-1) == lua.TypeTable
}

// Call invokes rpc.exports[name] with args and returns its first result
// converted to Go (nil, bool, int, float64, string, []any or map[string]any).
func (s *Script) Call(name string, args ...any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}

	l := s.l
	top := l.Top()
	defer l.SetTop(top)

	if !pushExports(l) {
		return nil, ErrNoExports
	}
	l.Field(-1, name)
	if l.TypeOf(-1) != lua.TypeFunction {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExport, name)
	}
	for _, arg := range args {
		pushValue(l, arg)
	}

	h3cheats.Debugf("call %s.%s%v", s.Name, name, args)
	if err := l.ProtectedCall(len(args), 1, 0); err != nil {
		return nil, fmt.Errorf("call %s: %s", name, errorMessage(l, err))
	}
	return luaToGo(l, -1), nil
}

// errorMessage pops the error object a failed load or call leaves on the
// stack.
func errorMessage(l *lua.State, err error) string {
	if l.Top() == 0 {
		return err.Error()
	}
	msg, ok := l.ToString(-1)
	l.Pop(1)
	if !ok || msg == "" {
		return err.Error()
	}
	return msg
}
