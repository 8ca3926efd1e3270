package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/engine"
)

// Default limits for a Lua state.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultCallStackSize = 256
)

// State wraps a sandboxed gopher-lua state.
type State struct {
	L *lua.LState

	timeout       time.Duration
	callStackSize int
	output        io.Writer

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout limits how long a single DoString or DoFile may run.
// Zero disables the limit.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithCallStackSize sets the maximum Lua call depth.
func WithCallStackSize(n int) StateOption {
	return func(s *State) {
		if n > 0 {
			s.callStackSize = n
		}
	}
}

// WithOutput sets where print writes.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		if w != nil {
			s.output = w
		}
	}
}

// NewState creates a sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{
		timeout:       DefaultTimeout,
		callStackSize: DefaultCallStackSize,
		output:        io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: s.callStackSize,
	})
	openSafeLibraries(s.L)
	installSandbox(s.L, s.output)
	registerInputType(s.L)

	return s
}

// openSafeLibraries opens only the libraries that cannot reach the host.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Bind exposes e to scripts as the global buf module. Binding again
// replaces the previous engine.
func (s *State) Bind(e *engine.Engine) {
	s.RegisterModule("buf", NewBufferModule(e).Funcs())
}

// RegisterModule sets a global table holding funcs.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.SetFuncs(s.L.NewTable(), funcs))
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// DoString runs code. name identifies the chunk in error messages.
func (s *State) DoString(ctx context.Context, name, code string) error {
	if s.closed {
		return ErrStateClosed
	}
	fn, err := s.L.Load(strings.NewReader(code), name)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return s.run(ctx, name, fn)
}

// DoFile runs the Lua file at path.
func (s *State) DoFile(ctx context.Context, path string) error {
	if s.closed {
		return ErrStateClosed
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	fn, err := s.L.Load(f, path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return s.run(ctx, path, fn)
}

// run calls fn under the state's timeout.
func (s *State) run(ctx context.Context, name string, fn *lua.LFunction) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("run %s: lua panic: %v", name, r)
		}
	}()

	top := s.L.GetTop()
	s.L.Push(fn)
	callErr := s.L.PCall(0, lua.MultRet, nil)
	s.L.SetTop(top)

	if callErr == nil {
		return nil
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("run %s: %w", name, ErrTimeout)
	case ctx.Err() != nil:
		return fmt.Errorf("run %s: %w", name, ctx.Err())
	}
	return fmt.Errorf("run %s: %w", name, callErr)
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	return s.closed
}

// Close releases the Lua state. Further runs return ErrStateClosed.
func (s *State) Close() error {
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
