package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

const (
	DefaultExecutionTimeout = 2 * time.Second
	DefaultInstructionLimit = 1_000_000 // canvas calls per run
)

// State is a sandboxed Lua interpreter for one tool script.
// Calls are serialized; the underlying LState is never shared.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	closed  bool
	timeout time.Duration
	limit   int64
	logger  *slog.Logger
	sandbox *Sandbox
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout bounds each DoString or Call. Zero disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithInstructionLimit caps canvas calls per run. Zero disables it.
func WithInstructionLimit(limit int64) StateOption {
	return func(s *State) {
		if limit >= 0 {
			s.limit = limit
		}
	}
}

// WithLogger sets where script print output goes.
func WithLogger(logger *slog.Logger) StateOption {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// safeLibs are the standard libraries scripts may use. io, os and
// package are never opened.
var safeLibs = []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath}

// NewState returns a State with only the safe libraries loaded.
func NewState(opts ...StateOption) *State {
	s := &State{
		timeout: DefaultExecutionTimeout,
		limit:   DefaultInstructionLimit,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range safeLibs {
		open(s.L)
	}
	s.sandbox = NewSandbox(s.limit, s.logger)
	s.sandbox.Install(s.L)
	return s
}

// DoString executes a Lua chunk.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.exec(ctx, func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// Call invokes the global function fn with args, discarding results.
func (s *State) Call(ctx context.Context, fn string, args ...lua.LValue) error {
	return s.exec(ctx, func(L *lua.LState) error {
		f := L.GetGlobal(fn)
		if f.Type() != lua.LTFunction {
			return fmt.Errorf("%w: %q is %s", ErrNoApply, fn, f.Type())
		}
		return L.CallByParam(lua.P{Fn: f, Protect: true}, args...)
	})
}

func (s *State) exec(ctx context.Context, fn func(*lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()
	s.sandbox.Reset()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	if err = fn(s.L); err == nil {
		return nil
	}
	if s.sandbox.Exceeded() {
		return fmt.Errorf("%w: %v", ErrInstructionLimit, err)
	}
	if cerr := ctx.Err(); cerr != nil {
		if errors.Is(cerr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
		return cerr
	}
	return err
}

// Sandbox returns the sandbox metering this state's canvas calls.
func (s *State) Sandbox() *Sandbox { return s.sandbox }

// Close releases the interpreter. It is safe to call more than once.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.L.Close()
		s.closed = true
	}
	return nil
}
