package script

import (
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals are base-library functions that reach the filesystem or
// load arbitrary chunks.
var blockedGlobals = [...]string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

// MaxRepLength caps the result of string.rep in bytes.
const MaxRepLength = 1 << 20

// Sandbox strips unsafe globals from a state and meters host calls.
// A Sandbox belongs to a single LState and is not safe for concurrent use.
type Sandbox struct {
	limit    int64
	used     int64
	exceeded bool
	logger   *slog.Logger
}

// NewSandbox returns a sandbox allowing limit host calls per run.
// A limit of zero or less means unmetered.
func NewSandbox(limit int64, logger *slog.Logger) *Sandbox {
	return &Sandbox{limit: limit, logger: logger}
}

// Install removes blocked globals from L and routes print to the logger.
func (s *Sandbox) Install(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(s.print))
	if str, ok := L.GetGlobal("string").(*lua.LTable); ok {
		L.SetField(str, "rep", L.NewFunction(rep))
	}
}

// rep is string.rep with its result bounded by MaxRepLength.
func rep(L *lua.LState) int {
	str := L.CheckString(1)
	n := L.CheckInt(2)
	if n <= 0 || str == "" {
		L.Push(lua.LString(""))
		return 1
	}
	if n > MaxRepLength/len(str) {
		L.RaiseError("string.rep result exceeds %d bytes", MaxRepLength)
		return 0
	}
	L.Push(lua.LString(strings.Repeat(str, n)))
	return 1
}

func (s *Sandbox) print(L *lua.LState) int {
	n := L.GetTop()
	var b strings.Builder
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteByte('\t')
		}
		b.WriteString(L.ToStringMeta(L.Get(i)).String())
	}
	s.logger.Info("script output", "msg", b.String())
	return 0
}

// Reset clears the call count before a new run.
func (s *Sandbox) Reset() {
	s.used, s.exceeded = 0, false
}

// Used reports how many host calls the current run has made.
func (s *Sandbox) Used() int64 { return s.used }

// Exceeded reports whether the current run ran out of budget.
func (s *Sandbox) Exceeded() bool { return s.exceeded }

// charge counts one host call and raises a Lua error once the budget is spent.
func (s *Sandbox) charge(L *lua.LState) {
	if s.limit <= 0 {
		return
	}
	s.used++
	if s.used > s.limit {
		s.exceeded = true
		L.RaiseError("%s", ErrInstructionLimit.Error())
	}
}
