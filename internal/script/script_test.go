package script

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/tilestorm/internal/engine/grid"
	"github.com/dshills/tilestorm/internal/tile"
)

const rowScript = `
function apply(canvas, row, col, room)
  for c = 0, canvas.cols() - 1 do
    canvas.set(row, c, room)
  end
end
`

func writeScript(t *testing.T, dir, name, source string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
}

func loadTool(t *testing.T, scripts map[string]string, opts ...ToolOption) *Tool {
	t.Helper()
	dir := t.TempDir()
	for name, source := range scripts {
		writeScript(t, dir, name, source)
	}
	tool, err := LoadDir(dir, opts...)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	return tool
}

func glyph(c tile.Cell) rune {
	i, ok := c.Room()
	if !ok {
		return '.'
	}
	return rune('A' + i)
}

func TestLoadDir(t *testing.T) {
	tool := loadTool(t, map[string]string{
		"row.lua":    rowScript,
		"border.lua": "function apply(canvas) end",
		"notes.txt":  "ignored",
	})

	names := tool.Names()
	if len(names) != 2 || names[0] != "border" || names[1] != "row" {
		t.Errorf("Names() = %v, want [border row]", names)
	}
	if tool.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tool.Len())
	}
}

func TestLoadDirSyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.lua", "function apply(canvas")

	_, err := LoadDir(dir)
	var se *ScriptError
	if !errors.As(err, &se) || se.Script != "broken" {
		t.Errorf("expected ScriptError for broken, got %v", err)
	}
}

func TestRun(t *testing.T) {
	tool := loadTool(t, map[string]string{"row.lua": rowScript})
	g := grid.New[tile.Cell](3, 4)

	out, err := tool.Run(context.Background(), "row", g, 1, 2, tile.RoomCell(2))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := out.Format(glyph), "....\nCCCC\n....\n"; got != want {
		t.Errorf("grid =\n%s\nwant\n%s", got, want)
	}
	if got := g.Format(glyph); got != "....\n....\n....\n" {
		t.Error("input grid must not change")
	}
}

func TestRunNoChangeKeepsIdentity(t *testing.T) {
	tool := loadTool(t, map[string]string{
		"noop.lua":  "function apply(canvas, row, col, room) canvas.set(row, col, canvas.get(row, col)) end",
		"reads.lua": "function apply(canvas) local n = canvas.rows() * canvas.cols() end",
	})
	g := grid.New[tile.Cell](2, 2)

	for _, name := range tool.Names() {
		out, err := tool.Run(context.Background(), name, g, 0, 0, tile.RoomCell(0))
		if err != nil {
			t.Fatalf("%s: Run failed: %v", name, err)
		}
		if !out.Same(g) {
			t.Errorf("%s: script without effective change should return the same grid", name)
		}
	}
}

func TestRunMethodSyntaxAndErase(t *testing.T) {
	tool := loadTool(t, map[string]string{"erase.lua": `
function apply(canvas, row, col)
  assert(canvas:get(row, col) == 1)
  assert(canvas:get(99, 99) == nil)
  assert(canvas:set(99, 99, nil) == false)
  canvas:set(row, col, nil)
end
`})
	g, _ := grid.New[tile.Cell](1, 1).Set(0, 0, tile.RoomCell(1))

	out, err := tool.Run(context.Background(), "erase", g, 0, 0, tile.Empty)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if c, _ := out.Get(0, 0); !c.IsEmpty() {
		t.Error("cell should be erased")
	}
}

func TestRunErrors(t *testing.T) {
	tool := loadTool(t, map[string]string{
		"noapply.lua":  "x = 1",
		"fails.lua":    "function apply() error('boom') end",
		"badroom.lua":  "function apply(canvas) canvas.set(0, 0, 'stone') end",
		"hugeroom.lua": "function apply(canvas) canvas:set(0, 0, 4294967295) end",
		"wraproom.lua": "function apply(canvas) canvas:set(0, 0, 4294967296) end",
	})
	g := grid.New[tile.Cell](1, 1)
	ctx := context.Background()

	tests := []struct {
		name    string
		want    error
		message string
	}{
		{"noapply", ErrNoApply, ""},
		{"fails", nil, "boom"},
		{"badroom", nil, "room index or nil expected"},
		{"hugeroom", nil, "room index out of range"},
		{"wraproom", nil, "room index out of range"},
		{"missing", ErrScriptNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tool.Run(ctx, tt.name, g, 0, 0, tile.Empty)
			var se *ScriptError
			if !errors.As(err, &se) || se.Script != tt.name {
				t.Fatalf("expected ScriptError for %s, got %v", tt.name, err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if tt.message != "" && !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error = %v, want message %q", err, tt.message)
			}
			if !out.Same(g) {
				t.Error("failed run should return the input grid")
			}
		})
	}
}

func TestSandboxRemovesDangerousGlobals(t *testing.T) {
	state := NewState()
	defer state.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"} {
		if v := state.L.GetGlobal(name); v.Type().String() != "nil" {
			t.Errorf("global %s should be removed, got %s", name, v.Type())
		}
	}

	if err := state.DoString(context.Background(), `x = string.upper("a") .. math.floor(1.5) .. table.concat({"b"})`); err != nil {
		t.Errorf("safe libraries should be available: %v", err)
	}
}

func TestInstructionLimit(t *testing.T) {
	tool := loadTool(t, map[string]string{"spin.lua": `
function apply(canvas)
  while true do canvas.rows() end
end
`}, WithToolInstructionLimit(100))

	_, err := tool.Run(context.Background(), "spin", grid.New[tile.Cell](1, 1), 0, 0, tile.Empty)
	if !errors.Is(err, ErrInstructionLimit) {
		t.Errorf("error = %v, want ErrInstructionLimit", err)
	}
}

func TestExecutionTimeout(t *testing.T) {
	tool := loadTool(t, map[string]string{"loop.lua": `
function apply(canvas)
  while true do end
end
`}, WithToolTimeout(50*time.Millisecond))

	_, err := tool.Run(context.Background(), "loop", grid.New[tile.Cell](1, 1), 0, 0, tile.Empty)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("error = %v, want ErrExecutionTimeout", err)
	}
}

func TestPrintGoesToLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	tool := loadTool(t, map[string]string{
		"hello.lua": `function apply(canvas) print("hello", canvas.rows()) end`,
	}, WithToolLogger(logger))

	if _, err := tool.Run(context.Background(), "hello", grid.New[tile.Cell](2, 1), 0, 0, tile.Empty); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "script=hello") || !strings.Contains(out, `msg="hello\t2"`) {
		t.Errorf("log output = %q", out)
	}
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a.lua", "function apply() end")
	tool, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeScript(t, dir, "b.lua", "function apply() end")
	if err := tool.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if tool.Len() != 2 {
		t.Errorf("Len() = %d after reload, want 2", tool.Len())
	}

	writeScript(t, dir, "c.lua", "function (")
	if err := tool.Reload(); err == nil {
		t.Error("Reload should fail on a syntax error")
	}
	if tool.Len() != 2 {
		t.Error("failed reload should keep the previous scripts")
	}
}

func TestStateClosed(t *testing.T) {
	state := NewState()
	state.Close()
	if err := state.DoString(context.Background(), "x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString after Close = %v, want ErrStateClosed", err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestSandboxMetersCanvasCalls(t *testing.T) {
	state := NewState(WithInstructionLimit(10))
	defer state.Close()

	ctx := context.Background()
	if err := state.DoString(ctx, `function apply(c) c.rows() c.cols() c.rows() end`); err != nil {
		t.Fatal(err)
	}
	canvas := NewCanvas(grid.New[tile.Cell](2, 2), state.Sandbox())
	if err := state.Call(ctx, "apply", canvas.Table(state.L)); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got := state.Sandbox().Used(); got != 3 {
		t.Errorf("Used() = %d, want 3", got)
	}

	// each run starts with a fresh budget
	if err := state.DoString(ctx, "x = 1"); err != nil {
		t.Fatal(err)
	}
	if got := state.Sandbox().Used(); got != 0 {
		t.Errorf("Used() after new run = %d, want 0", got)
	}
}

func TestCallMissingFunction(t *testing.T) {
	state := NewState()
	defer state.Close()
	if err := state.Call(context.Background(), "apply"); !errors.Is(err, ErrNoApply) {
		t.Errorf("Call = %v, want ErrNoApply", err)
	}
}

func TestStringRepIsBounded(t *testing.T) {
	state := NewState()
	defer state.Close()
	ctx := context.Background()

	if err := state.DoString(ctx, `assert(string.rep("ab", 3) == "ababab") assert(("x"):rep(0) == "")`); err != nil {
		t.Errorf("small rep should work: %v", err)
	}
	err := state.DoString(ctx, `local s = string.rep("x", 1e10)`)
	if err == nil || !strings.Contains(err.Error(), "string.rep result exceeds") {
		t.Errorf("large rep = %v, want size error", err)
	}
}
