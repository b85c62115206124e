package app

// Tool is what a click on the canvas does.
type Tool int

// Canvas tools.
const (
	ToolBrush Tool = iota
	ToolEraser
	ToolFill
	ToolScript
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "brush"
	case ToolEraser:
		return "eraser"
	case ToolFill:
		return "fill"
	case ToolScript:
		return "script"
	default:
		return "unknown"
	}
}

// Drags reports whether the tool keeps applying while the mouse is dragged.
// Fill and scripts act once per press.
func (t Tool) Drags() bool {
	return t == ToolBrush || t == ToolEraser
}
