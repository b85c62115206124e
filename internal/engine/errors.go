package engine

import "errors"

// Returned by UndoE and RedoE when the corresponding stack is empty.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)
