package react

import "errors"

// Catalog errors.
var (
	ErrEmptyCatalog    = errors.New("catalog has no tools")
	ErrInvalidToolName = errors.New("invalid tool name")
	ErrDuplicateTool   = errors.New("duplicate tool")
)

// Completion grammar violations. Parse wraps them in an agent parse error.
var (
	ErrEmptyCompletion = errors.New("completion is empty")
	ErrNoAction        = errors.New("completion contains neither an action nor a final answer")
	ErrTrailingAction  = errors.New("final answer is followed by an action")
	ErrUnknownTool     = errors.New("action names a tool that is not in the catalog")
	ErrMissingInput    = errors.New("action has no action input")
	ErrEmptyAnswer     = errors.New("final answer is empty")
)
