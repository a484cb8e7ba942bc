package scope

import "errors"

// Sentinel errors for scope resolution.
var (
	ErrUnknownScope  = errors.New("scope: unknown scope")
	ErrUnknownBundle = errors.New("scope: unknown bundle")
	ErrUnknownTool   = errors.New("scope: unknown tool")
)
