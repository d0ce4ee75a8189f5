package filter

import (
	"fmt"
)

// CompilationError indicates a filter expression could not be compiled
type CompilationError struct {
	Expression string
	Reason     string
	Err        error
}

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compilation error in '%s': %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// PresetError indicates a named preset is unknown or failed to compile
type PresetError struct {
	Name string
	Err  error
}

func (e *PresetError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("preset '%s' not found", e.Name)
	}
	return fmt.Sprintf("preset '%s': %v", e.Name, e.Err)
}

func (e *PresetError) Unwrap() error {
	return e.Err
}
