package utils

import "fmt"

// InitializationError marks a fatal failure while constructing a session or host,
// such as a missing rendering surface or an unusable configuration.
type InitializationError struct {
	Op  string
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialization failed in %s: %v", e.Op, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// ValidationError marks a rejected operation. State is left unchanged.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistenceError marks an unavailable store or unreadable saved data.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
