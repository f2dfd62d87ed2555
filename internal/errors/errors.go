// Package errors provides sentinel errors and custom error types for the restack application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrBranchNotFound indicates that a branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrRebaseConflict indicates that a rebase operation encountered a conflict
	ErrRebaseConflict = errors.New("rebase conflict")

	// ErrRebaseNotInProgress indicates that no rebase is currently in progress
	ErrRebaseNotInProgress = errors.New("no rebase in progress")

	// ErrRebaseInProgress indicates that a rebase is already in progress
	ErrRebaseInProgress = errors.New("rebase in progress")

	// ErrNoCheckpoint indicates that no suspended operation exists
	ErrNoCheckpoint = errors.New("no operation in progress")

	// ErrDirtyWorkingTree indicates uncommitted changes in the working copy
	ErrDirtyWorkingTree = errors.New("uncommitted changes")

	// ErrTrunkOperation indicates an invalid operation on the trunk branch
	ErrTrunkOperation = errors.New("invalid operation on trunk branch")

	// ErrCycle indicates a parent change that would make a branch its own ancestor
	ErrCycle = errors.New("parent change would create a cycle")

	// ErrNotInitialized indicates the repository has no restack config yet
	ErrNotInitialized = errors.New("restack not initialized")
)

// PreconditionsFailedError is returned when a condition an operation depends on
// does not hold before it starts. Its message is shown to the user verbatim.
type PreconditionsFailedError struct {
	Message string
	Err     error
}

func (e *PreconditionsFailedError) Error() string {
	return e.Message
}

func (e *PreconditionsFailedError) Unwrap() error {
	return e.Err
}

// NewPreconditionsFailedError creates a new PreconditionsFailedError.
// cause may be one of the sentinels above so callers can match with errors.Is.
func NewPreconditionsFailedError(cause error, format string, args ...interface{}) *PreconditionsFailedError {
	return &PreconditionsFailedError{
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// ExitFailedError represents an external command that exited non-zero
type ExitFailedError struct {
	Message string
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *ExitFailedError) Error() string {
	var sb strings.Builder
	if e.Message != "" {
		sb.WriteString(e.Message)
		sb.WriteString(": ")
	}
	sb.WriteString(fmt.Sprintf("%s command failed", e.Command))
	if len(e.Args) > 0 {
		sb.WriteString(fmt.Sprintf(" %v", e.Args))
	}
	if e.Stderr != "" {
		sb.WriteString(fmt.Sprintf("\nstderr: %s", e.Stderr))
	}
	if e.Stdout != "" {
		sb.WriteString(fmt.Sprintf("\nstdout: %s", e.Stdout))
	}
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf("\n%v", e.Err))
	}
	return sb.String()
}

func (e *ExitFailedError) Unwrap() error {
	return e.Err
}

// NewExitFailedError creates a new ExitFailedError
func NewExitFailedError(command string, args []string, stdout, stderr string, err error) *ExitFailedError {
	return &ExitFailedError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

// WithMessage returns a copy of the error prefixed with a human readable message
func (e *ExitFailedError) WithMessage(format string, args ...interface{}) *ExitFailedError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// CorruptMetadataError indicates the branch graph violates its invariants
type CorruptMetadataError struct {
	BranchName string
	Reason     string
}

func (e *CorruptMetadataError) Error() string {
	return fmt.Sprintf("corrupt metadata for branch %s: %s", e.BranchName, e.Reason)
}

// NewCorruptMetadataError creates a new CorruptMetadataError
func NewCorruptMetadataError(branchName, reason string) *CorruptMetadataError {
	return &CorruptMetadataError{BranchName: branchName, Reason: reason}
}

// KilledError is returned when the user cancels an interactive confirmation.
// It is a clean abort rather than a failure.
type KilledError struct{}

func (e *KilledError) Error() string {
	return "killed by user"
}

// NewKilledError creates a new KilledError
func NewKilledError() *KilledError {
	return &KilledError{}
}

// IsKilled reports whether err is or wraps a KilledError
func IsKilled(err error) bool {
	var killed *KilledError
	return errors.As(err, &killed)
}

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// RebaseConflictError is reported when an operation stopped at a rebase conflict
// and saved a checkpoint for continue.
type RebaseConflictError struct {
	BranchName string
	Message    string
}

func (e *RebaseConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rebase conflict on branch %s: %s", e.BranchName, e.Message)
	}
	return fmt.Sprintf("rebase conflict on branch %s", e.BranchName)
}

// Is returns true if the target error is ErrRebaseConflict
func (e *RebaseConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// NewRebaseConflictError creates a new RebaseConflictError
func NewRebaseConflictError(branchName string, message string) *RebaseConflictError {
	return &RebaseConflictError{
		BranchName: branchName,
		Message:    message,
	}
}
