package model

import (
	"errors"
	"fmt"
)

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// shell integrations to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitNotGitRepository indicates the working directory is not inside
	// a git repository.
	ExitNotGitRepository ExitCode = 2

	// ExitLaneAlreadyExists indicates the lane directory is already present.
	ExitLaneAlreadyExists ExitCode = 3

	// ExitWorktreeCreationFailed indicates `git worktree add` failed.
	ExitWorktreeCreationFailed ExitCode = 4

	// ExitGitError indicates any other git operation failed.
	ExitGitError ExitCode = 5

	// ExitLaneNotFound indicates the named lane is not registered
	// (or its directory is gone).
	ExitLaneNotFound ExitCode = 6

	// ExitUserCancelled indicates the user cancelled an interactive prompt.
	ExitUserCancelled ExitCode = 7

	// ExitWorktreeRemovalFailed indicates the lane's worktree could not be
	// removed, so the lane is still registered.
	ExitWorktreeRemovalFailed ExitCode = 8
)

// ErrorKind names a failure of the lane lifecycle independently of how it
// is reported (exit code, JSON, warning).
type ErrorKind string

const (
	KindGeneral                ErrorKind = "Error"
	KindNotAGitRepository      ErrorKind = "NotAGitRepository"
	KindLaneAlreadyExists      ErrorKind = "LaneAlreadyExists"
	KindWorktreeCreationFailed ErrorKind = "WorktreeCreationFailed"
	KindWorktreeRemovalFailed  ErrorKind = "WorktreeRemovalFailed"
	KindLaneNotFound           ErrorKind = "LaneNotFound"
	KindGitError               ErrorKind = "GitError"
	KindUserCancelled          ErrorKind = "UserCancelled"

	// Warning-only kinds. These never abort an operation.
	KindBranchDeletionFailed ErrorKind = "BranchDeletionFailed"
	KindReplicationFailed    ErrorKind = "ReplicationFailed"
	KindInstallFailed        ErrorKind = "InstallFailed"
)

// kindByCode maps exit codes back to their lifecycle error kind.
var kindByCode = map[ExitCode]ErrorKind{
	ExitGeneralError:           KindGeneral,
	ExitNotGitRepository:       KindNotAGitRepository,
	ExitLaneAlreadyExists:      KindLaneAlreadyExists,
	ExitWorktreeCreationFailed: KindWorktreeCreationFailed,
	ExitGitError:               KindGitError,
	ExitLaneNotFound:           KindLaneNotFound,
	ExitUserCancelled:          KindUserCancelled,
	ExitWorktreeRemovalFailed:  KindWorktreeRemovalFailed,
}

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// Kind returns the lifecycle error kind for this error's exit code.
func (e *CLIError) Kind() ErrorKind {
	if k, ok := kindByCode[e.Code]; ok {
		return k
	}
	return KindGeneral
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// KindOf extracts the lifecycle error kind from any error chain.
// Errors that carry no CLIError are reported as KindGeneral; nil as "".
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Kind()
	}
	return KindGeneral
}

// CodeOf extracts the exit code from any error chain.
func CodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
