// Package errors provides the typed error hierarchy for rxrename.
// Errors carry a category so the command layer can tell fatal argument problems
// apart from per-entry filesystem warnings and per-item rename failures.
package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// ErrorType represents the category of an error.
// The command layer inspects the category, not the message, to decide whether a
// failure aborts the run, is logged and skipped, or is recorded against one rename.
type ErrorType string

// Error categories. Argument errors abort the run before anything is enumerated.
// Filesystem errors are fatal only for the root directory; rename errors stay with
// the op that raised them.
const (
	ErrTypeArgument   ErrorType = "argument"
	ErrTypeFilesystem ErrorType = "filesystem"
	ErrTypeRename     ErrorType = "rename"
)

// RxError is the base error type shared by every category.
// Path names the file or directory the error is about and may be empty. Cause keeps
// the underlying os or syscall error so errors.Is(err, fs.ErrExist) and similar
// checks still work through the wrapper.
type RxError struct {
	Type    ErrorType
	Path    string
	Message string
	Cause   error
}

func (e *RxError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Path, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

func (e *RxError) Unwrap() error {
	return e.Cause
}

// Is reports category identity so errors.Is(err, &RxError{Type: ErrTypeRename})
// matches any rename error regardless of path or message.
func (e *RxError) Is(target error) bool {
	t, ok := target.(*RxError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ArgumentError represents invalid or missing command-line input: a missing regex or
// template, a pattern that does not compile, a directory that does not exist, or an
// unknown flag value. It is always fatal and is raised before any file is enumerated.
type ArgumentError struct {
	*RxError
}

// NewArgumentError creates an argument error without path context.
func NewArgumentError(message string, cause error) *ArgumentError {
	return &ArgumentError{
		RxError: &RxError{
			Type:    ErrTypeArgument,
			Message: message,
			Cause:   cause,
		},
	}
}

// NewArgumentErrorWithPath creates an argument error about a path given on the command line.
func NewArgumentErrorWithPath(path, message string, cause error) *ArgumentError {
	return &ArgumentError{
		RxError: &RxError{
			Type:    ErrTypeArgument,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// FilesystemAccessError represents a directory or entry that could not be read.
// For the root directory it ends the run. For entries below the root the enumerator
// logs it and carries on without the entry.
type FilesystemAccessError struct {
	*RxError
}

// NewFilesystemAccessError creates a filesystem access error.
func NewFilesystemAccessError(path, message string, cause error) *FilesystemAccessError {
	return &FilesystemAccessError{
		RxError: &RxError{
			Type:    ErrTypeFilesystem,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// RenameExecutionError represents a single rename that failed while committing a plan.
// Path is the source and Target the destination. The failure is recorded for that one
// op and the executor moves on to the next, so a run can end with some renames
// applied and some failed.
type RenameExecutionError struct {
	*RxError
	Target string
}

// NewRenameExecutionError creates a rename error for source -> target.
func NewRenameExecutionError(source, target string, cause error) *RenameExecutionError {
	return &RenameExecutionError{
		RxError: &RxError{
			Type:    ErrTypeRename,
			Path:    source,
			Message: "cannot rename to " + target,
			Cause:   cause,
		},
		Target: target,
	}
}

// NewRenameFailuresError reports that some renames of a committed plan failed.
// The individual failures have already been reported per file.
func NewRenameFailuresError(failed, total int) *RxError {
	return &RxError{
		Type:    ErrTypeRename,
		Message: fmt.Sprintf("%d of %d renames failed", failed, total),
	}
}

// WrapFileError converts an error returned by the os package into a FilesystemAccessError
// with a message describing its cause.
func WrapFileError(path string, err error) error {
	if err == nil {
		return nil
	}

	absPath, absErr := filepath.Abs(path)
	if absErr != nil {
		absPath = path
	}

	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return NewFilesystemAccessError(absPath, "no such file or directory", err)
	case stderrors.Is(err, fs.ErrPermission):
		return NewFilesystemAccessError(absPath, "permission denied", err)
	default:
		return NewFilesystemAccessError(absPath, "file operation failed", err)
	}
}

// IsArgument reports whether err is, or wraps, an argument error.
// The command layer uses it to point the user at the usage text.
func IsArgument(err error) bool {
	return stderrors.Is(err, &RxError{Type: ErrTypeArgument})
}

// IsRename reports whether err is, or wraps, a rename execution error, including the
// aggregate error returned for a committed run with failures.
func IsRename(err error) bool {
	return stderrors.Is(err, &RxError{Type: ErrTypeRename})
}
