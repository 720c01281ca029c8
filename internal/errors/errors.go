package errors

import (
	"errors"
	"fmt"
)

// Exit codes for the CLI.
const (
	ExitSuccess = 0
	ExitUser    = 1
	ExitSystem  = 2
)

// Failure kinds. The set is closed; callers branch on these with errors.Is.
var (
	// ErrCatalogUnavailable indicates the release index could not be fetched or decoded.
	ErrCatalogUnavailable = errors.New("release catalog unavailable")
	// ErrNotFound indicates a version token did not resolve.
	ErrNotFound = errors.New("version not found")
	// ErrPlatformUnsupported indicates the host, or the requested version, has no build.
	ErrPlatformUnsupported = errors.New("platform unsupported")
	// ErrDownloadFailed indicates a transport failure while fetching an artifact.
	ErrDownloadFailed = errors.New("download failed")
	// ErrChecksumMismatch indicates the artifact failed integrity verification.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrExtractFailed indicates the archive could not be unpacked.
	ErrExtractFailed = errors.New("extract failed")
	// ErrNotInstalled indicates the target version has no installed binary.
	ErrNotInstalled = errors.New("version not installed")
	// ErrLocked indicates another zpm process holds the install lock.
	ErrLocked = errors.New("another zpm operation is in progress")
)

var kinds = []error{
	ErrCatalogUnavailable,
	ErrNotFound,
	ErrPlatformUnsupported,
	ErrDownloadFailed,
	ErrChecksumMismatch,
	ErrExtractFailed,
	ErrNotInstalled,
	ErrLocked,
}

// Error is a failure of a known kind with optional detail and cause.
type Error struct {
	// Kind is one of the package sentinels.
	Kind error
	// Detail is a short description of what was being attempted.
	Detail string
	// Err is the underlying cause, if any.
	Err error
}

// New returns an error of the given kind with a formatted detail.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of the given kind caused by err.
// It returns nil if err is nil.
func Wrap(kind error, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the sentinel matching err, or nil if err is of no known kind.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	switch KindOf(err) {
	case ErrNotFound, ErrNotInstalled, ErrPlatformUnsupported, ErrLocked:
		return ExitUser
	default:
		return ExitSystem
	}
}

// Suggestion returns an actionable hint for err, or "" if there is none.
func Suggestion(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		return exitErr.Suggestion
	}
	switch KindOf(err) {
	case ErrNotFound:
		return "Run: zpm list --remote"
	case ErrNotInstalled:
		return "Run: zpm list to see installed versions"
	case ErrCatalogUnavailable, ErrDownloadFailed:
		return "Check your network connection and re-run the command"
	case ErrChecksumMismatch:
		return "The downloaded archive was kept in the cache; delete it and re-run the command"
	case ErrExtractFailed:
		return "Run: zpm uninstall <version>, then install it again"
	case ErrLocked:
		return "Wait for the other zpm process to finish"
	default:
		return ""
	}
}

// ExitError wraps an error with an explicit exit code and suggestion.
type ExitError struct {
	Err        error
	Code       int
	Suggestion string
}

// NewUserError returns an ExitError with ExitUser code.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUser, Suggestion: suggestion}
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
