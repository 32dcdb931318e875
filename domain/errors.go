package domain

import (
	"errors"
	"fmt"
)

// Commit failure reasons. CommitError.Is matches against these so callers
// can branch with errors.Is without unpacking the struct.
var (
	// ErrNoFallbackAvailable means the remote API attempt failed and no
	// local checkout path was supplied to fall back to.
	ErrNoFallbackAvailable = errors.New("remote commit failed and no local checkout is available")

	// ErrLocalCommitFailed means the local checkout attempt failed; there is
	// no further fallback.
	ErrLocalCommitFailed = errors.New("local checkout commit failed")
)

// TransportError is a network-level failure reaching the package registry.
type TransportError struct {
	Package string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("registry request for %q failed: %v", e.Package, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RegistryError is a non-success response status from the package registry.
type RegistryError struct {
	Package    string
	StatusCode int
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry returned status %d for package %q", e.StatusCode, e.Package)
}

// ParseError means a response body or document could not be decoded into the
// expected form.
type ParseError struct {
	Subject string // what was being parsed, e.g. a package name or file path
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s: %v", e.Subject, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError means the dependency table or the named entry is absent from
// a manifest.
type NotFoundError struct {
	Package string
	Detail  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dependency %q: %s", e.Package, e.Detail)
}

// ShapeError means a dependency entry is neither a bare version string nor a
// recognized table form, so its version cannot be patched safely.
type ShapeError struct {
	Package string
	Got     string // description of the unrecognized form
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("dependency %q has an unsupported shape: %s", e.Package, e.Got)
}

// SubprocessError is a non-zero exit from a version-control step.
type SubprocessError struct {
	Step   string // e.g. "add", "commit", "push", "rev-parse"
	Dir    string
	Output string
	Err    error
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("git %s in %s: %v", e.Step, e.Dir, e.Err)
}

func (e *SubprocessError) Unwrap() error { return e.Err }

// CommitError is the terminal failure of a commit unit. Reason is one of
// ErrNoFallbackAvailable or ErrLocalCommitFailed; Cause is the underlying
// failure of the last attempted strategy.
type CommitError struct {
	Repo     string
	FilePath string
	Reason   error
	Cause    error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %s in %s: %v: %v", e.FilePath, e.Repo, e.Reason, e.Cause)
}

func (e *CommitError) Is(target error) bool { return errors.Is(e.Reason, target) }

func (e *CommitError) Unwrap() error { return e.Cause }
