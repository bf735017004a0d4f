package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyScope reports that a retrieval scope contains no indexed chunks.
// Commands surface it as "no documents loaded" guidance instead of calling
// the generator.
var ErrEmptyScope = errors.New("no chunks indexed in scope")

// ConfigError reports an invalid parameter value. Fatal to the command.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// NotFoundError reports an unknown document or collection, listing what is
// available so the user can correct the command.
type NotFoundError struct {
	Kind      string
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %q not found (available: %s)", e.Kind, e.Name, strings.Join(e.Available, ", "))
}

// ServiceError wraps a collaborator failure (embedding, generation, vector
// store). Retryable marks transient conditions the retry policy may attempt
// again.
type ServiceError struct {
	Service   string
	Retryable bool
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a collaborator failure marked transient.
func IsRetryable(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Retryable
}

// SummaryError identifies the group whose generation call failed during
// hierarchical summarization. The whole summary is aborted: a partial tree
// would misrepresent document coverage.
type SummaryError struct {
	Level      int
	Group      int
	FirstChunk int
	LastChunk  int
	Err        error
}

func (e *SummaryError) Error() string {
	return fmt.Sprintf("summarization failed at level %d group %d (chunks %d-%d): %v",
		e.Level, e.Group, e.FirstChunk, e.LastChunk, e.Err)
}

func (e *SummaryError) Unwrap() error { return e.Err }

// UnsupportedFormatError reports a document extension the extractor cannot
// handle.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q: %s", e.Ext, e.Path)
}
