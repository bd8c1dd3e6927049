package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks staged fields that cannot become a Record.
	ErrValidation = errors.New("validation error")
	// ErrMissingOrInvalidDate is the validation failure for an absent,
	// non-numeric, or out-of-range day, month, or year.
	ErrMissingOrInvalidDate = fmt.Errorf("%w: missing or invalid date", ErrValidation)
	// ErrCodec marks archive documents that could not be read, parsed, or written.
	ErrCodec = errors.New("archive codec error")
	// ErrNotMapping is reported when a document or record is not a mapping.
	ErrNotMapping = errors.New("expected a mapping")
)

// ValidationError describes the first staged field that failed validation.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrMissingOrInvalidDate }

// CodecError reports a failed load or save. Both ErrCodec and the underlying
// cause are reachable through errors.Is.
type CodecError struct {
	Op   string
	Path string
	Err  error
}

func (e *CodecError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("archive %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("archive %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *CodecError) Unwrap() []error { return []error{ErrCodec, e.Err} }
