package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential   = errors.New("missing api key")
	ErrMissingFilePart     = errors.New("missing image file part")
	ErrEmptyFilename       = errors.New("empty filename")
	ErrDisallowedExtension = errors.New("disallowed file extension")
)

// AnalysisError wraps any failure after validation passed: storing, encoding,
// the remote call or rendering.
type AnalysisError struct {
	Err error
}

func NewAnalysisError(err error) *AnalysisError {
	return &AnalysisError{Err: err}
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// IsRejection reports whether err is one of the validation rejections.
func IsRejection(err error) bool {
	return errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrMissingFilePart) ||
		errors.Is(err, ErrEmptyFilename) ||
		errors.Is(err, ErrDisallowedExtension)
}
