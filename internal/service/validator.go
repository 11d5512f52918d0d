package service

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/shriyashpachpande/medical-imaging-agent/internal/domain"
	"github.com/shriyashpachpande/medical-imaging-agent/pkg/utils"
)

// DefaultAllowedExtensions is matched case-insensitively against the part of
// the filename after the last dot.
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "dicom"}

// ValidateRequest checks, in order: credential, file part, filename, extension.
// The first failing check decides the error.
func ValidateRequest(req domain.AnalysisRequest, allowed []string) error {
	if err := validation.Validate(strings.TrimSpace(req.APIKey), validation.Required); err != nil {
		return domain.ErrMissingCredential
	}
	if req.Image == nil {
		return domain.ErrMissingFilePart
	}
	if err := validation.Validate(req.Image.Filename, validation.Required); err != nil {
		return domain.ErrEmptyFilename
	}
	return ValidateFilename(req.Image.Filename, allowed)
}

// ValidateFilename accepts a filename whose extension is on the allow-list.
func ValidateFilename(filename string, allowed []string) error {
	if len(allowed) == 0 {
		allowed = DefaultAllowedExtensions
	}
	values := make([]interface{}, len(allowed))
	for i, ext := range allowed {
		values[i] = strings.ToLower(ext)
	}

	if err := validation.Validate(utils.Extension(filename), validation.Required, validation.In(values...)); err != nil {
		return domain.ErrDisallowedExtension
	}
	return nil
}
