package domain

import (
	"html/template"
	"io"
	"time"
)

// ImageUpload is the file part of an analysis request.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// AnalysisRequest carries everything one request needs. APIKey is used for the
// remote call only and is never stored or logged.
type AnalysisRequest struct {
	APIKey string
	// Image is nil when the form had no file part.
	Image *ImageUpload
}

// StoredImage describes an upload after it was written to the upload directory.
type StoredImage struct {
	OriginalName string
	StoredName   string
	Path         string
	Size         int64
	StoredAt     time.Time
}

// VisionRequest is a single-turn multimodal chat request: one user message made
// of a text part and an image part.
type VisionRequest struct {
	Model        string
	Prompt       string
	ImageDataURI string
}

// Analysis is the outcome of a successful request.
type Analysis struct {
	ImageDataURI string
	Markdown     string
	HTML         template.HTML
	Model        string
	Duration     time.Duration
}
