package service

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

import (
	"context"
	"html/template"
	"io"

	"github.com/shriyashpachpande/medical-imaging-agent/internal/domain"
)

type UploadStore interface {
	Save(ctx context.Context, filename string, body io.Reader) (*domain.StoredImage, error)
}

type Archiver interface {
	Archive(ctx context.Context, img *domain.StoredImage) error
}

type VisionClient interface {
	Complete(ctx context.Context, apiKey string, req domain.VisionRequest) (string, error)
}

type Renderer interface {
	Render(source string) (template.HTML, error)
}
