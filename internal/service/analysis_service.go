package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shriyashpachpande/medical-imaging-agent/internal/config"
	"github.com/shriyashpachpande/medical-imaging-agent/internal/domain"
	"github.com/shriyashpachpande/medical-imaging-agent/pkg/utils"
)

// The data URI always claims JPEG whatever the upload's extension.
const imageMimeType = "image/jpeg"

type AnalysisService interface {
	// Analyze validates the request, stores the upload and returns the rendered
	// analysis. Rejections are domain sentinel errors; anything failing after
	// validation is a *domain.AnalysisError.
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.Analysis, error)
	// AnalyzeFile runs the same pipeline on a file already on disk.
	AnalyzeFile(ctx context.Context, apiKey, path string) (*domain.Analysis, error)
}

type analysisService struct {
	store    UploadStore
	archiver Archiver
	vision   VisionClient
	renderer Renderer
	model    string
	allowed  []string
	log      *zap.Logger
}

type Option func(*analysisService)

// WithArchiver mirrors every stored upload. Archive failures are logged only.
func WithArchiver(a Archiver) Option {
	return func(s *analysisService) {
		s.archiver = a
	}
}

func NewAnalysisService(cfg *config.Config, store UploadStore, vision VisionClient, renderer Renderer, log *zap.Logger, opts ...Option) AnalysisService {
	s := &analysisService{
		store:    store,
		vision:   vision,
		renderer: renderer,
		model:    cfg.Groq.Model,
		allowed:  cfg.App.AllowedExtensions,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *analysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.Analysis, error) {
	req.APIKey = strings.TrimSpace(req.APIKey)
	if err := ValidateRequest(req, s.allowed); err != nil {
		s.log.Info("Analysis request rejected", zap.Error(err))
		return nil, err
	}

	stored, err := s.store.Save(ctx, req.Image.Filename, req.Image.Content)
	if err != nil {
		s.log.Error("Failed to store upload",
			zap.String("filename", req.Image.Filename),
			zap.Error(err))
		return nil, domain.NewAnalysisError(err)
	}

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, stored); err != nil {
			s.log.Warn("Failed to archive upload",
				zap.String("filename", stored.StoredName),
				zap.Error(err))
		}
	}

	return s.analyzePath(ctx, req.APIKey, stored.Path)
}

func (s *analysisService) AnalyzeFile(ctx context.Context, apiKey, path string) (*domain.Analysis, error) {
	apiKey = strings.TrimSpace(apiKey)
	if err := ValidateRequest(domain.AnalysisRequest{
		APIKey: apiKey,
		Image:  &domain.ImageUpload{Filename: path},
	}, s.allowed); err != nil {
		return nil, err
	}
	return s.analyzePath(ctx, apiKey, path)
}

func (s *analysisService) analyzePath(ctx context.Context, apiKey, path string) (*domain.Analysis, error) {
	encoded, err := utils.EncodeFileBase64(path)
	if err != nil {
		s.log.Error("Failed to encode image", zap.String("path", path), zap.Error(err))
		return nil, domain.NewAnalysisError(fmt.Errorf("failed to encode image: %w", err))
	}

	dataURI := utils.DataURI(imageMimeType, encoded)

	s.log.Info("Requesting analysis",
		zap.String("model", s.model),
		zap.Int("image_base64_len", len(encoded)))

	start := time.Now()
	markdown, err := s.vision.Complete(ctx, apiKey, domain.VisionRequest{
		Model:        s.model,
		Prompt:       BuildPrompt(encoded),
		ImageDataURI: dataURI,
	})
	elapsed := time.Since(start)
	if err != nil {
		s.log.Error("Analysis call failed",
			zap.String("model", s.model),
			zap.Duration("latency", elapsed),
			zap.Error(err))
		return nil, domain.NewAnalysisError(err)
	}

	html, err := s.renderer.Render(markdown)
	if err != nil {
		s.log.Error("Failed to render analysis", zap.Error(err))
		return nil, domain.NewAnalysisError(fmt.Errorf("failed to render analysis: %w", err))
	}

	s.log.Info("Analysis completed",
		zap.String("model", s.model),
		zap.Duration("latency", elapsed),
		zap.Int("markdown_len", len(markdown)))

	return &domain.Analysis{
		ImageDataURI: dataURI,
		Markdown:     markdown,
		HTML:         html,
		Model:        s.model,
		Duration:     elapsed,
	}, nil
}
