package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shriyashpachpande/medical-imaging-agent/internal/domain"
	"github.com/shriyashpachpande/medical-imaging-agent/pkg/utils"
)

// LocalStore writes uploads into a single directory under their sanitized
// client filename. Uploads with the same sanitized name overwrite each other.
type LocalStore struct {
	dir string
	log *zap.Logger
}

func NewLocalStore(dir string, log *zap.Logger) *LocalStore {
	return &LocalStore{
		dir: dir,
		log: log,
	}
}

func (s *LocalStore) Save(ctx context.Context, filename string, body io.Reader) (*domain.StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := StoredName(filename)
	path := filepath.Join(s.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	size, err := io.Copy(file, body)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", path, err)
	}

	s.log.Info("Upload stored",
		zap.String("filename", name),
		zap.String("path", path),
		zap.Int64("size", size))

	return &domain.StoredImage{
		OriginalName: filename,
		StoredName:   name,
		Path:         path,
		Size:         size,
		StoredAt:     time.Now(),
	}, nil
}

// StoredName is the on-disk name for a client filename. When sanitizing leaves
// nothing, a random name keeps the original extension.
func StoredName(filename string) string {
	if name := utils.SecureFilename(filename); name != "" {
		return name
	}
	name := uuid.New().String()
	if ext := utils.Extension(filename); ext != "" {
		name += "." + strings.ToLower(ext)
	}
	return name
}
