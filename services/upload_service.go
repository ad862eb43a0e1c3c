package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/pkg/storage"
)

// DefaultUploadFolder, folder alanı boş gelirse kullanılır.
const DefaultUploadFolder = "general"

// UploadService, admin görsel yükleme iş mantığı.
type UploadService interface {
	UploadImage(ctx context.Context, folder string, file multipart.File, header *multipart.FileHeader) (*models.UploadResult, error)
	DeleteImage(ctx context.Context, path string) error
}

type uploadService struct {
	store   storage.ImageStore
	maxSize int64
	now     func() time.Time
}

// NewUploadService, constructor. store GitHub ya da disk olabilir.
func NewUploadService(store storage.ImageStore, maxSize int64) UploadService {
	return &uploadService{
		store:   store,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// allowedMimeTypes, içerikten tespit edilen türe göre kontrol edilir;
// istemcinin gönderdiği Content-Type'a güvenilmez.
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func (s *uploadService) UploadImage(ctx context.Context, folder string, file multipart.File, header *multipart.FileHeader) (*models.UploadResult, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		folder = DefaultUploadFolder
	}
	if err := validation.Validate(folder, validation.In("general", "events", "blog")); err != nil {
		return nil, fmt.Errorf("%w: invalid folder", pkg.ErrBadRequest)
	}

	if header.Size > s.maxSize {
		return nil, fmt.Errorf("%w: file too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}

	// Header.Size yalan olabilir; okurken de sınırla.
	content, err := io.ReadAll(io.LimitReader(file, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > s.maxSize {
		return nil, fmt.Errorf("%w: file too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty file", pkg.ErrBadRequest)
	}

	mimeType := http.DetectContentType(content)
	if !allowedMimeTypes[mimeType] {
		return nil, fmt.Errorf("%w: file type not allowed: %s", pkg.ErrBadRequest, mimeType)
	}

	repoPath, err := storage.ImagePath(folder, storage.GenerateFilename(header.Filename, s.now()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkg.ErrBadRequest, err)
	}

	url, err := s.store.Put(ctx, repoPath, content)
	if err != nil {
		return nil, fmt.Errorf("failed to store image via %s: %w", s.store.Name(), err)
	}

	log.Printf("[upload] stored %s (%d bytes) via %s", repoPath, len(content), s.store.Name())
	return &models.UploadResult{URL: url, Path: repoPath}, nil
}

func (s *uploadService) DeleteImage(ctx context.Context, path string) error {
	repoPath, err := storage.CheckPath(path)
	if err != nil {
		return fmt.Errorf("%w: invalid image path", pkg.ErrBadRequest)
	}

	if err := s.store.Delete(ctx, repoPath); err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return fmt.Errorf("%w: image", pkg.ErrNotFound)
		}
		return fmt.Errorf("failed to delete image via %s: %w", s.store.Name(), err)
	}

	log.Printf("[upload] deleted %s via %s", repoPath, s.store.Name())
	return nil
}
