package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andreicopos/UrbanEye/config"
	apiError "github.com/andreicopos/UrbanEye/errors"
	"github.com/andreicopos/UrbanEye/storage"
)

const defaultImageExt = ".jpg"

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// StoredImage is an image persisted in the blob store.
type StoredImage struct {
	Name        string
	Ref         string
	ContentType string
}

type MediaService interface {
	SaveImage(ctx context.Context, data []byte, filenameHint string) (*StoredImage, error)
	OpenImage(ctx context.Context, name string) (*storage.Object, error)
	DeleteImage(ctx context.Context, name string) error
}

type mediaService struct {
	Config *config.Config
	store  storage.BlobStore
	now    func() time.Time
}

func NewMediaService(store storage.BlobStore, conf *config.Config) MediaService {
	return &mediaService{
		Config: conf,
		store:  store,
		now:    time.Now,
	}
}

// SaveImage sniffs the bytes, picks an extension and writes the blob under a
// fresh name. A name that already exists is regenerated.
func (m *mediaService) SaveImage(ctx context.Context, data []byte, filenameHint string) (*StoredImage, error) {
	if len(data) == 0 {
		return nil, apiError.NewValidationError("image", "image is required")
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apiError.NewValidationError("image", "file is not an image")
	}
	ext := imageExtension(filenameHint, contentType)

	for attempt := 0; attempt < 3; attempt++ {
		name := generateImageName(m.now(), ext)
		err := m.store.Put(ctx, name, bytes.NewReader(data), int64(len(data)), contentType)
		if errors.Is(err, storage.ErrExists) {
			continue
		}
		if err != nil {
			return nil, apiError.NewTransientError("image storage", err)
		}
		return &StoredImage{Name: name, Ref: m.imageRef(name), ContentType: contentType}, nil
	}
	return nil, apiError.Internal(fmt.Errorf("could not allocate a unique image name"))
}

func (m *mediaService) OpenImage(ctx context.Context, name string) (*storage.Object, error) {
	obj, err := m.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			return nil, apiError.NewNotFoundError("image", name)
		}
		return nil, apiError.NewTransientError("image storage", err)
	}
	return obj, nil
}

func (m *mediaService) DeleteImage(ctx context.Context, name string) error {
	return m.store.Delete(ctx, name)
}

func (m *mediaService) imageRef(name string) string {
	base := m.Config.ImageBaseURL
	if base == "" {
		base = "/images/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + name
}

// generateImageName gives report_<unix>_<8 hex><ext>. The random part keeps
// same-second submissions apart.
func generateImageName(now time.Time, ext string) string {
	return fmt.Sprintf("report_%d_%s%s", now.Unix(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8], ext)
}

func imageExtension(hint, contentType string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(hint)))
	if ext == "" {
		return defaultImageExt
	}
	if allowedImageExts[ext] {
		return ext
	}
	if e, ok := extByContentType[contentType]; ok {
		return e
	}
	return defaultImageExt
}
