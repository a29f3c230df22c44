package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

// MaxPhotoSize is the upper bound for a visitor photo upload
const MaxPhotoSize = 5 << 20

var (
	ErrFileTooLarge     = errors.New("file exceeds the 5 MB limit")
	ErrInvalidFileType  = errors.New("invalid file type: only jpeg, png, gif, webp allowed")
	allowedImageFormats = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
)

// UploadedFile describes a stored blob
type UploadedFile struct {
	Path string // storage path, e.g. visitors/<uuid>.png
	URL  string // public reference kept on the visitor record
}

type FileService interface {
	// UploadVisitorPhoto validates and stores a visitor photo
	UploadVisitorPhoto(ctx context.Context, file io.Reader, filename string) (UploadedFile, error)

	// DeleteFile removes a stored blob by its storage path
	DeleteFile(ctx context.Context, path string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadVisitorPhoto reads at most MaxPhotoSize bytes, sniffs the content type
// and stores the photo under a random name with an extension matching its content.
func (s *fileServiceImpl) UploadVisitorPhoto(ctx context.Context, file io.Reader, filename string) (UploadedFile, error) {
	buffer, err := io.ReadAll(io.LimitReader(file, MaxPhotoSize+1))
	if err != nil {
		return UploadedFile{}, fmt.Errorf("failed to read photo: %w", err)
	}
	if len(buffer) > MaxPhotoSize {
		return UploadedFile{}, ErrFileTooLarge
	}

	contentType := http.DetectContentType(buffer)
	ext, ok := allowedImageFormats[contentType]
	if !ok {
		slog.Debug("Rejected visitor photo", "filename", filename, "content_type", contentType)
		return UploadedFile{}, ErrInvalidFileType
	}

	p := path.Join("visitors", uuid.New().String()+ext)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(buffer), p, contentType)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("failed to upload visitor photo: %w", err)
	}

	return UploadedFile{Path: uploadedPath, URL: s.storage.URL(uploadedPath)}, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}
