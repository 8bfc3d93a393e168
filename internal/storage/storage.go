// Package storage puts uploaded files somewhere durable and hands back a
// public URL. The local driver writes under UPLOAD_DIR and is served by the
// router at /uploads; the oss driver writes to an Aliyun OSS bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/farisarabic/faris-backend/internal/config"
)

// Sentinel errors for blob operations.
var (
	ErrNotFound            = errors.New("blob not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// BlobStore stores objects under slash-separated keys.
type BlobStore interface {
	// Put writes r under key and returns the public URL of the object.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	// Delete removes the object. A missing object yields ErrNotFound.
	Delete(ctx context.Context, key string) error
}

// New builds the BlobStore selected by cfg.StorageDriver.
func New(cfg *config.Config) (BlobStore, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverLocal, "":
		return NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL), nil
	case config.StorageDriverOSS:
		return NewOSSStore(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey, cfg.OSSBucket, cfg.OSSPublicBase)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// SafeName reduces an uploaded filename to characters that are safe in an
// object key. Arabic letters are kept.
func SafeName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "file"
	}
	return base
}

// ExamAnswerKey is the object key of a student's uploaded answer sheet.
func ExamAnswerKey(studentID, examID uuid.UUID, filename string) string {
	return fmt.Sprintf("exam_answers/%s/%s/%s-%s", studentID, examID, uuid.NewString(), SafeName(filename))
}

// ExamFileKey is the object key of the question paper of a file exam.
func ExamFileKey(filename string) string {
	return fmt.Sprintf("exams/%s-%s", uuid.NewString(), SafeName(filename))
}

// LibraryKey is the object key of a library PDF.
func LibraryKey(filename string) string {
	return fmt.Sprintf("library/%s-%s", uuid.NewString(), SafeName(filename))
}

// ProfileImageKey is the object key of the converted doctor portrait.
func ProfileImageKey() string {
	return fmt.Sprintf("settings/doctor-%s.webp", uuid.NewString())
}

// ReadLimited reads at most limit bytes from r and fails with
// ErrFileTooLarge if there is more.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: max %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}

// SniffPDF checks the content, not the declared header, for a PDF.
func SniffPDF(data []byte) error {
	mt := mimetype.Detect(data)
	if !mt.Is("application/pdf") {
		return fmt.Errorf("%w: %s (allowed: application/pdf)", ErrUnsupportedFileType, mt.String())
	}
	return nil
}

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// SniffImage returns the detected MIME type when data is a supported image.
func SniffImage(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%w: %s (allowed: %s)",
		ErrUnsupportedFileType, mt.String(), strings.Join(allowedImageTypes, ", "))
}
