package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/storage"
	"github.com/farisarabic/faris-backend/internal/video"
)

// ContentService administers the library and the video explanations.
type ContentService struct {
	library      LibraryStore
	explanations ExplanationStore
	blobs        storage.BlobStore
	maxUpload    int64
	log          zerolog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(
	library LibraryStore,
	explanations ExplanationStore,
	blobs storage.BlobStore,
	maxUpload int64,
	log zerolog.Logger,
) *ContentService {
	return &ContentService{
		library:      library,
		explanations: explanations,
		blobs:        blobs,
		maxUpload:    maxUpload,
		log:          log.With().Str("component", "content_service").Logger(),
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ListLibrary returns every library file, or those of one grade.
func (s *ContentService) ListLibrary(ctx context.Context, grade string) ([]model.LibraryFile, error) {
	files, err := s.library.List(ctx, grade)
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	if files == nil {
		files = []model.LibraryFile{}
	}
	return files, nil
}

// CreateLibraryFile stores a PDF and its catalog entry.
func (s *ContentService) CreateLibraryFile(ctx context.Context, req model.LibraryFileRequest, file *Upload) (*model.LibraryFile, error) {
	if file == nil {
		return nil, ErrFileRequired
	}
	data, err := storage.ReadLimited(file.Reader, s.maxUpload)
	if err != nil {
		return nil, err
	}
	if err := storage.SniffPDF(data); err != nil {
		return nil, err
	}

	key := storage.LibraryKey(file.Filename)
	url, err := s.blobs.Put(ctx, key, bytes.NewReader(data), "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("store library file: %w", err)
	}

	f := &model.LibraryFile{
		Title:       strings.TrimSpace(req.Title),
		Description: optional(req.Description),
		Grade:       req.Grade,
		FileURL:     url,
		FilePath:    key,
	}
	if err := s.library.Create(ctx, f); err != nil {
		s.deleteBlob(ctx, key)
		return nil, fmt.Errorf("create library file: %w", err)
	}
	s.log.Info().Str("file_id", f.ID.String()).Str("grade", f.Grade).Msg("Library file created")
	return f, nil
}

// DeleteLibraryFile removes the entry and its blob.
func (s *ContentService) DeleteLibraryFile(ctx context.Context, id uuid.UUID) error {
	f, err := s.library.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get library file: %w", err)
	}
	if err := s.library.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete library file: %w", err)
	}
	s.deleteBlob(ctx, f.FilePath)
	return nil
}

func (s *ContentService) deleteBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to delete blob")
	}
}

// ListExplanations returns every video lesson, or those of one grade.
func (s *ContentService) ListExplanations(ctx context.Context, grade string) ([]model.Explanation, error) {
	items, err := s.explanations.List(ctx, grade)
	if err != nil {
		return nil, fmt.Errorf("list explanations: %w", err)
	}
	if items == nil {
		items = []model.Explanation{}
	}
	for i := range items {
		items[i].EmbedID = video.EmbedID(items[i].VideoURL)
	}
	return items, nil
}

func (s *ContentService) CreateExplanation(ctx context.Context, req model.ExplanationRequest) (*model.Explanation, error) {
	e := &model.Explanation{
		Title:       strings.TrimSpace(req.Title),
		Description: optional(req.Description),
		Grade:       req.Grade,
		VideoURL:    strings.TrimSpace(req.VideoURL),
	}
	if err := s.explanations.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create explanation: %w", err)
	}
	e.EmbedID = video.EmbedID(e.VideoURL)
	return e, nil
}

func (s *ContentService) DeleteExplanation(ctx context.Context, id uuid.UUID) error {
	if err := s.explanations.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete explanation: %w", err)
	}
	return nil
}
