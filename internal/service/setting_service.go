package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/storage"
)

// SettingService manages the doctor profile shown on the public pages.
type SettingService struct {
	settings SettingStore
	blobs    storage.BlobStore
	maxImage int64
	log      zerolog.Logger
}

func NewSettingService(settings SettingStore, blobs storage.BlobStore, maxImage int64, log zerolog.Logger) *SettingService {
	return &SettingService{
		settings: settings,
		blobs:    blobs,
		maxImage: maxImage,
		log:      log.With().Str("component", "setting_service").Logger(),
	}
}

// DoctorInfo returns the CV text and portrait URL. Missing keys read as empty.
func (s *SettingService) DoctorInfo(ctx context.Context) (*model.DoctorInfo, error) {
	m, err := s.settings.GetMany(ctx, model.SettingDoctorCV, model.SettingDoctorImageURL)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read doctor settings")
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &model.DoctorInfo{
		CVContent:    m[model.SettingDoctorCV].Value,
		ProfileImage: m[model.SettingDoctorImageURL].Value,
	}, nil
}

func (s *SettingService) UpdateDoctorCV(ctx context.Context, cv string) (*model.DoctorInfo, error) {
	if err := s.settings.Upsert(ctx, map[string]string{model.SettingDoctorCV: strings.TrimSpace(cv)}); err != nil {
		s.log.Error().Err(err).Msg("failed to update doctor cv")
		return nil, fmt.Errorf("upsert cv: %w", err)
	}
	return s.DoctorInfo(ctx)
}

// UpdateDoctorImage converts the uploaded portrait to WebP, stores it and
// removes the previous one.
func (s *SettingService) UpdateDoctorImage(ctx context.Context, file *Upload) (*model.DoctorInfo, error) {
	if file == nil {
		return nil, ErrFileRequired
	}
	data, err := storage.ReadLimited(file.Reader, s.maxImage)
	if err != nil {
		return nil, err
	}
	if _, err := storage.SniffImage(data); err != nil {
		return nil, err
	}
	webpData, err := storage.ToWebP(data)
	if err != nil {
		return nil, err
	}

	prev, err := s.settings.GetMany(ctx, model.SettingDoctorImagePath)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	key := storage.ProfileImageKey()
	url, err := s.blobs.Put(ctx, key, bytes.NewReader(webpData), "image/webp")
	if err != nil {
		return nil, fmt.Errorf("store profile image: %w", err)
	}

	err = s.settings.Upsert(ctx, map[string]string{
		model.SettingDoctorImageURL:  url,
		model.SettingDoctorImagePath: key,
	})
	if err != nil {
		s.deleteBlob(ctx, key)
		return nil, fmt.Errorf("upsert profile image: %w", err)
	}

	if old := prev[model.SettingDoctorImagePath].Value; old != "" && old != key {
		s.deleteBlob(ctx, old)
	}

	s.log.Info().Str("key", key).Msg("Doctor profile image updated")
	return s.DoctorInfo(ctx)
}

func (s *SettingService) deleteBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to delete blob")
	}
}
