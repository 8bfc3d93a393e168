package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
)

// ContactService stores contact-form messages for the admins.
type ContactService struct {
	messages ContactStore
}

func NewContactService(messages ContactStore) *ContactService {
	return &ContactService{messages: messages}
}

// Submit stores a public message as unread.
func (s *ContactService) Submit(ctx context.Context, req model.ContactMessageRequest) (*model.ContactMessage, error) {
	m := &model.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

func (s *ContactService) List(ctx context.Context, page, perPage int) ([]model.ContactMessage, *response.Pagination, error) {
	pagination, limit, offset := response.NewPagination(page, perPage)
	items, total, err := s.messages.ListPaginated(ctx, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("list messages: %w", err)
	}
	if items == nil {
		items = []model.ContactMessage{}
	}
	return items, pagination.SetTotal(total), nil
}

// ToggleRead flips the read flag and returns its new value.
func (s *ContactService) ToggleRead(ctx context.Context, id uuid.UUID) (bool, error) {
	read, err := s.messages.ToggleRead(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("toggle read: %w", err)
	}
	return read, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
