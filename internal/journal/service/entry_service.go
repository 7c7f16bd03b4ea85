package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	autherror "github.com/Yrcd27/mirror-auth-service/internal/errors"
	"github.com/Yrcd27/mirror-auth-service/internal/journal/domain"
	"github.com/Yrcd27/mirror-auth-service/internal/journal/dto"
)

type EntryService struct {
	repo domain.EntryRepository
}

func NewEntryService(repo domain.EntryRepository) *EntryService {
	return &EntryService{repo: repo}
}

func (s *EntryService) Create(ctx context.Context, userID string, input dto.EntryInput) (*domain.Entry, error) {
	now := time.Now()
	entry := &domain.Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *EntryService) Get(ctx context.Context, userID, id string) (*domain.Entry, error) {
	entry, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, autherror.ErrEntryNotFound
	}
	return entry, nil
}

func (s *EntryService) List(ctx context.Context, userID string) ([]*domain.Entry, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *EntryService) Update(ctx context.Context, userID, id string, input dto.EntryInput) (*domain.Entry, error) {
	entry := &domain.Entry{
		ID:        id,
		UserID:    userID,
		Title:     input.Title,
		Content:   input.Content,
		UpdatedAt: time.Now(),
	}

	updated, err := s.repo.Update(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, autherror.ErrEntryNotFound
	}

	return entry, nil
}

func (s *EntryService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return autherror.ErrEntryNotFound
	}
	return nil
}
