package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_entry_repository.go -package=mocks github.com/Yrcd27/mirror-auth-service/internal/journal/domain EntryRepository

// Entry is a single journal entry, always scoped to its owner.
type Entry struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type EntryRepository interface {
	Create(ctx context.Context, entry *Entry) error
	// GetByID returns nil when no entry with that id belongs to the user.
	GetByID(ctx context.Context, userID, id string) (*Entry, error)
	ListByUserID(ctx context.Context, userID string) ([]*Entry, error)
	Update(ctx context.Context, entry *Entry) (bool, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}
