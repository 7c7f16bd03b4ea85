package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Yrcd27/mirror-auth-service/internal/journal/domain"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DBTX
}

func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *domain.Entry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO journal_entries (id, user_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.UserID, entry.Title, entry.Content, entry.CreatedAt, entry.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*domain.Entry, error) {
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM journal_entries
		WHERE id = $1 AND user_id = $2
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, id, userID)

	var entry domain.Entry
	err := row.Scan(&entry.ID, &entry.UserID, &entry.Title, &entry.Content, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	return &entry, nil
}

func (r *PostgresRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Entry, error) {
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		var entry domain.Entry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Title, &entry.Content,
			&entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, entry *domain.Entry) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE journal_entries
		SET title = $3, content = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, entry.ID, entry.UserID, entry.Title, entry.Content)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM journal_entries WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
