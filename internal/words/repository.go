// Package words provides the word domain model and repository.
package words

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/words/mock_repository.go -package=mock_words

// Word represents a vocabulary entry.
type Word struct {
	ID         int64        `db:"id"`
	Text       string       `db:"text"`
	Reading    string       `db:"reading"`
	Meaning    string       `db:"meaning"`
	SourceType string       `db:"source_type"`
	SourceText string       `db:"source_text"`
	SourceLink string       `db:"source_link"`
	IsFavorite bool         `db:"is_favorite"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
	DeletedAt  sql.NullTime `db:"deleted_at"`
}

// IsDeleted reports whether the word is soft-deleted.
func (w Word) IsDeleted() bool {
	return w.DeletedAt.Valid
}

// Repository defines operations for managing words.
type Repository interface {
	FindAll(ctx context.Context) ([]Word, error)
	FindByText(ctx context.Context, text string) (*Word, error)
	Save(ctx context.Context, word *Word) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	ToggleFavorite(ctx context.Context, id int64) error
}

// DBRepository implements Repository over the bootstrapped store handle. The
// same SQL runs on every storage tier.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindAll returns all words that are not soft-deleted, ordered by text.
func (r *DBRepository) FindAll(ctx context.Context) ([]Word, error) {
	var found []Word
	if err := r.db.SelectContext(ctx, &found, "SELECT * FROM words WHERE deleted_at IS NULL ORDER BY text"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(words) > %w", err)
	}
	return found, nil
}

// FindByText returns the word matching text, or nil if not found.
func (r *DBRepository) FindByText(ctx context.Context, text string) (*Word, error) {
	var w Word
	err := r.db.GetContext(ctx, &w, "SELECT * FROM words WHERE text = ?", text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(word) > %w", err)
	}
	return &w, nil
}

// Save inserts the word, or overwrites the existing row with the same text.
// The latest write wins on conflict: all mutable fields are replaced.
func (r *DBRepository) Save(ctx context.Context, word *Word) error {
	existing, err := r.FindByText(ctx, word.Text)
	if err != nil {
		return fmt.Errorf("r.FindByText > %w", err)
	}

	if existing == nil {
		result, err := r.db.ExecContext(ctx,
			`INSERT INTO words (text, reading, meaning, source_type, source_text, source_link, is_favorite)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			word.Text, word.Reading, word.Meaning, word.SourceType, word.SourceText, word.SourceLink, word.IsFavorite)
		if err != nil {
			return fmt.Errorf("db.ExecContext(insert word) > %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("result.LastInsertId > %w", err)
		}
		word.ID = id
		return nil
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE words
		SET reading = ?, meaning = ?, source_type = ?, source_text = ?, source_link = ?, is_favorite = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		word.Reading, word.Meaning, word.SourceType, word.SourceText, word.SourceLink, word.IsFavorite, existing.ID); err != nil {
		return fmt.Errorf("db.ExecContext(update word) > %w", err)
	}
	word.ID = existing.ID
	return nil
}

// SoftDelete marks the word as deleted without removing the row.
func (r *DBRepository) SoftDelete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE words SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?", id); err != nil {
		return fmt.Errorf("db.ExecContext(soft delete word) > %w", err)
	}
	return nil
}

// Restore clears the soft-delete mark.
func (r *DBRepository) Restore(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE words SET deleted_at = NULL WHERE id = ?", id); err != nil {
		return fmt.Errorf("db.ExecContext(restore word) > %w", err)
	}
	return nil
}

// ToggleFavorite flips the favorite flag.
func (r *DBRepository) ToggleFavorite(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE words SET is_favorite = NOT is_favorite, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id); err != nil {
		return fmt.Errorf("db.ExecContext(toggle favorite) > %w", err)
	}
	return nil
}
