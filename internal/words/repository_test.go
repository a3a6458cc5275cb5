package words

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordColumns() []string {
	return []string{
		"id", "text", "reading", "meaning", "source_type", "source_text",
		"source_link", "is_favorite", "created_at", "updated_at", "deleted_at",
	}
}

func TestDBRepository_FindAll(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantLen   int
		wantErr   bool
	}{
		{
			name: "returns words that are not soft-deleted",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(wordColumns()).
					AddRow(1, "犬", "いぬ", "개", "manual", "", "", false, now, now, nil).
					AddRow(2, "猫", "ねこ", "고양이", "dictionary", "", "", true, now, now, nil)
				mock.ExpectQuery("SELECT \\* FROM words WHERE deleted_at IS NULL ORDER BY text").
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM words WHERE deleted_at IS NULL ORDER BY text").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			got, err := repo.FindAll(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)

			assert.Equal(t, "犬", got[0].Text)
			assert.False(t, got[0].IsFavorite)
			assert.False(t, got[0].IsDeleted())
			assert.Equal(t, "猫", got[1].Text)
			assert.True(t, got[1].IsFavorite)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_FindByText(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      *Word
		wantErr   bool
	}{
		{
			name: "returns the matching word",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(wordColumns()).
					AddRow(1, "猫", "ねこ", "고양이", "dictionary", "", "", false, now, now, nil)
				mock.ExpectQuery("SELECT \\* FROM words WHERE text = \\?").
					WithArgs("猫").
					WillReturnRows(rows)
			},
			want: &Word{
				ID:         1,
				Text:       "猫",
				Reading:    "ねこ",
				Meaning:    "고양이",
				SourceType: "dictionary",
				CreatedAt:  now,
				UpdatedAt:  now,
			},
		},
		{
			name: "no match is nil, not an error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM words WHERE text = \\?").
					WithArgs("猫").
					WillReturnRows(sqlmock.NewRows(wordColumns()))
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM words WHERE text = \\?").
					WithArgs("猫").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			got, err := repo.FindByText(context.Background(), "猫")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Save(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		word      *Word
		setupMock func(mock sqlmock.Sqlmock)
		wantID    int64
		wantErr   bool
	}{
		{
			name: "inserts a new word",
			word: &Word{Text: "猫", Reading: "ねこ", Meaning: "고양이", SourceType: "dictionary"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM words WHERE text = \\?").
					WithArgs("猫").
					WillReturnRows(sqlmock.NewRows(wordColumns()))
				mock.ExpectExec("INSERT INTO words").
					WithArgs("猫", "ねこ", "고양이", "dictionary", "", "", false).
					WillReturnResult(sqlmock.NewResult(7, 1))
			},
			wantID: 7,
		},
		{
			name: "overwrites the existing word with the same text",
			word: &Word{Text: "猫", Reading: "ねこ", Meaning: "고양이 (새 번역)", SourceType: "dictionary"},
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(wordColumns()).
					AddRow(3, "猫", "ねこ", "고양이", "manual", "", "", true, now, now, nil)
				mock.ExpectQuery("SELECT \\* FROM words WHERE text = \\?").
					WithArgs("猫").
					WillReturnRows(rows)
				mock.ExpectExec("UPDATE words").
					WithArgs("ねこ", "고양이 (새 번역)", "dictionary", "", "", false, int64(3)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantID: 3,
		},
		{
			name: "lookup db error",
			word: &Word{Text: "猫"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM words WHERE text = \\?").
					WithArgs("猫").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
		{
			name: "insert db error",
			word: &Word{Text: "猫"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM words WHERE text = \\?").
					WithArgs("猫").
					WillReturnRows(sqlmock.NewRows(wordColumns()))
				mock.ExpectExec("INSERT INTO words").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			err = repo.Save(context.Background(), tt.word)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, tt.word.ID)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_SoftDeleteRestoreToggle(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		call      func(repo *DBRepository) error
	}{
		{
			name: "soft delete marks the row",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE words SET deleted_at = CURRENT_TIMESTAMP WHERE id = \\?").
					WithArgs(int64(5)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			call: func(repo *DBRepository) error {
				return repo.SoftDelete(context.Background(), 5)
			},
		},
		{
			name: "restore clears the mark",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE words SET deleted_at = NULL WHERE id = \\?").
					WithArgs(int64(5)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			call: func(repo *DBRepository) error {
				return repo.Restore(context.Background(), 5)
			},
		},
		{
			name: "toggle favorite flips the flag",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE words SET is_favorite = NOT is_favorite, updated_at = CURRENT_TIMESTAMP WHERE id = \\?").
					WithArgs(int64(5)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			call: func(repo *DBRepository) error {
				return repo.ToggleFavorite(context.Background(), 5)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			require.NoError(t, tt.call(repo))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
