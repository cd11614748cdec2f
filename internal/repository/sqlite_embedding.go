package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/debot/internal/db"
)

// SQLiteEmbeddingCacheRepo implements EmbeddingCacheRepo using a SQLite database.
type SQLiteEmbeddingCacheRepo struct {
	db db.DBTX
}

// NewSQLiteEmbeddingCacheRepo creates a new SQLiteEmbeddingCacheRepo.
func NewSQLiteEmbeddingCacheRepo(conn db.DBTX) *SQLiteEmbeddingCacheRepo {
	return &SQLiteEmbeddingCacheRepo{db: conn}
}

func (r *SQLiteEmbeddingCacheRepo) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT dims, vector FROM embeddings WHERE model = ? AND text_hash = ?`,
		model, textHash(text))

	var dims int
	var blob []byte
	if err := row.Scan(&dims, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("scanning embedding: %w", err)
	}
	v, err := decodeVector(blob, dims)
	if err != nil {
		return nil, false, fmt.Errorf("decoding embedding: %w", err)
	}
	return v, true, nil
}

func (r *SQLiteEmbeddingCacheRepo) Put(ctx context.Context, model, text string, vector []float32) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO embeddings (model, text_hash, dims, vector, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		model, textHash(text), len(vector), encodeVector(vector),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing embedding: %w", err)
	}
	return nil
}
