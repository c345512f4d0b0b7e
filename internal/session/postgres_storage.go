package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStorage はclient_storageテーブルに資格情報を保存するStorage。
// 複数の端末やプロファイルで共有する場合に使う。
type PostgresStorage struct {
	db      *sql.DB
	profile string
}

// NewPostgresStorage はPostgresStorageを生成する。profileで保存領域を分ける。
func NewPostgresStorage(db *sql.DB, profile string) *PostgresStorage {
	if profile == "" {
		profile = "default"
	}
	return &PostgresStorage{db: db, profile: profile}
}

// Get はキーの値を返す。行がない場合は空文字列を返す。
func (r *PostgresStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM client_storage WHERE profile = $1 AND key = $2`,
		r.profile, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set はキーに値を保存する。既存の値は上書きする。
func (r *PostgresStorage) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO client_storage (profile, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		r.profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Delete はキーを削除する。
func (r *PostgresStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM client_storage WHERE profile = $1 AND key = ANY($2)`,
		r.profile, pq.Array(keys),
	)
	if err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}

// compile-time interface check
var _ Storage = (*PostgresStorage)(nil)
