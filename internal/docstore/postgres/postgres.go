// Package postgres stores documents in a single JSONB table.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/pkg/dberrors"
	"github.com/yigit/deptportal/internal/pkg/logger"
)

const (
	tableName      = "documents"
	primaryKeyName = "documents_pkey"
)

// Store is a docstore.Store over the documents table created by the
// migrations in internal/app/migrations.
type Store struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// New wraps an open pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ docstore.Store = (*Store)(nil)

func encodeBody(data map[string]any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode document body: %w", err)
	}
	return string(raw), nil
}

func decodeBody(raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode document body: %w", err)
	}
	return docstore.Normalize(data), nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	sql, args, err := s.sb.Select("body").
		From(tableName).
		Where(squirrel.Eq{"collection": collection, "id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get document query: %w", err)
	}

	var raw []byte
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("Error getting document")
		return nil, fmt.Errorf("error getting document %s/%s: %w", collection, id, err)
	}
	data, err := decodeBody(raw)
	if err != nil {
		return nil, err
	}
	return &docstore.Document{ID: id, Data: data}, nil
}

func (s *Store) Find(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	sql, args, err := buildFind(s.sb, collection, q)
	if err != nil {
		return nil, fmt.Errorf("failed to build find query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("Error executing find query")
		return nil, fmt.Errorf("error querying %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []docstore.Document{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("error scanning document row: %w", err)
		}
		data, err := decodeBody(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, docstore.Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

func (s *Store) Create(ctx context.Context, collection, id string, data map[string]any) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	body, err := encodeBody(data)
	if err != nil {
		return "", err
	}
	sql, args, err := s.sb.Insert(tableName).
		Columns("collection", "id", "body").
		Values(collection, id, squirrel.Expr("?::jsonb", body)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build create document query: %w", err)
	}

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, primaryKeyName) {
			return "", fmt.Errorf("%w: %s/%s", docstore.ErrAlreadyExists, collection, id)
		}
		logger.Error().Err(err).Str("collection", collection).Msg("Error creating document")
		return "", fmt.Errorf("error creating document: %w", err)
	}
	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any) error {
	body, err := encodeBody(data)
	if err != nil {
		return err
	}
	sql, args, err := s.sb.Insert(tableName).
		Columns("collection", "id", "body").
		Values(collection, id, squirrel.Expr("?::jsonb", body)).
		Suffix("ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set document query: %w", err)
	}
	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("Error setting document")
		return fmt.Errorf("error setting document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	patch, err := encodeBody(fields)
	if err != nil {
		return err
	}
	sql, args, err := s.sb.Update(tableName).
		Set("body", squirrel.Expr("body || ?::jsonb", patch)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update document query: %w", err)
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("Error updating document")
		return fmt.Errorf("error updating document %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	sql, args, err := s.sb.Delete(tableName).
		Where(squirrel.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete document query: %w", err)
	}
	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("Error deleting document")
		return fmt.Errorf("error deleting document %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	sql, args, err := s.sb.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{"collection": collection}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var n int64
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", collection, err)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.db.Close()
	return nil
}
