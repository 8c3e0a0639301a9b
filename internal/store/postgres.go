package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"github.com/ahlulathar/ahlulathar-api/pkg/metrics"
	"github.com/ahlulathar/ahlulathar-api/pkg/retry"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore implements Store on a single JSONB documents table.
// Documents keep their schema-less shape in the body column; the collection
// name and server timestamps live in dedicated columns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore backed by the given pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var _ Store = (*PostgresStore)(nil)

// generateID creates a random document id (24 hex chars)
func generateID() (string, error) {
	bytes := make([]byte, 12)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// observe records metrics and logs for a finished store operation
func observe(collection, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := metrics.MeasureDuration(start)
	metrics.StoreRequestDuration.WithLabelValues(collection, operation, status).Observe(duration)
	metrics.StoreRequestTotal.WithLabelValues(collection, operation, status).Inc()
	logger.LogStoreCall(collection, operation, status, duration)
}

// assemble merges the id and server timestamps into the raw document body
func assemble(id string, body map[string]any, createdAt, updatedAt time.Time) Record {
	if body == nil {
		body = map[string]any{}
	}
	body["id"] = id
	body["createdAt"] = createdAt.UTC().Format(time.RFC3339)
	body["updatedAt"] = updatedAt.UTC().Format(time.RFC3339)
	return body
}

// QueryByField returns records where body->>field equals value, in insertion order
func (s *PostgresStore) QueryByField(ctx context.Context, collection, field, value string, maxResults int) ([]Record, error) {
	start := time.Now()

	records, err := retry.DoWithResult(ctx, retry.StoreConfig(), "queryByField", func() ([]Record, error) {
		query := `SELECT id, body, created_at, updated_at
			FROM documents
			WHERE collection = $1`
		args := []any{collection}

		if field != "" {
			query += ` AND body->>$2 = $3`
			args = append(args, field, value)
		}
		query += ` ORDER BY created_at, id`
		if maxResults > 0 {
			query += ` LIMIT ` + strconv.Itoa(maxResults)
		}

		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out []Record
		for rows.Next() {
			var (
				id                   string
				body                 map[string]any
				createdAt, updatedAt time.Time
			)
			if err := rows.Scan(&id, &body, &createdAt, &updatedAt); err != nil {
				return nil, err
			}
			out = append(out, assemble(id, body, createdAt, updatedAt))
		}
		return out, rows.Err()
	})

	observe(collection, "queryByField", start, err)
	if err != nil {
		return nil, storeError("queryByField", collection, err)
	}
	return records, nil
}

// GetByID returns a single record or ErrDocumentNotFound
func (s *PostgresStore) GetByID(ctx context.Context, collection, id string) (Record, error) {
	start := time.Now()

	var (
		body                 map[string]any
		createdAt, updatedAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT body, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&body, &createdAt, &updatedAt)

	observe(collection, "getById", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, storeError("getById", collection, err)
	}
	return assemble(id, body, createdAt, updatedAt), nil
}

// Insert stores a new record and returns its generated id
func (s *PostgresStore) Insert(ctx context.Context, collection string, record Record) (string, error) {
	start := time.Now()

	id, err := generateID()
	if err != nil {
		return "", storeError("insert", collection, err)
	}

	// The id and timestamps live in columns, not in the body
	body := make(map[string]any, len(record))
	for k, v := range record {
		if k == "id" || k == "createdAt" || k == "updatedAt" {
			continue
		}
		body[k] = v
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, body, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())`,
		collection, id, body,
	)

	observe(collection, "insert", start, err)
	if err != nil {
		return "", storeError("insert", collection, err)
	}

	logger.Debug("Document inserted",
		zap.String("collection", collection),
		zap.String("id", id))
	return id, nil
}

// Update merges partial fields into an existing record and bumps updated_at
func (s *PostgresStore) Update(ctx context.Context, collection, id string, partial Record) error {
	start := time.Now()

	body := make(map[string]any, len(partial))
	for k, v := range partial {
		if k == "id" || k == "createdAt" || k == "updatedAt" {
			continue
		}
		body[k] = v
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET body = body || $3, updated_at = now()
		 WHERE collection = $1 AND id = $2`,
		collection, id, body,
	)

	if err == nil && tag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
	}

	observe(collection, "update", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDocumentNotFound
	}
	if err != nil {
		return storeError("update", collection, err)
	}
	return nil
}

// Delete removes a record by id
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)

	if err == nil && tag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
	}

	observe(collection, "delete", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDocumentNotFound
	}
	if err != nil {
		return storeError("delete", collection, err)
	}
	return nil
}
