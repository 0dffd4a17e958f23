package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	queryListWatches = `SELECT watch_key, part_number FROM watches`
	queryListUsers   = `SELECT user_id FROM authorized_users ORDER BY user_id`

	queryDeleteMissingWatches = `DELETE FROM watches WHERE NOT (watch_key = ANY($1))`
	queryUpsertWatch          = `
		INSERT INTO watches (watch_key, part_number)
		VALUES (@watch_key, @part_number)
		ON CONFLICT (watch_key) DO UPDATE SET part_number = EXCLUDED.part_number`

	queryInsertUser = `
		INSERT INTO authorized_users (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`
)

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := RunMigrations(ctx, s.pool)
	return err
}

// LoadWatchlist reads every watch row.
func (s *PostgresStore) LoadWatchlist(ctx context.Context) (Watchlist, error) {
	rows, err := s.pool.Query(ctx, queryListWatches)
	if err != nil {
		return nil, fmt.Errorf("querying watches: %w", err)
	}
	defer rows.Close()

	w := Watchlist{}
	for rows.Next() {
		var key, part string
		if err := rows.Scan(&key, &part); err != nil {
			return nil, fmt.Errorf("scanning watch: %w", err)
		}
		w[key] = part
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating watches: %w", err)
	}
	return w, nil
}

// SaveWatchlist makes the watches table equal to w in one transaction.
func (s *PostgresStore) SaveWatchlist(ctx context.Context, w Watchlist) error {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryDeleteMissingWatches, keys); err != nil {
			return fmt.Errorf("deleting removed watches: %w", err)
		}

		batch := &pgx.Batch{}
		for k, part := range w {
			batch.Queue(queryUpsertWatch, pgx.NamedArgs{
				"watch_key":   k,
				"part_number": part,
			})
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upserting watches: %w", err)
		}
		return nil
	})
}

// LoadAuthorizedUsers reads every authorized user ID.
func (s *PostgresStore) LoadAuthorizedUsers(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, queryListUsers)
	if err != nil {
		return nil, fmt.Errorf("querying authorized users: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collecting authorized users: %w", err)
	}
	return ids, nil
}

// SaveAuthorizedUsers inserts any IDs not yet present. Users are never
// removed, so existing rows are left alone.
func (s *PostgresStore) SaveAuthorizedUsers(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(queryInsertUser, id)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting authorized users: %w", err)
	}
	return nil
}
