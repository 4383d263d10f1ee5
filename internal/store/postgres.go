package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/continuauth/baseline/internal/model"
)

const (
	pgConnectTimeout = 5 * time.Second
	pgMaxConns       = 4
)

// PostgresStore implements Store against a hosted Postgres database, the
// same layout the telemetry pipeline writes into: behavior_features rows
// in, user_profiles rows out.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to Postgres with the given DSN, pings it, and
// ensures the user_profiles table exists. The behavior_features table is
// owned by the telemetry pipeline and is never created here.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolConfig.MaxConns = pgMaxConns
	poolConfig.MaxConnLifetime = time.Hour

	ctx, cancel := context.WithTimeout(ctx, pgConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	var cols strings.Builder
	for _, name := range model.FeatureNames {
		fmt.Fprintf(&cols, ",\n\t\t\t%s_mean DOUBLE PRECISION NOT NULL", name)
	}
	for _, name := range model.FeatureNames {
		fmt.Fprintf(&cols, ",\n\t\t\t%s_std DOUBLE PRECISION NOT NULL", name)
	}

	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS user_profiles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			sessions_used INTEGER NOT NULL CHECK (sessions_used >= 2),
			status VARCHAR(20) NOT NULL,
			data_quality_score DOUBLE PRECISION NOT NULL,
			profile_version INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()%s
		)`, cols.String()))
	if err != nil {
		return fmt.Errorf("create user_profiles table: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_user_profiles_user
		ON user_profiles (user_id, created_at DESC)`)
	if err != nil {
		return fmt.Errorf("create user_profiles index: %w", err)
	}
	return nil
}

// FetchRecent returns up to limit sessions for the user, newest first.
func (s *PostgresStore) FetchRecent(ctx context.Context, userID string, limit int) ([]model.SessionRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, generated_at, %s
		FROM behavior_features
		WHERE user_id = $1
		ORDER BY generated_at DESC
		LIMIT $2`, strings.Join(model.FeatureNames[:], ", "))

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionFetch, err)
	}
	defer rows.Close()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var vals [model.NumFeatures]*float64

		dest := []any{&rec.ID, &rec.UserID, &rec.GeneratedAt}
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSessionFetch, err)
		}

		rec.Features = make(map[string]any, model.NumFeatures)
		for i, name := range model.FeatureNames {
			if vals[i] != nil {
				rec.Features[name] = *vals[i]
			}
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionFetch, err)
	}

	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w: user %s", ErrNoSessions, userID)
	}
	return sessions, nil
}

// InsertProfile appends one profile row.
func (s *PostgresStore) InsertProfile(ctx context.Context, p *model.Profile) error {
	var cols strings.Builder
	var placeholders strings.Builder
	n := 5
	for _, name := range model.FeatureNames {
		fmt.Fprintf(&cols, ", %s_mean", name)
		n++
		fmt.Fprintf(&placeholders, ", $%d", n)
	}
	for _, name := range model.FeatureNames {
		fmt.Fprintf(&cols, ", %s_std", name)
		n++
		fmt.Fprintf(&placeholders, ", $%d", n)
	}

	query := fmt.Sprintf(`
		INSERT INTO user_profiles
			(user_id, sessions_used, status, data_quality_score, profile_version%s)
		VALUES ($1, $2, $3, $4, $5%s)`, cols.String(), placeholders.String())

	args := []any{p.UserID, p.SessionsUsed, p.Status, p.DataQualityScore, p.ProfileVersion}
	means := p.Means()
	stds := p.Stds()
	for _, v := range means {
		args = append(args, v)
	}
	for _, v := range stds {
		args = append(args, v)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrProfilePersist, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
