package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/continuauth/baseline/internal/feature"
	"github.com/continuauth/baseline/internal/model"
)

// SQLiteStore implements Store on a local SQLite file. Intended for
// development and offline use; it can also ingest session records so the
// whole pipeline runs without a remote database.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	var featureCols strings.Builder
	for _, name := range model.FeatureNames {
		fmt.Fprintf(&featureCols, "\t\t%s REAL,\n", name)
	}

	var profileCols strings.Builder
	for _, name := range model.FeatureNames {
		fmt.Fprintf(&profileCols, "\t\t%s_mean REAL NOT NULL,\n", name)
	}
	for _, name := range model.FeatureNames {
		fmt.Fprintf(&profileCols, "\t\t%s_std REAL NOT NULL,\n", name)
	}

	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS behavior_features (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		generated_at TEXT NOT NULL,
%s		UNIQUE(user_id, generated_at)
	);
	CREATE INDEX IF NOT EXISTS idx_features_user_time
		ON behavior_features(user_id, generated_at DESC);

	CREATE TABLE IF NOT EXISTS user_profiles (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL,
		sessions_used      INTEGER NOT NULL,
		status             TEXT NOT NULL,
		data_quality_score REAL NOT NULL,
		profile_version    INTEGER NOT NULL,
		created_at         TEXT NOT NULL,
%s		CHECK (sessions_used >= 2)
	);
	CREATE INDEX IF NOT EXISTS idx_profiles_user
		ON user_profiles(user_id, created_at DESC);
	`, featureCols.String(), profileCols.String())

	_, err := s.db.Exec(schema)
	return err
}

// FetchRecent returns up to limit sessions for the user, newest first.
// NULL feature columns are left out of the record's raw fields so the
// matrix builder applies its absent-field default.
func (s *SQLiteStore) FetchRecent(ctx context.Context, userID string, limit int) ([]model.SessionRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, generated_at, %s
		FROM behavior_features
		WHERE user_id = ?
		ORDER BY generated_at DESC
		LIMIT ?`, strings.Join(model.FeatureNames[:], ", "))

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionFetch, err)
	}
	defer rows.Close()

	var sessions []model.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSessionFetch, err)
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

func scanSession(rows *sql.Rows) (model.SessionRecord, error) {
	var rec model.SessionRecord
	var generatedAt string
	var vals [model.NumFeatures]sql.NullFloat64

	dest := []any{&rec.ID, &rec.UserID, &generatedAt}
	for i := range vals {
		dest = append(dest, &vals[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return rec, err
	}

	rec.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
	rec.Features = make(map[string]any, model.NumFeatures)
	for i, name := range model.FeatureNames {
		if vals[i].Valid {
			rec.Features[name] = vals[i].Float64
		}
	}
	return rec, nil
}

// InsertSessions stores raw session records, skipping duplicates on
// (user_id, generated_at). Returns the number of rows inserted. A
// non-numeric feature value aborts the whole import.
func (s *SQLiteStore) InsertSessions(ctx context.Context, records []model.SessionRecord) (int, error) {
	cols := strings.Join(model.FeatureNames[:], ", ")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", model.NumFeatures+3), ", ")
	query := fmt.Sprintf(`
		INSERT OR IGNORE INTO behavior_features (id, user_id, generated_at, %s)
		VALUES (%s)`, cols, placeholders)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	for i, rec := range records {
		args := []any{s.newID(), rec.UserID, rec.GeneratedAt.UTC().Format(time.RFC3339)}
		for _, name := range model.FeatureNames {
			raw, ok := rec.Features[name]
			if !ok || raw == nil {
				args = append(args, nil)
				continue
			}
			v, err := feature.Coerce(raw)
			if err != nil {
				return 0, fmt.Errorf("%w: record %d field %q: %v", feature.ErrMalformedRecord, i, name, err)
			}
			args = append(args, v)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("insert session: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// InsertProfile appends one profile row.
func (s *SQLiteStore) InsertProfile(ctx context.Context, p *model.Profile) error {
	var cols strings.Builder
	for _, name := range model.FeatureNames {
		fmt.Fprintf(&cols, ", %s_mean", name)
	}
	for _, name := range model.FeatureNames {
		fmt.Fprintf(&cols, ", %s_std", name)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", 2*model.NumFeatures+7), ", ")

	query := fmt.Sprintf(`
		INSERT INTO user_profiles
			(id, user_id, sessions_used, status, data_quality_score, profile_version, created_at%s)
		VALUES (%s)`, cols.String(), placeholders)

	now := time.Now().UTC()
	args := []any{
		s.newID(), p.UserID, p.SessionsUsed, p.Status,
		p.DataQualityScore, p.ProfileVersion, now.Format(time.RFC3339),
	}
	means := p.Means()
	stds := p.Stds()
	for _, v := range means {
		args = append(args, v)
	}
	for _, v := range stds {
		args = append(args, v)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrProfilePersist, err)
	}
	return nil
}

// ListProfiles returns stored profiles, newest first, optionally filtered
// by user.
func (s *SQLiteStore) ListProfiles(ctx context.Context, userID string, limit int) ([]model.Profile, error) {
	if limit <= 0 {
		limit = 20
	}

	var cols strings.Builder
	for _, name := range model.FeatureNames {
		fmt.Fprintf(&cols, ", %s_mean", name)
	}
	for _, name := range model.FeatureNames {
		fmt.Fprintf(&cols, ", %s_std", name)
	}

	where := ""
	args := []any{}
	if userID != "" {
		where = "WHERE user_id = ?"
		args = append(args, userID)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, user_id, sessions_used, status, data_quality_score, profile_version, created_at%s
		FROM user_profiles
		%s
		ORDER BY created_at DESC
		LIMIT ?`, cols.String(), where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func scanProfile(rows *sql.Rows) (model.Profile, error) {
	var p model.Profile
	var createdAt string
	var means, stds [model.NumFeatures]float64

	dest := []any{
		&p.ID, &p.UserID, &p.SessionsUsed, &p.Status,
		&p.DataQualityScore, &p.ProfileVersion, &createdAt,
	}
	for i := range means {
		dest = append(dest, &means[i])
	}
	for i := range stds {
		dest = append(dest, &stds[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return p, err
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.TypingSpeedMean, p.BackspaceRatioMean, p.AvgKeystrokeIntervalMean, p.KeystrokeVarianceMean = means[0], means[1], means[2], means[3]
	p.AvgMouseSpeedMean, p.MouseMoveVarianceMean, p.ScrollFrequencyMean, p.IdleRatioMean = means[4], means[5], means[6], means[7]
	p.TypingSpeedStd, p.BackspaceRatioStd, p.AvgKeystrokeIntervalStd, p.KeystrokeVarianceStd = stds[0], stds[1], stds[2], stds[3]
	p.AvgMouseSpeedStd, p.MouseMoveVarianceStd, p.ScrollFrequencyStd, p.IdleRatioStd = stds[4], stds[5], stds[6], stds[7]
	return p, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
