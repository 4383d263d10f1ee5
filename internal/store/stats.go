package store

import (
	"context"
	"os"
)

// Stats holds local database statistics.
type Stats struct {
	DBPath        string      `json:"db_path"`
	DBSizeBytes   int64       `json:"db_size_bytes"`
	TotalSessions int         `json:"total_sessions"`
	TotalProfiles int         `json:"total_profiles"`
	Users         []UserStats `json:"users"`
}

// UserStats holds per-user row counts.
type UserStats struct {
	UserID   string `json:"user_id"`
	Sessions int    `json:"sessions"`
	Profiles int    `json:"profiles"`
}

// Stats returns database statistics for the local store.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM behavior_features`).Scan(&st.TotalSessions)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_profiles`).Scan(&st.TotalProfiles)

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.user_id, COUNT(*) AS sessions,
		       (SELECT COUNT(*) FROM user_profiles p WHERE p.user_id = f.user_id) AS profiles
		FROM behavior_features f
		GROUP BY f.user_id ORDER BY sessions DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserStats
		rows.Scan(&u.UserID, &u.Sessions, &u.Profiles)
		st.Users = append(st.Users, u)
	}

	return st, rows.Err()
}
