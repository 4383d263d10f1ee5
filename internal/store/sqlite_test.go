package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/continuauth/baseline/internal/feature"
	"github.com/continuauth/baseline/internal/model"
)

func newTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func sessionAt(userID string, at time.Time, speed float64) model.SessionRecord {
	return model.SessionRecord{
		UserID:      userID,
		GeneratedAt: at,
		Features: map[string]any{
			"typing_speed":           speed,
			"backspace_ratio":        0.1,
			"avg_keystroke_interval": 0.2,
			"keystroke_variance":     0.01,
			"avg_mouse_speed":        50.0,
			"mouse_move_variance":    5.0,
			"scroll_frequency":       0.3,
			"idle_ratio":             0.1,
		},
	}
}

func TestInsertAndFetchRecent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var recs []model.SessionRecord
	for i := 0; i < 5; i++ {
		recs = append(recs, sessionAt("u1", base.Add(time.Duration(i)*time.Hour), 100+float64(i)))
	}

	n, err := s.InsertSessions(ctx, recs)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 inserted, got %d", n)
	}

	got, err := s.FetchRecent(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(got))
	}
	// Newest first: speeds 104, 103, 102.
	for i, want := range []float64{104, 103, 102} {
		if got[i].Features["typing_speed"] != want {
			t.Errorf("row %d: expected typing_speed %v, got %v", i, want, got[i].Features["typing_speed"])
		}
	}
	if got[0].ID == "" {
		t.Error("expected non-empty session ID")
	}
}

func TestInsertSessionsSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := sessionAt("u1", at, 100)

	if _, err := s.InsertSessions(ctx, []model.SessionRecord{rec}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	n, err := s.InsertSessions(ctx, []model.SessionRecord{rec})
	if err != nil {
		t.Fatalf("re-insert: %v", err)
	}
	if n != 0 {
		t.Errorf("expected duplicate skipped, got %d inserted", n)
	}
}

func TestInsertSessionsMalformed(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	rec := sessionAt("u1", time.Now(), 100)
	rec.Features["idle_ratio"] = "busy"

	_, err := s.InsertSessions(ctx, []model.SessionRecord{rec})
	if !errors.Is(err, feature.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestFetchRecentMissingFeatureIsNull(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	rec := sessionAt("u1", time.Now().UTC().Truncate(time.Second), 100)
	delete(rec.Features, "scroll_frequency")

	if _, err := s.InsertSessions(ctx, []model.SessionRecord{rec}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.FetchRecent(ctx, "u1", 8)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, present := got[0].Features["scroll_frequency"]; present {
		t.Error("expected scroll_frequency absent from fetched record")
	}
	if got[0].Features["typing_speed"] != 100.0 {
		t.Errorf("expected typing_speed 100, got %v", got[0].Features["typing_speed"])
	}
}

func TestFetchRecentNoSessions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.FetchRecent(ctx, "nobody", 8)
	if !errors.Is(err, ErrNoSessions) {
		t.Fatalf("expected ErrNoSessions, got %v", err)
	}
}

func TestInsertProfileAppendOnly(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p := &model.Profile{
		UserID:           "u1",
		SessionsUsed:     4,
		Status:           model.StatusActive,
		DataQualityScore: 0.92,
		ProfileVersion:   model.ProfileVersion,
		TypingSpeedMean:  105, TypingSpeedStd: 5,
		IdleRatioMean: 0.1, IdleRatioStd: 0.005,
	}

	if err := s.InsertProfile(ctx, p); err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	if err := s.InsertProfile(ctx, p); err != nil {
		t.Fatalf("second insert should append, got: %v", err)
	}

	got, err := s.ListProfiles(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 profile rows, got %d", len(got))
	}
	if got[0].TypingSpeedMean != 105 || got[0].TypingSpeedStd != 5 {
		t.Errorf("round-trip mismatch: %+v", got[0])
	}
	if got[0].DataQualityScore != 0.92 {
		t.Errorf("expected quality 0.92, got %v", got[0].DataQualityScore)
	}
	if got[0].ID == "" {
		t.Error("expected non-empty profile ID")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.InsertSessions(ctx, []model.SessionRecord{
		sessionAt("u1", base, 100),
		sessionAt("u1", base.Add(time.Hour), 101),
		sessionAt("u2", base, 90),
	})
	s.InsertProfile(ctx, &model.Profile{
		UserID: "u1", SessionsUsed: 2, Status: model.StatusActive, ProfileVersion: 1,
	})

	st, err := s.Stats(ctx, path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalSessions != 3 {
		t.Errorf("expected 3 sessions, got %d", st.TotalSessions)
	}
	if st.TotalProfiles != 1 {
		t.Errorf("expected 1 profile, got %d", st.TotalProfiles)
	}
	if len(st.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(st.Users))
	}
	if st.Users[0].UserID != "u1" || st.Users[0].Sessions != 2 || st.Users[0].Profiles != 1 {
		t.Errorf("unexpected top user stats: %+v", st.Users[0])
	}
}
