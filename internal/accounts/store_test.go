package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmaksimov/facenote/internal/common"
	"github.com/dmaksimov/facenote/internal/cryptox"
	"github.com/dmaksimov/facenote/internal/facedist"
	"github.com/dmaksimov/facenote/internal/logging"
	"github.com/dmaksimov/facenote/internal/models"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kv (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newStore(t *testing.T, db *sql.DB, distance DistanceFunc) *Store {
	t.Helper()
	if distance == nil {
		distance = facedist.Euclidean
	}
	s, err := NewStore(context.Background(), db, distance, testLogger())
	require.NoError(t, err)
	return s
}

func getKV(t *testing.T, db *sql.DB, key string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM kv WHERE key=?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil
	}
	require.NoError(t, err)
	return v
}

// ---- TESTS ----

func TestRegister_CreatesAccountAndPersists(t *testing.T) {
	db := setupDB(t)
	s := newStore(t, db, nil)
	ctx := context.Background()

	acct, err := s.Register(ctx, "alice", []byte("pw1"), []float64{0.1, 0.2})
	require.NoError(t, err)
	require.Equal(t, "alice", acct.Username)
	require.Empty(t, acct.Notes)
	require.True(t, acct.HasFaceDescriptor())
	require.False(t, s.IsLoggedIn(), "register must not log in")

	var saved map[string]*models.Account
	require.NoError(t, json.Unmarshal(getKV(t, db, "users"), &saved))
	require.Contains(t, saved, "alice")
	require.Equal(t, []float64{0.1, 0.2}, saved["alice"].FaceDescriptor)
}

func TestRegister_WithoutDescriptor(t *testing.T) {
	s := newStore(t, setupDB(t), nil)

	acct, err := s.Register(context.Background(), "bob", []byte("pw"), nil)
	require.NoError(t, err)
	require.False(t, acct.HasFaceDescriptor())
}

func TestRegister_Duplicate_DoesNotMutateExisting(t *testing.T) {
	s := newStore(t, setupDB(t), nil)
	ctx := context.Background()

	first, err := s.Register(ctx, "alice", []byte("pw1"), []float64{0.1, 0.2})
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", []byte("other"), []float64{0.9})
	require.ErrorIs(t, err, common.ErrDuplicateAccount)

	require.True(t, cryptox.VerifyPassword([]byte("pw1"), first.Salt, first.PasswordHash))
	require.Equal(t, []float64{0.1, 0.2}, first.FaceDescriptor)
}

func TestLogin_SucceedsOnExactMatchOnly(t *testing.T) {
	db := setupDB(t)
	s := newStore(t, db, nil)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", []byte("pw1"), nil)
	require.NoError(t, err)

	require.ErrorIs(t, s.Login(ctx, "alice", []byte("pw2")), common.ErrInvalidCredentials)
	require.ErrorIs(t, s.Login(ctx, "alice", []byte("PW1")), common.ErrInvalidCredentials)
	require.ErrorIs(t, s.Login(ctx, "nobody", []byte("pw1")), common.ErrInvalidCredentials)
	require.False(t, s.IsLoggedIn())

	require.NoError(t, s.Login(ctx, "alice", []byte("pw1")))
	require.True(t, s.IsLoggedIn())
	require.Equal(t, "alice", s.CurrentUser().Username)
	require.Equal(t, []byte("alice"), getKV(t, db, "current_user"))
}

func TestVerifyFace_ThresholdDecision(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     bool
	}{
		{"clearly same person", 0.1, true},
		{"just under threshold", 0.4499, true},
		{"exactly at threshold", 0.45, false},
		{"clearly different", 0.9, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fixed := func(a, b []float64) (float64, error) { return tc.distance, nil }
			s := newStore(t, setupDB(t), fixed)
			ctx := context.Background()

			_, err := s.Register(ctx, "alice", []byte("pw"), []float64{0.1, 0.2})
			require.NoError(t, err)

			ok, err := s.VerifyFace(ctx, "alice", []float64{0.1, 0.2})
			require.NoError(t, err)
			require.Equal(t, tc.want, ok)
		})
	}
}

func TestVerifyFace_IdenticalDescriptorMatches(t *testing.T) {
	s := newStore(t, setupDB(t), nil)
	ctx := context.Background()

	desc := []float64{0.11, 0.22, 0.33}
	_, err := s.Register(ctx, "alice", []byte("pw"), desc)
	require.NoError(t, err)

	ok, err := s.VerifyFace(ctx, "alice", desc)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyFace_NotAvailable(t *testing.T) {
	s := newStore(t, setupDB(t), nil)
	ctx := context.Background()

	_, err := s.Register(ctx, "noface", []byte("pw"), nil)
	require.NoError(t, err)

	_, err = s.VerifyFace(ctx, "noface", []float64{0.1})
	require.ErrorIs(t, err, common.ErrFaceNotAvailable)

	_, err = s.VerifyFace(ctx, "nobody", []float64{0.1})
	require.ErrorIs(t, err, common.ErrFaceNotAvailable)
}

func TestLogout_ClearsSessionAndMarker(t *testing.T) {
	db := setupDB(t)
	s := newStore(t, db, nil)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", []byte("pw"), nil)
	require.NoError(t, err)
	require.NoError(t, s.Login(ctx, "alice", []byte("pw")))

	require.NoError(t, s.Logout(ctx))
	require.False(t, s.IsLoggedIn())
	require.Nil(t, s.CurrentUser())
	require.Nil(t, getKV(t, db, "current_user"))

	// no-op without a session
	require.NoError(t, s.Logout(ctx))
}

func TestSessionRestore_AcrossStores(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s1 := newStore(t, db, nil)
	_, err := s1.Register(ctx, "alice", []byte("pw"), nil)
	require.NoError(t, err)
	require.NoError(t, s1.Login(ctx, "alice", []byte("pw")))

	s2 := newStore(t, db, nil)
	require.True(t, s2.IsLoggedIn())
	require.Equal(t, "alice", s2.CurrentUser().Username)
}

func TestSessionRestore_IgnoresUnknownMarker(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`INSERT INTO kv (key, value) VALUES ('current_user', 'ghost')`)
	require.NoError(t, err)

	s := newStore(t, db, nil)
	require.False(t, s.IsLoggedIn())
}

func TestPersistence_LosslessRoundTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s1 := newStore(t, db, nil)
	acct, err := s1.Register(ctx, "alice", []byte("pw1"), []float64{0.25, -1.5, 3e-7})
	require.NoError(t, err)

	acct.Notes = append(acct.Notes, models.Note{
		ID:        "n1",
		Title:     "t",
		Content:   "c",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		IsPinned:  true,
	})
	require.NoError(t, s1.Save(ctx))

	s2 := newStore(t, db, nil)
	require.NoError(t, s2.Login(ctx, "alice", []byte("pw1")))
	got := s2.CurrentUser()

	require.Equal(t, acct.Username, got.Username)
	require.Equal(t, acct.PasswordHash, got.PasswordHash)
	require.Equal(t, acct.Salt, got.Salt)
	require.Equal(t, acct.FaceDescriptor, got.FaceDescriptor)
	require.Equal(t, acct.Notes, got.Notes)
	require.True(t, acct.CreatedAt.Equal(got.CreatedAt))
}

func TestDeleteAccount(t *testing.T) {
	db := setupDB(t)
	s := newStore(t, db, nil)
	ctx := context.Background()

	require.ErrorIs(t, s.DeleteAccount(ctx), common.ErrNotAuthenticated)

	_, err := s.Register(ctx, "alice", []byte("pw"), nil)
	require.NoError(t, err)
	require.NoError(t, s.Login(ctx, "alice", []byte("pw")))

	require.NoError(t, s.DeleteAccount(ctx))
	require.False(t, s.IsLoggedIn())
	require.Nil(t, getKV(t, db, "current_user"))

	s2 := newStore(t, db, nil)
	require.ErrorIs(t, s2.Login(ctx, "alice", []byte("pw")), common.ErrInvalidCredentials)
}
