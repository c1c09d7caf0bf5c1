// Package accounts implements identity management for Facenote: account
// registration, password and face-descriptor verification, the device-wide
// session, and durable persistence of the whole account set.
package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmaksimov/facenote/internal/common"
	"github.com/dmaksimov/facenote/internal/cryptox"
	"github.com/dmaksimov/facenote/internal/dbx"
	"github.com/dmaksimov/facenote/internal/logging"
	"github.com/dmaksimov/facenote/internal/models"
	"github.com/dmaksimov/facenote/internal/repositories/kv"
)

// Storage keys. The account set is one JSON document; the session marker is
// the plain username of the logged-in account.
const (
	usersKey       = "users"
	currentUserKey = "current_user"
)

// MatchThreshold is the maximum Euclidean distance between two face
// descriptors still considered the same person. Equality is a rejection.
const MatchThreshold = 0.45

// nowFn is a test seam for the creation-time clock.
var nowFn = func() time.Time { return time.Now().UTC() }

// DistanceFunc measures how far apart two face descriptors are. It is
// supplied by an external face-recognition collaborator; the store only
// applies the threshold decision.
type DistanceFunc func(a, b []float64) (float64, error)

// Store owns the registered accounts and the active session. It is the sole
// writer to durable storage: every mutation of the account set, including
// note mutations delegated by the note collection, re-serializes the entire
// set. The store is not safe for concurrent use; the application is
// single-threaded by design.
type Store struct {
	db       *sql.DB
	distance DistanceFunc
	log      logging.Logger

	accounts map[string]*models.Account
	current  *models.Account
}

// NewStore loads the persisted account set from db and restores the session
// if the current-user marker names an existing account.
func NewStore(ctx context.Context, db *sql.DB, distance DistanceFunc, log logging.Logger) (*Store, error) {
	s := &Store{
		db:       db,
		distance: distance,
		log:      log,
		accounts: make(map[string]*models.Account),
	}

	repo := s.getKVRepo()

	data, err := repo.Get(ctx, usersKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	if data != nil {
		if err := json.Unmarshal(data, &s.accounts); err != nil {
			return nil, fmt.Errorf("failed to decode accounts: %w", err)
		}
	}

	marker, err := repo.Get(ctx, currentUserKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load session marker: %w", err)
	}
	if marker != nil {
		if acct, ok := s.accounts[string(marker)]; ok {
			s.current = acct
			log.Info(ctx, "session restored", "username", acct.Username)
		}
	}

	return s, nil
}

func (s *Store) getKVRepo() kv.Repository {
	return kv.NewSQLiteRepository(s.db)
}

// Register creates a new account with an empty note list and persists the
// full account set. It does not log the new account in. The optional
// descriptor enables face verification for this account.
func (s *Store) Register(ctx context.Context, username string, password []byte, descriptor []float64) (*models.Account, error) {
	if _, ok := s.accounts[username]; ok {
		return nil, common.ErrDuplicateAccount
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)

	acct := &models.Account{
		Username:     username,
		PasswordHash: cryptox.HashPassword(password, salt),
		Salt:         salt,
		Notes:        []models.Note{},
		CreatedAt:    nowFn(),
	}
	if len(descriptor) > 0 {
		acct.FaceDescriptor = append([]float64(nil), descriptor...)
	}

	s.accounts[username] = acct
	if err := s.Save(ctx); err != nil {
		delete(s.accounts, username)
		return nil, err
	}

	s.log.Info(ctx, "account registered", "username", username, "face_enrolled", acct.HasFaceDescriptor())
	return acct, nil
}

// Login verifies the credentials, makes the account the active session, and
// persists the session marker.
func (s *Store) Login(ctx context.Context, username string, password []byte) error {
	acct, ok := s.accounts[username]
	if !ok || !cryptox.VerifyPassword(password, acct.Salt, acct.PasswordHash) {
		return common.ErrInvalidCredentials
	}

	s.current = acct
	if err := s.getKVRepo().Set(ctx, currentUserKey, []byte(username)); err != nil {
		return fmt.Errorf("failed to persist session marker: %w", err)
	}

	s.log.Info(ctx, "login", "username", username)
	return nil
}

// VerifyFace compares the supplied descriptor against the one stored for
// username and reports whether they are close enough to be the same person.
// This is a similarity check, not equality: descriptors of the same face
// vary slightly between captures.
func (s *Store) VerifyFace(ctx context.Context, username string, descriptor []float64) (bool, error) {
	acct, ok := s.accounts[username]
	if !ok || !acct.HasFaceDescriptor() {
		return false, common.ErrFaceNotAvailable
	}

	d, err := s.distance(acct.FaceDescriptor, descriptor)
	if err != nil {
		return false, fmt.Errorf("failed to compare descriptors: %w", err)
	}

	match := d < MatchThreshold
	s.log.Debug(ctx, "face verification", "username", username, "distance", d, "match", match)
	return match, nil
}

// Logout clears the session and removes the persisted marker.
// No-op when nobody is logged in.
func (s *Store) Logout(ctx context.Context) error {
	if s.current == nil {
		return nil
	}

	username := s.current.Username
	s.current = nil
	if err := s.getKVRepo().Delete(ctx, currentUserKey); err != nil {
		return fmt.Errorf("failed to clear session marker: %w", err)
	}

	s.log.Info(ctx, "logout", "username", username)
	return nil
}

// DeleteAccount removes the active account and its notes, ending the
// session. The account-set rewrite and marker removal happen in a single
// transaction so a crash cannot leave a marker pointing at a ghost account.
func (s *Store) DeleteAccount(ctx context.Context) error {
	if s.current == nil {
		return common.ErrNotAuthenticated
	}

	username := s.current.Username
	delete(s.accounts, username)

	data, err := json.Marshal(s.accounts)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, usersKey, data); err != nil {
			return err
		}
		return repo.Delete(ctx, currentUserKey)
	})
	if err != nil {
		s.accounts[username] = s.current
		return err
	}

	s.current = nil
	s.log.Info(ctx, "account deleted", "username", username)
	return nil
}

// IsLoggedIn reports whether a session is active.
func (s *Store) IsLoggedIn() bool {
	return s.current != nil
}

// CurrentUser returns the active account, or nil when logged out.
func (s *Store) CurrentUser() *models.Account {
	return s.current
}

// Save re-serializes the entire account set to durable storage. Called after
// every mutation; partial or incremental writes are deliberately not
// attempted at this scale.
func (s *Store) Save(ctx context.Context) error {
	data, err := json.Marshal(s.accounts)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}
	if err := s.getKVRepo().Set(ctx, usersKey, data); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}
	return nil
}
