// Package credentials is the durable key/value store behind the auth state:
// access token, serialized user, remember-me flag, the pending OTP challenge
// and the customer's own client id.
package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/laundrydesk/internal/client/models"
	"github.com/dmitrijs2005/laundrydesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/laundrydesk/internal/dbx"
)

// Storage keys.
const (
	KeyAccessToken   = "access_token"
	KeyUser          = "user"
	KeyRememberMe    = "remember_me"
	KeyTempToken     = "temp_token"
	KeyPendingClient = "pending_client"
	KeyPendingPhone  = "pending_phone"
	KeyClientID      = "client_id"
)

var (
	CredentialKeys = []string{KeyAccessToken, KeyUser, KeyRememberMe}
	PendingKeys    = []string{KeyTempToken, KeyPendingClient, KeyPendingPhone}
)

// Store wraps a metadata.Repository. When built with NewSQLiteStore, multi-key
// writes run in one transaction.
type Store struct {
	repo metadata.Repository
	db   *sql.DB
}

// NewStore builds a Store over any repository. Multi-key writes are issued
// one after another.
func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// NewSQLiteStore builds a Store over the metadata table in db.
func NewSQLiteStore(db *sql.DB) *Store {
	return &Store{repo: metadata.NewSQLiteRepository(db), db: db}
}

// Get returns the raw value for key; ok is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return v, v != nil, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.repo.Set(ctx, key, value)
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// Clear removes every key in keys. Absent keys are ignored.
func (s *Store) Clear(ctx context.Context, keys ...string) error {
	return s.repo.DeleteKeys(ctx, keys...)
}

// Keys returns the names of all stored entries, sorted.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	m, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// atomically runs fn against a repository bound to a transaction when one is
// available.
func (s *Store) atomically(ctx context.Context, fn func(ctx context.Context, repo metadata.Repository) error) error {
	if s.db == nil {
		return fn(ctx, s.repo)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, metadata.NewSQLiteRepository(tx))
	})
}

// SaveCredential writes token, user and remember-me together.
func (s *Store) SaveCredential(ctx context.Context, c models.Credential) error {
	userJSON, err := json.Marshal(c.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return s.atomically(ctx, func(ctx context.Context, repo metadata.Repository) error {
		if err := repo.Set(ctx, KeyAccessToken, []byte(c.AccessToken)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyUser, userJSON); err != nil {
			return err
		}
		return repo.Set(ctx, KeyRememberMe, []byte(strconv.FormatBool(c.RememberMe)))
	})
}

// LoadCredential returns the persisted credential. ok is false unless both
// token and user are present and the user decodes.
func (s *Store) LoadCredential(ctx context.Context) (c models.Credential, ok bool, err error) {
	token, err := s.repo.Get(ctx, KeyAccessToken)
	if err != nil {
		return c, false, err
	}
	userJSON, err := s.repo.Get(ctx, KeyUser)
	if err != nil {
		return c, false, err
	}
	if len(token) == 0 || len(userJSON) == 0 {
		return c, false, nil
	}
	if err := json.Unmarshal(userJSON, &c.User); err != nil {
		return models.Credential{}, false, nil
	}

	remember, err := s.repo.Get(ctx, KeyRememberMe)
	if err != nil {
		return models.Credential{}, false, err
	}

	c.AccessToken = string(token)
	c.RememberMe, _ = strconv.ParseBool(string(remember))
	return c, true, nil
}

// SavePending persists an OTP challenge.
func (s *Store) SavePending(ctx context.Context, p models.PendingChallenge) error {
	clientJSON, err := json.Marshal(p.Client)
	if err != nil {
		return fmt.Errorf("marshal client: %w", err)
	}

	return s.atomically(ctx, func(ctx context.Context, repo metadata.Repository) error {
		if err := repo.Set(ctx, KeyTempToken, []byte(p.TempToken)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyPendingPhone, []byte(p.Phone)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyPendingClient, clientJSON)
	})
}

// LoadPending returns the stored OTP challenge, if any. A challenge without a
// temp token does not count.
func (s *Store) LoadPending(ctx context.Context) (p models.PendingChallenge, ok bool, err error) {
	temp, err := s.repo.Get(ctx, KeyTempToken)
	if err != nil || len(temp) == 0 {
		return p, false, err
	}
	phone, err := s.repo.Get(ctx, KeyPendingPhone)
	if err != nil {
		return p, false, err
	}
	clientJSON, err := s.repo.Get(ctx, KeyPendingClient)
	if err != nil {
		return p, false, err
	}
	if len(clientJSON) > 0 {
		_ = json.Unmarshal(clientJSON, &p.Client)
	}

	p.TempToken = string(temp)
	p.Phone = string(phone)
	if p.Phone == "" {
		p.Phone = p.Client.Phone
	}
	return p, true, nil
}

func (s *Store) ClearPending(ctx context.Context) error {
	return s.Clear(ctx, PendingKeys...)
}

func (s *Store) SaveClientID(ctx context.Context, id int64) error {
	return s.repo.Set(ctx, KeyClientID, []byte(strconv.FormatInt(id, 10)))
}

// LoadClientID returns the customer's own client id; ok is false when none is
// stored or the value is not a number.
func (s *Store) LoadClientID(ctx context.Context) (int64, bool, error) {
	v, err := s.repo.Get(ctx, KeyClientID)
	if err != nil || len(v) == 0 {
		return 0, false, err
	}
	id, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return id, true, nil
}
