package credentials

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/laundrydesk/internal/client/client"
	"github.com/dmitrijs2005/laundrydesk/internal/client/models"
	"github.com/dmitrijs2005/laundrydesk/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newSQLiteStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db), db
}

func stores(t *testing.T) map[string]*Store {
	s, _ := newSQLiteStore(t)
	return map[string]*Store{
		"sqlite": s,
		"memory": NewStore(metadata.NewMemoryRepository()),
	}
}

func TestStore_PrimitiveOps(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "k", []byte("v")))
			v, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []byte("v"), v)

			require.NoError(t, s.Remove(ctx, "k"))
			_, ok, _ = s.Get(ctx, "k")
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "a", []byte("1")))
			require.NoError(t, s.Set(ctx, "b", []byte("2")))
			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, keys)

			require.NoError(t, s.Clear(ctx, "a", "b", "c"))
			_, okA, _ := s.Get(ctx, "a")
			_, okB, _ := s.Get(ctx, "b")
			assert.False(t, okA || okB)
		})
	}
}

func TestStore_CredentialRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.LoadCredential(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			want := models.Credential{
				AccessToken: "T1",
				RememberMe:  true,
				User:        models.User{ID: 1, Name: "Ops", Email: "a@b.com", Role: models.RoleAdmin},
			}
			require.NoError(t, s.SaveCredential(ctx, want))

			got, ok, err := s.LoadCredential(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, want, got)

			require.NoError(t, s.Clear(ctx, CredentialKeys...))
			_, ok, err = s.LoadCredential(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
			for _, k := range CredentialKeys {
				_, present, _ := s.Get(ctx, k)
				assert.False(t, present, k)
			}
		})
	}
}

func TestStore_LoadCredentialRequiresTokenAndUser(t *testing.T) {
	ctx := context.Background()
	s := NewStore(metadata.NewMemoryRepository())

	require.NoError(t, s.Set(ctx, KeyAccessToken, []byte("T1")))
	_, ok, err := s.LoadCredential(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "token without user")

	require.NoError(t, s.Set(ctx, KeyUser, []byte("{not json")))
	_, ok, err = s.LoadCredential(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "corrupt user counts as absent")

	require.NoError(t, s.Set(ctx, KeyUser, []byte(`{"id":3,"role":"user"}`)))
	c, ok, err := s.LoadCredential(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, c.RememberMe, "remember-me defaults to false")
}

func TestStore_PendingChallenge(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.LoadPending(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			p := models.PendingChallenge{
				TempToken: "TT1",
				Phone:     "+96512345678",
				Client:    models.Client{Phone: "+96512345678", Name: "Fatima"},
			}
			require.NoError(t, s.SavePending(ctx, p))

			got, ok, err := s.LoadPending(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, p, got)

			require.NoError(t, s.ClearPending(ctx))
			_, ok, err = s.LoadPending(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_PendingPhoneFallsBackToClientPhone(t *testing.T) {
	ctx := context.Background()
	s := NewStore(metadata.NewMemoryRepository())
	require.NoError(t, s.Set(ctx, KeyTempToken, []byte("TT1")))
	require.NoError(t, s.Set(ctx, KeyPendingClient, []byte(`{"phone":"+96599999999"}`)))

	p, ok, err := s.LoadPending(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "+96599999999", p.Phone)
}

func TestStore_ClientID(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.LoadClientID(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.SaveClientID(ctx, 42))
			id, ok, err := s.LoadClientID(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, int64(42), id)

			require.NoError(t, s.Set(ctx, KeyClientID, []byte("forty-two")))
			_, ok, err = s.LoadClientID(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Clear(ctx, KeyClientID))
			_, present, err := s.Get(ctx, KeyClientID)
			require.NoError(t, err)
			assert.False(t, present)
		})
	}
}

func TestStore_SaveCredentialRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO metadata`).WithArgs(KeyAccessToken, []byte("T1")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO metadata`).WithArgs(KeyUser, sqlmock.AnyArg()).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	s := NewSQLiteStore(db)
	err = s.SaveCredential(context.Background(), models.Credential{AccessToken: "T1", User: models.User{ID: 1}})
	require.ErrorContains(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}
