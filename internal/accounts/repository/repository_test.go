package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupRepo(t *testing.T) *Repository {
	dbPath := filepath.Join(t.TempDir(), "accounts_test.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE addresses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			line1 TEXT NOT NULL,
			city TEXT NOT NULL,
			postal_code TEXT NOT NULL,
			is_default INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	require.NoError(t, err)

	return NewRepository(db)
}

func TestRepository_HasAddress(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	has, err := repo.HasAddress(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = repo.AddAddress(ctx, Address{UserID: "u1", Line1: "12 Bazaar Rd", City: "Kochi", PostalCode: "682001"})
	require.NoError(t, err)

	has, err = repo.HasAddress(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, has)

	// other users see nothing
	has, err = repo.HasAddress(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRepository_SetDefault(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	a, err := repo.AddAddress(ctx, Address{UserID: "u1", Line1: "a", City: "x", PostalCode: "1", IsDefault: true})
	require.NoError(t, err)
	b, err := repo.AddAddress(ctx, Address{UserID: "u1", Line1: "b", City: "y", PostalCode: "2"})
	require.NoError(t, err)

	require.NoError(t, repo.SetDefault(ctx, "u1", b))

	addrs, err := repo.ListAddresses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, b, addrs[0].ID, "default sorts first")
	assert.True(t, addrs[0].IsDefault)
	assert.Equal(t, a, addrs[1].ID)
	assert.False(t, addrs[1].IsDefault)
}

func TestRepository_SetDefault_UnknownAddress(t *testing.T) {
	repo := setupRepo(t)

	err := repo.SetDefault(context.Background(), "u1", 999)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestRepository_SetDefault_OtherUsersAddress(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	id, err := repo.AddAddress(ctx, Address{UserID: "u1", Line1: "a", City: "x", PostalCode: "1"})
	require.NoError(t, err)

	err = repo.SetDefault(ctx, "u2", id)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	id, err := repo.AddAddress(ctx, Address{UserID: "u1", Line1: "a", City: "x", PostalCode: "1"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "u1", id))
	assert.ErrorIs(t, repo.Delete(ctx, "u1", id), ErrAddressNotFound)

	has, err := repo.HasAddress(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, has)
}
