package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativesins/shop-api/internal/models"
)

func TestCreateUserHashesPassword(t *testing.T) {
	db := newTestDB(t)
	accounts := &AccountStore{DB: db}
	ctx := context.Background()

	user, err := accounts.CreateUser(ctx, "Joe", "Tester", "joe@example.com", "sup3r-secret", models.RoleCustomer)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "sup3r-secret", user.PasswordHash)

	password := models.Password{Hash: user.PasswordHash}
	ok, err := password.Matches("sup3r-secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = password.Matches("wrong-guess")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	accounts := &AccountStore{DB: db}
	ctx := context.Background()

	_, err := accounts.CreateUser(ctx, "Joe", "Tester", "joe@example.com", "sup3r-secret", models.RoleCustomer)
	require.NoError(t, err)

	_, err = accounts.CreateUser(ctx, "Other", "Person", "joe@example.com", "another-pass", models.RoleCustomer)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestGetByEmail(t *testing.T) {
	db := newTestDB(t)
	accounts := &AccountStore{DB: db}
	ctx := context.Background()

	created := seedUser(t, db, "joe@example.com")

	user, err := accounts.GetByEmail(ctx, "joe@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "Joe", user.FirstName)

	_, err = accounts.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditDetails(t *testing.T) {
	db := newTestDB(t)
	accounts := &AccountStore{DB: db}
	ctx := context.Background()

	user := seedUser(t, db, "joe@example.com")
	other := seedUser(t, db, "taken@example.com")

	// Keeping your own email is not a collision.
	require.NoError(t, accounts.EditDetails(ctx, user.ID, "Joseph", "Tester", "joe@example.com"))

	updated, err := accounts.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joseph", updated.FirstName)

	// Moving onto another user's email is.
	err = accounts.EditDetails(ctx, user.ID, "Joseph", "Tester", other.Email)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	err = accounts.EditDetails(ctx, 9999, "Ghost", "User", "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResetPassword(t *testing.T) {
	db := newTestDB(t)
	accounts := &AccountStore{DB: db}
	ctx := context.Background()

	user := seedUser(t, db, "joe@example.com")
	require.NoError(t, accounts.ResetPassword(ctx, user.ID, "new-secret"))

	updated, err := accounts.GetByID(ctx, user.ID)
	require.NoError(t, err)

	password := models.Password{Hash: updated.PasswordHash}
	ok, err := password.Matches("new-secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = password.Matches("sup3r-secret")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, accounts.ResetPassword(ctx, 9999, "whatever"), ErrNotFound)
}
