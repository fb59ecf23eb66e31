package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicopos/UrbanEye/db"
	"github.com/andreicopos/UrbanEye/models"
	"github.com/andreicopos/UrbanEye/testutil"
)

func newUser(email, phone string) *models.User {
	return &models.User{
		Name:           "Ana",
		Surname:        "Pop",
		Age:            28,
		City:           "Cluj",
		Phone:          phone,
		Email:          email,
		HashedPassword: "hash",
	}
}

func TestCreateUserAssignsID(t *testing.T) {
	repo := db.NewAuthRepo(testutil.NewTestDB(t))

	user, err := repo.CreateUser(context.Background(), newUser("ana@example.com", "0711"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := db.NewAuthRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, newUser("ana@example.com", "0711"))
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, newUser("ana@example.com", "0722"))
	assert.ErrorIs(t, err, db.ErrDuplicateIdentity)

	_, err = repo.CreateUser(ctx, newUser("other@example.com", "0733"))
	assert.NoError(t, err)
}

func TestCreateUserDuplicatePhone(t *testing.T) {
	repo := db.NewAuthRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, newUser("a@example.com", "0711"))
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, newUser("b@example.com", "0711"))
	assert.ErrorIs(t, err, db.ErrDuplicateIdentity)
}

func TestFindUserByContact(t *testing.T) {
	repo := db.NewAuthRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, newUser("ana@example.com", "0711"))
	require.NoError(t, err)

	byEmail, err := repo.FindUserByContact(ctx, "  ANA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.HashedPassword)

	byPhone, err := repo.FindUserByContact(ctx, "0711")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)

	_, err = repo.FindUserByContact(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, db.ErrUserNotFound)

	_, err = repo.FindUserByContact(ctx, "")
	assert.ErrorIs(t, err, db.ErrUserNotFound)
}

func TestUserExistsAndFindByID(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	repo := db.NewAuthRepo(gdb)
	ctx := context.Background()
	user := testutil.CreateUser(t, gdb, "Ana", "Pop")

	ok, err := repo.UserExists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UserExists(ctx, user.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Pop", found.FullName())

	_, err = repo.FindUserByID(ctx, user.ID+100)
	assert.ErrorIs(t, err, db.ErrUserNotFound)
}
