package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreysx/storefront/apperr"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testDB(t)
	repo := NewUsersRepository(db)

	require.NoError(t, repo.Create(&User{Email: "a@example.com", HashedPassword: "x", Role: RoleBuyer}))

	err := repo.Create(&User{Email: "a@example.com", HashedPassword: "y", Role: RoleSeller})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestFindActiveByEmail(t *testing.T) {
	db := testDB(t)
	repo := NewUsersRepository(db)

	user := &User{Email: "a@example.com", HashedPassword: "x", Role: RoleBuyer}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindActiveByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err = repo.FindActiveByEmail("a@example.com")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), "deactivated accounts cannot log in")
}

func TestUpdateRole(t *testing.T) {
	db := testDB(t)
	repo := NewUsersRepository(db)

	user := &User{Email: "a@example.com", HashedPassword: "x", Role: RoleBuyer}
	require.NoError(t, repo.Create(user))

	updated, err := repo.UpdateRole(user.ID, RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, updated.Role)

	_, err = repo.UpdateRole(999, RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
