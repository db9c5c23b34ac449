package services

import (
	"context"
	"testing"
	"time"

	"courseplatform/backend/apperr"
	"courseplatform/backend/models"
	"courseplatform/backend/testutil"
	"courseplatform/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewUserService(db, 4)
	user := testutil.CreateUser(t, db, "ana@example.com", models.RoleAdmin)

	got, err := svc.Login(ctx, " Ana@Example.com ", "password123", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	var history []models.LoginHistory
	require.NoError(t, db.Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, "10.0.0.1", history[0].IP)

	_, err = svc.Login(ctx, "ana@example.com", "wrong", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "password123", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.Login(ctx, "ana@example.com", "password123", "")
	var fe *apperr.ForbiddenError
	assert.ErrorAs(t, err, &fe)

	_, err = svc.Active(ctx, user.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestUserManagement(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewUserService(db, 4)
	root := testutil.CreateUser(t, db, "root@example.com", models.RoleSuperAdmin)

	user, err := svc.Create(ctx, CreateUserInput{Email: "New@Example.com", Password: "secret123", Name: "New", Role: models.RoleAssistant})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.True(t, user.IsActive)

	_, err = svc.Create(ctx, CreateUserInput{Email: "new@example.com", Password: "secret123", Name: "Dup", Role: models.RoleAdmin})
	var ce *apperr.ConflictError
	assert.ErrorAs(t, err, &ce)

	user, err = svc.Update(ctx, user.ID, UserUpdate{Role: strPtr(models.RoleAdmin), IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.False(t, user.IsActive)
	assert.Equal(t, "New", user.Name)

	require.NoError(t, svc.ResetPassword(ctx, user.ID, "another123"))
	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, utils.CheckPassword(stored.PasswordHash, "another123"))

	var fe *apperr.ForbiddenError
	assert.ErrorAs(t, svc.Delete(ctx, root.ID), &fe)
	require.NoError(t, svc.Delete(ctx, user.ID))
	assert.True(t, apperr.IsNotFound(svc.Delete(ctx, user.ID)))
	assert.True(t, apperr.IsNotFound(svc.ResetPassword(ctx, user.ID, "another123")))

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestChangePassword(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewUserService(db, 4)
	user := testutil.CreateUser(t, db, "ana@example.com", models.RoleAdmin)

	var bad *apperr.BadRequestError
	assert.ErrorAs(t, svc.ChangePassword(ctx, user, "wrong", "newpass123"), &bad)

	require.NoError(t, svc.ChangePassword(ctx, user, "password123", "newpass123"))
	_, err := svc.Login(ctx, "ana@example.com", "newpass123", "")
	assert.NoError(t, err)
}

func TestLoginHistory(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewUserService(db, 4)
	user := testutil.CreateUser(t, db, "ana@example.com", models.RoleAdmin)

	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		svc.now = func() time.Time { return day.AddDate(0, 0, i) }
		_, err := svc.Login(ctx, "ana@example.com", "password123", "")
		require.NoError(t, err)
	}

	logins, err := svc.LoginHistory(ctx, user.ID, day, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, logins, 2)
	assert.True(t, logins[0].LoginTime.After(logins[1].LoginTime))

	_, err = svc.LoginHistory(ctx, 9999, day, day)
	assert.True(t, apperr.IsNotFound(err))
}
