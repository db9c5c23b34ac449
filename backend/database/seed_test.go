package database_test

import (
	"context"
	"testing"

	"courseplatform/backend/database"
	"courseplatform/backend/models"
	"courseplatform/backend/services"
	"courseplatform/backend/testutil"
	"courseplatform/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	cfg.SuperAdminEmail = "root@example.com"
	cfg.SuperAdminPassword = "supersecret"
	cfg.SuperAdminName = "Root"

	require.NoError(t, database.Seed(db, cfg, testutil.Logger()))
	require.NoError(t, database.Seed(db, cfg, testutil.Logger()))

	var groups []models.ProgramGroup
	require.NoError(t, db.Order("sort_order").Find(&groups).Error)
	require.Len(t, groups, 10)
	assert.Equal(t, "informatika", groups[0].Slug)
	assert.Equal(t, "izbiraemi-disciplini", groups[9].Slug)

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.RoleSuperAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.True(t, admins[0].IsActive)
	assert.True(t, utils.CheckPassword(admins[0].PasswordHash, "supersecret"))
}

func TestSeededAdminCanLogIn(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	cfg.SuperAdminEmail = " Admin@Example.com "
	cfg.SuperAdminPassword = "password123"

	require.NoError(t, database.Seed(db, cfg, testutil.Logger()))
	require.NoError(t, database.Seed(db, cfg, testutil.Logger()))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "admin@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	user, err := services.NewUserService(db, cfg.BcryptCost).Login(context.Background(), "Admin@Example.com", "password123", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)
}

func TestSeedSkipsAdminWithoutCredentials(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, database.Seed(db, testutil.Config(), testutil.Logger()))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnknownDriver(t *testing.T) {
	cfg := testutil.Config()
	cfg.DBDriver = "oracle"

	_, err := database.InitDB(cfg, testutil.Logger())
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestCascadeDeleteRemovesDescendants(t *testing.T) {
	db := testutil.NewDB(t)
	tree := testutil.CreateTree(t, db, "cascade")

	require.NoError(t, db.Delete(&models.Course{}, tree.Course.ID).Error)

	for _, m := range []interface{}{&models.Module{}, &models.Topic{}, &models.Lesson{}, &models.Resource{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T rows left after course delete", m)
	}
}
