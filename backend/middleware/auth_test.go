package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"courseplatform/backend/models"
	"courseplatform/backend/services"
	"courseplatform/backend/testutil"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	inactive := testutil.CreateUser(t, db, "gone@example.com", models.RoleAdmin)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	app := fiber.New()
	app.Get("/me", AuthMiddleware(services.NewUserService(db, cfg.BcryptCost), cfg), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Email)
	})
	app.Get("/root", AuthMiddleware(services.NewUserService(db, cfg.BcryptCost), cfg), RoleMiddleware(models.RoleSuperAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	token := func(u *models.User) string {
		tok, err := utils.GenerateToken(u, cfg)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"garbage token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/me", token(admin), http.StatusOK},
		{"inactive user", "/me", token(inactive), http.StatusUnauthorized},
		{"role guard", "/root", token(admin), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
