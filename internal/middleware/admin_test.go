package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kcx/internal/config"
	"github.com/example/kcx/internal/utils"
)

func TestAdminRequired(t *testing.T) {
	cfg := &config.Config{AdminSessionSecret: "session-secret"}

	app := fiber.New()
	app.Get("/admin", AdminRequired(cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	t.Run("NoToken", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("ValidCookie", func(t *testing.T) {
		token, err := utils.GenerateAdminToken(cfg.AdminSessionSecret, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Cookie", AdminSessionCookie+"="+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("ValidBearerHeader", func(t *testing.T) {
		token, err := utils.GenerateAdminToken(cfg.AdminSessionSecret, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token, err := utils.GenerateAdminToken(cfg.AdminSessionSecret, -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Cookie", AdminSessionCookie+"="+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := utils.GenerateAdminToken("other-secret", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
