package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lumenledger/auth/config"
)

// RefreshTokenCookie is the name of the cookie carrying the refresh token
const RefreshTokenCookie = "refreshToken"

// SetRefreshTokenCookie attaches the refresh token to the response as an
// http only, same site strict cookie, secure on production
func SetRefreshTokenCookie(c *fiber.Ctx, env *config.Env, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   env.RefreshTokenMaxAge * 60,
		Secure:   config.GetDevEnv(env) == config.Prod,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearRefreshTokenCookie expires the refresh token cookie on the client
func ClearRefreshTokenCookie(c *fiber.Ctx, env *config.Env) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * 24),
		Secure:   config.GetDevEnv(env) == config.Prod,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
