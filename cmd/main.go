// Auth is a backend for authentication and Stellar wallet verification
package main

import (
	"fmt"
	"time"

	"github.com/VinukaThejana/go-utils/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/controllers"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/middleware"
	"github.com/lumenledger/auth/stellar"
	"github.com/lumenledger/auth/utils"
)

var (
	env  config.Env
	conn connect.Connector
)

func init() {
	env.Load()

	conn.InitDatabase(&env)
	utils.CheckForMigrations(&conn, &env)

	conn.InitRatelimiter(&env)
	conn.InitRedis(&env)
}

func main() {
	app := fiber.New()
	if config.GetDevEnv(&env) == config.Dev {
		app.Use(fiberLogger.New())
	}

	app.Use(cors.New(cors.Config{
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowOrigins:     env.FrontendHostname,
		AllowCredentials: true,
		AllowMethods:     "*",
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusTooManyRequests)
		},
		SkipFailedRequests:     false,
		SkipSuccessfulRequests: false,
		LimiterMiddleware:      limiter.SlidingWindow{},
		Storage:                conn.Ratelimter,
	}))

	// Webhook class endpoints get a much tighter window
	webhookLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return errors.Respond(c, errors.ErrTooManyRequests)
		},
		LimiterMiddleware: limiter.SlidingWindow{},
		Storage:           conn.Ratelimter,
	})

	authC := controllers.Auth{Conn: &conn, Env: &env}
	walletC := controllers.Wallet{
		Conn:   &conn,
		Env:    &env,
		Ledger: stellar.NewHorizon(env.HorizonURL),
	}
	twoFactorC := controllers.TwoFactor{Conn: &conn, Env: &env}
	emailC := controllers.Email{Conn: &conn, Env: &env}
	systemC := controllers.System{Conn: &conn}
	authM := middleware.Auth{Conn: &conn, Env: &env}

	app.Route("/auth", func(router fiber.Router) {
		router.Post("/register", authC.Register)
		router.Post("/login", authC.Login)
		router.Post("/login-2fa", authC.LoginWith2FA)
		router.Get("/auth0/callback", authC.Auth0Callback)
		router.Post("/refresh", authC.RefreshToken)
		router.Post("/logout", authC.Logout)
	})

	app.Route("/2fa", func(router fiber.Router) {
		router.Post("/enroll", authM.Check, twoFactorC.Enroll)
		router.Post("/verify", authM.Check, twoFactorC.Verify)
		router.Post("/disable", authM.Check, twoFactorC.Disable)
	})

	app.Route("/wallet", func(router fiber.Router) {
		router.Post("/verify/initiate", webhookLimiter, authM.Check, walletC.InitiateVerification)
		router.Post("/verify", webhookLimiter, walletC.VerifyWallet)
	})

	app.Get("/email/confirm", emailC.ConfirmEmail)
	app.Get("/health", systemC.Health)

	app.Route("/monitor", func(router fiber.Router) {
		router.Get("/metrics", monitor.New(monitor.Config{
			Title: "Monitor Auth",
		}))
	})

	logger.Errorf(app.Listen(fmt.Sprintf(":%s", env.Port)))
}
