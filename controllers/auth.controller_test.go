package controllers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/enums"
	"github.com/lumenledger/auth/models"
	"github.com/lumenledger/auth/services"
	"github.com/pquerna/otp/totp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const testPassword = "correct-horse-battery-staple-9"

func newTestStack(t *testing.T) (*fiber.App, *connect.Connector, *config.Env) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open the test database : %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get the underlying connection : %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		models.User{},
		models.TwoFactorAuth{},
		models.WalletVerification{},
		models.Session{},
		models.Identity{},
	)
	if err != nil {
		t.Fatalf("failed to migrate the test schema : %v", err)
	}

	conn := &connect.Connector{
		DB: db,
		R: &connect.Redis{
			Session: redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
			Email:   redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
			System:  redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
		},
	}

	env := &config.Env{
		DevEnv:                string(config.Test),
		TwoFactorSecretKey:    base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		AccessTokenExpires:    15 * time.Minute,
		RefreshTokenExpires:   7 * 24 * time.Hour,
		AccessTokenMaxAge:     15,
		RefreshTokenMaxAge:    10080,
		WalletVerificationTTL: 24 * time.Hour,
		FrontendURL:           "http://localhost:3000",
		ServerURL:             "http://localhost:8080",
		ResendAPIKey:          "re_test",
	}

	authC := Auth{Conn: conn, Env: env}

	app := fiber.New()
	app.Route("/auth", func(router fiber.Router) {
		router.Post("/register", authC.Register)
		router.Post("/login", authC.Login)
		router.Post("/login-2fa", authC.LoginWith2FA)
		router.Post("/refresh", authC.RefreshToken)
		router.Post("/logout", authC.Logout)
	})

	return app, conn, env
}

func createUser(t *testing.T, conn *connect.Connector, email string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash the test password : %v", err)
	}

	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: string(hashed),
		Role:     enums.RoleUser,
	}
	if err := conn.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create the test user : %v", err)
	}

	return user
}

func enableTwoFactor(t *testing.T, conn *connect.Connector, env *config.Env, user models.User) string {
	t.Helper()

	twoFactorS := services.TwoFactor{Conn: conn, Env: env}
	enrollment, err := twoFactorS.Enroll(user.ID, user.Email)
	if err != nil {
		t.Fatalf("enrollment failed : %v", err)
	}

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	if err != nil {
		t.Fatalf("failed to generate a TOTP code : %v", err)
	}
	if err := twoFactorS.Confirm(user.ID, code); err != nil {
		t.Fatalf("confirmation failed : %v", err)
	}

	return enrollment.Secret
}

func doJSON(t *testing.T, app *fiber.App, method, target string, payload interface{}, cookie string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal the payload : %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed : %v", err)
	}

	return res
}

func readMessage(t *testing.T, res *http.Response) string {
	t.Helper()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read the response body : %v", err)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("failed to unmarshal the response body %q : %v", raw, err)
	}

	return body.Message
}

func refreshCookie(res *http.Response) (value string, present bool) {
	for _, header := range res.Header.Values("Set-Cookie") {
		if !strings.HasPrefix(header, "refreshToken=") {
			continue
		}

		value = strings.TrimPrefix(header, "refreshToken=")
		if idx := strings.Index(value, ";"); idx >= 0 {
			value = value[:idx]
		}

		return value, true
	}

	return "", false
}

func TestLoginCredentialFailuresAreIndistinguishable(t *testing.T) {
	app, conn, _ := newTestStack(t)
	createUser(t, conn, "login@example.com")

	unknown := doJSON(t, app, fiber.MethodPost, "/auth/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": testPassword,
	}, "")
	wrongPassword := doJSON(t, app, fiber.MethodPost, "/auth/login", fiber.Map{
		"email":    "login@example.com",
		"password": "definitely-not-the-password-1",
	}, "")

	if unknown.StatusCode != fiber.StatusUnauthorized || wrongPassword.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("statuses = %d / %d, want both 401", unknown.StatusCode, wrongPassword.StatusCode)
	}

	unknownMsg := readMessage(t, unknown)
	wrongMsg := readMessage(t, wrongPassword)
	if unknownMsg != wrongMsg {
		t.Fatalf("messages differ : %q vs %q", unknownMsg, wrongMsg)
	}
	if unknownMsg != "Invalid email or password" {
		t.Fatalf("message = %q, want %q", unknownMsg, "Invalid email or password")
	}
}

func TestLoginWithTwoFactorEnabledIsBlocked(t *testing.T) {
	app, conn, env := newTestStack(t)
	user := createUser(t, conn, "totp@example.com")
	enableTwoFactor(t, conn, env, user)

	res := doJSON(t, app, fiber.MethodPost, "/auth/login", fiber.Map{
		"email":    user.Email,
		"password": testPassword,
	}, "")

	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", res.StatusCode)
	}
	if _, present := refreshCookie(res); present {
		t.Fatal("a refresh token cookie was set on the plain login path")
	}

	// Wrong credentials still fail closed before the 2FA gate
	res = doJSON(t, app, fiber.MethodPost, "/auth/login", fiber.Map{
		"email":    user.Email,
		"password": "definitely-not-the-password-1",
	}, "")
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}
}

func TestLoginWith2FAWrongToken(t *testing.T) {
	app, conn, env := newTestStack(t)
	user := createUser(t, conn, "totp@example.com")
	secret := enableTwoFactor(t, conn, env, user)

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("failed to generate a TOTP code : %v", err)
	}
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	res := doJSON(t, app, fiber.MethodPost, "/auth/login-2fa", fiber.Map{
		"email":    user.Email,
		"password": testPassword,
		"token":    wrong,
	}, "")

	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}
	if _, present := refreshCookie(res); present {
		t.Fatal("a refresh token cookie was set for an invalid 2FA token")
	}
}

func TestLoginWith2FARequiresEnrollment(t *testing.T) {
	app, conn, _ := newTestStack(t)
	user := createUser(t, conn, "plain@example.com")

	res := doJSON(t, app, fiber.MethodPost, "/auth/login-2fa", fiber.Map{
		"email":    user.Email,
		"password": testPassword,
		"token":    "123456",
	}, "")

	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
}

func TestLoginWith2FARequiresToken(t *testing.T) {
	app, conn, env := newTestStack(t)
	user := createUser(t, conn, "totp@example.com")
	enableTwoFactor(t, conn, env, user)

	res := doJSON(t, app, fiber.MethodPost, "/auth/login-2fa", fiber.Map{
		"email":    user.Email,
		"password": testPassword,
	}, "")

	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
	if msg := readMessage(t, res); msg != "2FA is enabled, token is required" {
		t.Fatalf("message = %q", msg)
	}
}

func TestRefreshWithoutCookie(t *testing.T) {
	app, _, _ := newTestStack(t)

	res := doJSON(t, app, fiber.MethodPost, "/auth/refresh", nil, "")
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}
}

func TestRefreshWithTamperedTokenClearsCookie(t *testing.T) {
	app, _, _ := newTestStack(t)

	res := doJSON(t, app, fiber.MethodPost, "/auth/refresh", nil, "refreshToken=tampered.token.value")
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}

	value, present := refreshCookie(res)
	if !present {
		t.Fatal("the refresh token cookie was not cleared")
	}
	if value != "" {
		t.Fatalf("cleared cookie still carries a value : %q", value)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	app, _, _ := newTestStack(t)

	for i := 0; i < 2; i++ {
		res := doJSON(t, app, fiber.MethodPost, "/auth/logout", nil, "")
		if res.StatusCode != fiber.StatusOK {
			t.Fatalf("logout #%d status = %d, want 200", i+1, res.StatusCode)
		}

		value, present := refreshCookie(res)
		if !present || value != "" {
			t.Fatalf("logout #%d did not clear the cookie", i+1)
		}
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	app, _, _ := newTestStack(t)

	payload := fiber.Map{
		"name":     "Test User",
		"email":    "dup@example.com",
		"password": testPassword,
	}

	res := doJSON(t, app, fiber.MethodPost, "/auth/register", payload, "")
	if res.StatusCode != fiber.StatusCreated {
		raw, _ := io.ReadAll(res.Body)
		t.Fatalf("status = %d, want 201 (%s)", res.StatusCode, raw)
	}

	res = doJSON(t, app, fiber.MethodPost, "/auth/register", payload, "")
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("duplicate status = %d, want 400", res.StatusCode)
	}
	if msg := readMessage(t, res); msg != "Email already in use" {
		t.Fatalf("message = %q", msg)
	}
}

func TestRegisterValidatesPayload(t *testing.T) {
	app, _, _ := newTestStack(t)

	args := []fiber.Map{
		{"name": "Test User", "email": "not-an-email", "password": testPassword},
		{"name": "Test User", "email": "weak@example.com", "password": "password"},
		{"email": "noname@example.com", "password": testPassword},
	}

	for i, payload := range args {
		res := doJSON(t, app, fiber.MethodPost, "/auth/register", payload, "")
		if res.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("case %d status = %d, want 400", i, res.StatusCode)
		}
	}
}
