package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/models"
	"github.com/pquerna/otp/totp"
)

func currentCode(t *testing.T, secret string) string {
	t.Helper()

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("failed to generate a TOTP code : %v", err)
	}

	return code
}

func wrongCode(t *testing.T, secret string) string {
	t.Helper()

	code := currentCode(t, secret)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	return wrong
}

func TestTwoFactorEnrollConfirmValidate(t *testing.T) {
	conn := newTestConnector(t)
	user := newTestUser(t, conn, "totp@example.com")
	twoFactorS := TwoFactor{Conn: conn, Env: newTestEnv()}

	enrollment, err := twoFactorS.Enroll(user.ID, user.Email)
	if err != nil {
		t.Fatalf("enrollment failed : %v", err)
	}
	if enrollment.Secret == "" || enrollment.AuthURL == "" || enrollment.RecoveryPhrase == "" {
		t.Fatalf("incomplete enrollment material : %+v", enrollment)
	}

	// The factor is pending until confirmed, login validation must reject it
	err = twoFactorS.Validate(user.ID, currentCode(t, enrollment.Secret))
	if err != errors.ErrTwoFactorTokenInvalid {
		t.Fatalf("pending factor validated, error = %v", err)
	}

	if err := twoFactorS.Confirm(user.ID, currentCode(t, enrollment.Secret)); err != nil {
		t.Fatalf("confirmation failed : %v", err)
	}

	if err := twoFactorS.Validate(user.ID, currentCode(t, enrollment.Secret)); err != nil {
		t.Fatalf("validation of a fresh code failed : %v", err)
	}

	if err := twoFactorS.Validate(user.ID, wrongCode(t, enrollment.Secret)); err != errors.ErrTwoFactorTokenInvalid {
		t.Fatalf("wrong code error = %v, want %v", err, errors.ErrTwoFactorTokenInvalid)
	}
}

func TestTwoFactorSecretIsSealedAtRest(t *testing.T) {
	conn := newTestConnector(t)
	user := newTestUser(t, conn, "totp@example.com")
	twoFactorS := TwoFactor{Conn: conn, Env: newTestEnv()}

	enrollment, err := twoFactorS.Enroll(user.ID, user.Email)
	if err != nil {
		t.Fatalf("enrollment failed : %v", err)
	}

	var factor models.TwoFactorAuth
	if err := conn.DB.Where(&models.TwoFactorAuth{UserID: user.ID}).First(&factor).Error; err != nil {
		t.Fatalf("failed to load the factor : %v", err)
	}

	if factor.Secret == enrollment.Secret {
		t.Fatal("the TOTP secret is stored in plaintext")
	}

	secret, err := twoFactorS.unseal(factor.Secret)
	if err != nil {
		t.Fatalf("failed to unseal the secret : %v", err)
	}
	if secret != enrollment.Secret {
		t.Fatal("unsealed secret does not round trip")
	}
}

func TestTwoFactorValidateWithoutEnrollment(t *testing.T) {
	conn := newTestConnector(t)
	twoFactorS := TwoFactor{Conn: conn, Env: newTestEnv()}

	err := twoFactorS.Validate(uuid.New(), "123456")
	if err != errors.ErrTwoFactorTokenInvalid {
		t.Fatalf("error = %v, want %v", err, errors.ErrTwoFactorTokenInvalid)
	}
}

func TestTwoFactorEnrollTwice(t *testing.T) {
	conn := newTestConnector(t)
	user := newTestUser(t, conn, "totp@example.com")
	twoFactorS := TwoFactor{Conn: conn, Env: newTestEnv()}

	first, err := twoFactorS.Enroll(user.ID, user.Email)
	if err != nil {
		t.Fatalf("first enrollment failed : %v", err)
	}

	// Re-enrolling a pending factor rotates the secret
	second, err := twoFactorS.Enroll(user.ID, user.Email)
	if err != nil {
		t.Fatalf("re-enrollment failed : %v", err)
	}
	if first.Secret == second.Secret {
		t.Fatal("re-enrollment did not rotate the secret")
	}

	if err := twoFactorS.Confirm(user.ID, currentCode(t, second.Secret)); err != nil {
		t.Fatalf("confirmation failed : %v", err)
	}

	// An enabled factor cannot be silently re-enrolled
	_, err = twoFactorS.Enroll(user.ID, user.Email)
	if err != errors.ErrTwoFactorAlreadyEnrolled {
		t.Fatalf("error = %v, want %v", err, errors.ErrTwoFactorAlreadyEnrolled)
	}
}

func TestTwoFactorDisable(t *testing.T) {
	conn := newTestConnector(t)
	user := newTestUser(t, conn, "totp@example.com")
	twoFactorS := TwoFactor{Conn: conn, Env: newTestEnv()}

	enrollment, err := twoFactorS.Enroll(user.ID, user.Email)
	if err != nil {
		t.Fatalf("enrollment failed : %v", err)
	}
	if err := twoFactorS.Confirm(user.ID, currentCode(t, enrollment.Secret)); err != nil {
		t.Fatalf("confirmation failed : %v", err)
	}

	if err := twoFactorS.Disable(user.ID, wrongCode(t, enrollment.Secret)); err != errors.ErrTwoFactorTokenInvalid {
		t.Fatalf("disable with a wrong code error = %v, want %v", err, errors.ErrTwoFactorTokenInvalid)
	}

	if err := twoFactorS.Disable(user.ID, currentCode(t, enrollment.Secret)); err != nil {
		t.Fatalf("disable failed : %v", err)
	}

	err = twoFactorS.Validate(user.ID, currentCode(t, enrollment.Secret))
	if err != errors.ErrTwoFactorTokenInvalid {
		t.Fatalf("validation after disable error = %v, want %v", err, errors.ErrTwoFactorTokenInvalid)
	}
}
