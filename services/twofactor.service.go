package services

import (
	"encoding/base64"

	jose "github.com/dvsekhvalnov/jose2go"
	"github.com/google/uuid"
	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/models"
	"github.com/pquerna/otp/totp"
	"github.com/tyler-smith/go-bip39"
	"gorm.io/gorm"
)

const totpIssuer = "Lumen Ledger"

// TwoFactor contains the TOTP based two factor authentication services
type TwoFactor struct {
	Conn *connect.Connector
	Env  *config.Env
}

// Enrollment is the material handed to the user exactly once at enrollment
type Enrollment struct {
	Secret         string `json:"secret"`
	AuthURL        string `json:"auth_url"`
	RecoveryPhrase string `json:"recovery_phrase"`
}

func (t *TwoFactor) sealKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(t.Env.TwoFactorSecretKey)
	if err != nil {
		return nil, err
	}

	return key, nil
}

// seal encrypts the shared TOTP secret into a compact JWE before it is persisted
func (t *TwoFactor) seal(secret string) (string, error) {
	key, err := t.sealKey()
	if err != nil {
		return "", err
	}

	return jose.Encrypt(secret, jose.DIR, jose.A256GCM, key)
}

func (t *TwoFactor) unseal(sealed string) (string, error) {
	key, err := t.sealKey()
	if err != nil {
		return "", err
	}

	secret, _, err := jose.Decode(sealed, key)
	if err != nil {
		return "", err
	}

	return secret, nil
}

// Validate checks the submitted one time token against the users enrolled
// factor, missing enrollment, a disabled factor and a mismatched token all
// fail the same way
func (t *TwoFactor) Validate(userID uuid.UUID, token string) error {
	var factor models.TwoFactorAuth
	err := t.Conn.DB.Where(&models.TwoFactorAuth{UserID: userID}).First(&factor).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrTwoFactorTokenInvalid
		}

		return err
	}

	if !factor.Enabled {
		return errors.ErrTwoFactorTokenInvalid
	}

	secret, err := t.unseal(factor.Secret)
	if err != nil {
		return err
	}

	if !totp.Validate(token, secret) {
		return errors.ErrTwoFactorTokenInvalid
	}

	return nil
}

// Enroll generates a new TOTP secret, the otpauth URL and a recovery phrase
// for the user, the factor stays disabled until the first token is confirmed
func (t *TwoFactor) Enroll(userID uuid.UUID, email string) (*Enrollment, error) {
	var existing models.TwoFactorAuth
	err := t.Conn.DB.Where(&models.TwoFactorAuth{UserID: userID}).First(&existing).Error
	if err == nil && existing.Enabled {
		return nil, errors.ErrTwoFactorAlreadyEnrolled
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: email,
	})
	if err != nil {
		return nil, err
	}

	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return nil, err
	}
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, err
	}

	sealed, err := t.seal(key.Secret())
	if err != nil {
		return nil, err
	}

	factor := models.TwoFactorAuth{
		UserID:         userID,
		Secret:         sealed,
		AuthURL:        key.URL(),
		RecoveryPhrase: phrase,
	}

	// A pending enrollment is replaced wholesale, re-enrolling rotates the secret
	err = t.Conn.DB.Where(&models.TwoFactorAuth{UserID: userID}).Delete(&models.TwoFactorAuth{}).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if err := t.Conn.DB.Create(&factor).Error; err != nil {
		return nil, err
	}

	return &Enrollment{
		Secret:         key.Secret(),
		AuthURL:        key.URL(),
		RecoveryPhrase: phrase,
	}, nil
}

// Confirm enables a pending enrollment after the first valid token
func (t *TwoFactor) Confirm(userID uuid.UUID, token string) error {
	var factor models.TwoFactorAuth
	err := t.Conn.DB.Where(&models.TwoFactorAuth{UserID: userID}).First(&factor).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrTwoFactorNotEnabled
		}

		return err
	}

	secret, err := t.unseal(factor.Secret)
	if err != nil {
		return err
	}

	if !totp.Validate(token, secret) {
		return errors.ErrTwoFactorTokenInvalid
	}

	return t.Conn.DB.Model(&models.TwoFactorAuth{}).Where(&models.TwoFactorAuth{
		UserID: userID,
	}).Update("enabled", true).Error
}

// Disable removes the users factor, a valid token is required
func (t *TwoFactor) Disable(userID uuid.UUID, token string) error {
	if err := t.Validate(userID, token); err != nil {
		return err
	}

	return t.Conn.DB.Where(&models.TwoFactorAuth{
		UserID: userID,
	}).Delete(&models.TwoFactorAuth{}).Error
}
