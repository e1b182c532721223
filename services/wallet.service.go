package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/enums"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/models"
	"github.com/lumenledger/auth/stellar"
	"gorm.io/gorm"
)

// VerificationMailer sends the wallet verification email
type VerificationMailer interface {
	SendWalletVerification(email, verificationToken, verificationCode string) error
}

// Wallet orchestrates the wallet verification record lifecycle,
// pending -> verified, with expiry
type Wallet struct {
	Conn   *connect.Connector
	Env    *config.Env
	Mailer VerificationMailer
	Ledger stellar.Ledger
}

// InitiateVerification validates the claimed address, supersedes any prior
// pending verification of the user and persists a fresh pending record, then
// emails the owner the verification link and code
func (w *Wallet) InitiateVerification(userID uuid.UUID, walletAddress string) (*models.WalletVerification, error) {
	if !stellar.IsValidAddress(walletAddress) {
		return nil, errors.ErrInvalidWalletAddress
	}

	var user models.User
	err := w.Conn.DB.Where(&models.User{ID: userID}).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}

		return nil, err
	}

	// Re-issuance supersedes, old emailed links die here
	err = w.Conn.DB.Model(&models.WalletVerification{}).
		Where("user_id = ? AND status = ?", userID, enums.VerificationPending).
		Update("status", enums.VerificationExpired).Error
	if err != nil {
		return nil, err
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, err
	}

	verification := models.WalletVerification{
		UserID:            userID,
		WalletAddress:     walletAddress,
		VerificationToken: uuid.NewString(),
		VerificationCode:  code,
		Status:            enums.VerificationPending,
		ExpiresAt:         time.Now().UTC().Add(w.Env.WalletVerificationTTL),
	}
	if err := w.Conn.DB.Create(&verification).Error; err != nil {
		return nil, err
	}

	err = w.Mailer.SendWalletVerification(
		user.Email,
		verification.VerificationToken,
		verification.VerificationCode,
	)
	if err != nil {
		return nil, err
	}

	return &verification, nil
}

// VerifyWallet completes a pending verification, the code and expiry are
// enforced and the address must exist on the ledger, on success the owning
// user is updated and the record is consumed
func (w *Wallet) VerifyWallet(verificationToken, verificationCode string) error {
	var verification models.WalletVerification
	err := w.Conn.DB.Where(&models.WalletVerification{
		VerificationToken: verificationToken,
		Status:            enums.VerificationPending,
	}).First(&verification).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrVerificationNotFound
		}

		return err
	}

	// A code mismatch is indistinguishable from an unknown token
	if verification.VerificationCode != verificationCode {
		return errors.ErrVerificationNotFound
	}
	if time.Now().UTC().After(verification.ExpiresAt) {
		return errors.ErrVerificationNotFound
	}

	exists, err := w.Ledger.WalletExists(verification.WalletAddress)
	if err != nil {
		return err
	}
	if !exists {
		return errors.ErrWalletNotOnLedger
	}

	var user models.User
	err = w.Conn.DB.Where(&models.User{ID: verification.UserID}).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}

		return err
	}

	user.WalletAddress = &verification.WalletAddress
	user.IsWalletVerified = true
	if err := w.Conn.DB.Save(&user).Error; err != nil {
		return err
	}

	// Consumed, a raced second confirmation fails the pending lookup
	return w.Conn.DB.Delete(&verification).Error
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n), nil
}
