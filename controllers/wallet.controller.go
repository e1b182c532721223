package controllers

import (
	"github.com/VinukaThejana/go-utils/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/services"
	"github.com/lumenledger/auth/session"
	"github.com/lumenledger/auth/stellar"
	"github.com/lumenledger/auth/utils"
	"github.com/lumenledger/auth/validate"
)

// Wallet is a struct that contains the wallet verification controllers
type Wallet struct {
	Conn   *connect.Connector
	Env    *config.Env
	Ledger stellar.Ledger
}

func (w *Wallet) service() services.Wallet {
	return services.Wallet{
		Conn:   w.Conn,
		Env:    w.Env,
		Mailer: &utils.Email{Conn: w.Conn, Env: w.Env},
		Ledger: w.Ledger,
	}
}

// InitiateVerification starts a wallet verification for the logged in user
func (w *Wallet) InitiateVerification(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return errors.Respond(c, errors.ErrUnauthorized)
	}

	var payload struct {
		WalletAddress string `json:"wallet_address" validate:"required,validate_stellar_address"`
	}

	if err := c.BodyParser(&payload); err != nil {
		logger.Error(err)
		return errors.Respond(c, errors.ErrBadRequest)
	}

	v := validator.New()
	v.RegisterValidation("validate_stellar_address", validate.StellarAddress)
	if err := v.Struct(payload); err != nil {
		return errors.Respond(c, errors.ErrInvalidWalletAddress)
	}

	walletS := w.service()
	_, err = walletS.InitiateVerification(userID, payload.WalletAddress)
	if err != nil {
		logger.Error(err)
		return errors.Respond(c, err)
	}

	return errors.Done(c)
}

// VerifyWallet completes a wallet verification with the emailed token and code
func (w *Wallet) VerifyWallet(c *fiber.Ctx) error {
	var payload struct {
		Token string `json:"token" validate:"required"`
		Code  string `json:"code" validate:"required,len=6,numeric"`
	}

	if err := c.BodyParser(&payload); err != nil {
		logger.Error(err)
		return errors.Respond(c, errors.ErrBadRequest)
	}

	v := validator.New()
	if err := v.Struct(payload); err != nil {
		return errors.Respond(c, errors.ErrVerificationNotFound)
	}

	walletS := w.service()
	if err := walletS.VerifyWallet(payload.Token, payload.Code); err != nil {
		logger.Error(err)
		return errors.Respond(c, err)
	}

	return errors.Done(c)
}
