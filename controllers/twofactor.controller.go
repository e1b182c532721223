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
)

// TwoFactor is a struct that contains the two factor enrollment controllers
type TwoFactor struct {
	Conn *connect.Connector
	Env  *config.Env
}

// Enroll issues a new TOTP secret, otpauth URL and recovery phrase for the
// logged in user, the factor is enabled only after the first confirmed token
func (t *TwoFactor) Enroll(c *fiber.Ctx) error {
	user, err := session.Get(c)
	if err != nil {
		return errors.Respond(c, errors.ErrUnauthorized)
	}

	twoFactorS := services.TwoFactor{Conn: t.Conn, Env: t.Env}
	enrollment, err := twoFactorS.Enroll(user.ID, user.Email)
	if err != nil {
		logger.Error(err)
		return errors.Respond(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(enrollment)
}

// Verify confirms a pending enrollment with the first one time token
func (t *TwoFactor) Verify(c *fiber.Ctx) error {
	user, err := session.Get(c)
	if err != nil {
		return errors.Respond(c, errors.ErrUnauthorized)
	}

	var payload struct {
		Token string `json:"token" validate:"required,len=6,numeric"`
	}

	if err := c.BodyParser(&payload); err != nil {
		logger.Error(err)
		return errors.Respond(c, errors.ErrBadRequest)
	}

	v := validator.New()
	if err := v.Struct(payload); err != nil {
		return errors.Respond(c, errors.ErrBadRequest)
	}

	twoFactorS := services.TwoFactor{Conn: t.Conn, Env: t.Env}
	if err := twoFactorS.Confirm(user.ID, payload.Token); err != nil {
		logger.Error(err)
		return errors.Respond(c, err)
	}

	return errors.Done(c)
}

// Disable removes the factor of the logged in user, a valid token is required
func (t *TwoFactor) Disable(c *fiber.Ctx) error {
	user, err := session.Get(c)
	if err != nil {
		return errors.Respond(c, errors.ErrUnauthorized)
	}

	var payload struct {
		Token string `json:"token" validate:"required,len=6,numeric"`
	}

	if err := c.BodyParser(&payload); err != nil {
		logger.Error(err)
		return errors.Respond(c, errors.ErrBadRequest)
	}

	v := validator.New()
	if err := v.Struct(payload); err != nil {
		return errors.Respond(c, errors.ErrBadRequest)
	}

	twoFactorS := services.TwoFactor{Conn: t.Conn, Env: t.Env}
	if err := twoFactorS.Disable(user.ID, payload.Token); err != nil {
		logger.Error(err)
		return errors.Respond(c, err)
	}

	return errors.Done(c)
}
