package controllers

import (
	"context"
	"strings"

	"github.com/VinukaThejana/go-utils/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/services"
)

// Email is a struct that contains email related controllers
type Email struct {
	Conn *connect.Connector
	Env  *config.Env
}

// ConfirmEmail is function that is used to verify the email
func (e *Email) ConfirmEmail(c *fiber.Ctx) error {
	token := c.Query("token", "")
	if token == "" {
		return errors.Respond(c, errors.ErrBadRequest)
	}

	if _, err := uuid.Parse(token); err != nil {
		return errors.Respond(c, errors.ErrBadRequest)
	}

	ctx := context.TODO()

	val := e.Conn.R.Email.GetDel(ctx, token).Val()
	if val == "" {
		return errors.Respond(c, errors.ErrEmailConfirmationExpired)
	}

	userIDStr, email, found := strings.Cut(val, "+")
	if !found {
		return errors.Respond(c, errors.ErrEmailConfirmationExpired)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		logger.Error(err)
		return errors.Respond(c, errors.ErrBadRequest)
	}

	userS := services.User{Conn: e.Conn}
	if err := userS.ConfirmEmail(userID, email); err != nil {
		logger.Error(err)
		return errors.Respond(c, err)
	}

	return errors.Done(c)
}
