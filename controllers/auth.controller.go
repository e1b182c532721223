package controllers

import (
	"fmt"
	"net/url"

	"github.com/VinukaThejana/go-utils/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/models"
	"github.com/lumenledger/auth/schemas"
	"github.com/lumenledger/auth/services"
	"github.com/lumenledger/auth/utils"
	"github.com/lumenledger/auth/validate"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Auth struct contains all the auth related controllers
type Auth struct {
	Conn *connect.Connector
	Env  *config.Env
}

type loginRes struct {
	User        schemas.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
}

// Register is a function that is used to register users to the platfrom with email and password
func (a *Auth) Register(c *fiber.Ctx) error {
	var payload struct {
		Name     string `json:"name" validate:"required,min=3,max=150"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=200,validate_password"`
	}

	if err := c.BodyParser(&payload); err != nil {
		logger.Error(err)
		return errors.Respond(c, errors.ErrBadRequest)
	}

	v := validator.New()
	v.RegisterValidation("validate_password", validate.Password)
	if err := v.Struct(payload); err != nil {
		logger.Error(err)
		return errors.Respond(c, errors.ErrBadRequest)
	}

	authS := services.Auth{Conn: a.Conn, Env: a.Env}
	newUser, err := authS.Register(payload.Name, payload.Email, payload.Password)
	if err != nil {
		logger.Error(err)
		return errors.RespondWithStatus(c, err, fiber.StatusBadRequest)
	}

	return c.Status(fiber.StatusCreated).JSON(schemas.FilterUser(*newUser))
}

// loadUserForLogin runs the shared credential checks of both login paths, the
// unknown email and the wrong password cases are indistinguishable
func (a *Auth) loadUserForLogin(email, password string) (*models.User, error) {
	userS := services.User{Conn: a.Conn}

	user, err := userS.GetUserWithEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrIncorrectCredentials
		}

		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, errors.ErrIncorrectCredentials
	}

	return user, nil
}

func (a *Auth) issueLoginResponse(c *fiber.Ctx, user *models.User) error {
	authS := services.Auth{Conn: a.Conn, Env: a.Env}

	bundle, err := authS.IssueTokens(user, c.IP())
	if err != nil {
		logger.ErrorWithMsg(err, "Failed to issue the token pair")
		return errors.Respond(c, errors.ErrInternalServerError)
	}

	utils.SetRefreshTokenCookie(c, a.Env, bundle.RefreshToken)

	return c.Status(fiber.StatusOK).JSON(loginRes{
		User:        schemas.FilterUser(*user),
		AccessToken: bundle.AccessToken,
		ExpiresIn:   bundle.ExpiresIn,
	})
}

// Login is a funciton that is used to login the user with the email and password
func (a *Auth) Login(c *fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.BodyParser(&payload); err != nil {
		logger.Error(err)
		return errors.Respond(c, errors.ErrBadRequest)
	}

	v := validator.New()
	if err := v.Struct(payload); err != nil {
		return errors.Respond(c, errors.ErrBadRequest)
	}

	user, err := a.loadUserForLogin(payload.Email, payload.Password)
	if err != nil {
		return errors.Respond(c, err)
	}

	if user.TwoFactorAuth != nil && user.TwoFactorAuth.Enabled {
		return errors.Respond(c, errors.ErrTwoFactorRequired)
	}

	return a.issueLoginResponse(c, user)
}

// LoginWith2FA is the login path for users with an enabled second factor
func (a *Auth) LoginWith2FA(c *fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		Token    string `json:"token"`
	}

	if err := c.BodyParser(&payload); err != nil {
		logger.Error(err)
		return errors.Respond(c, errors.ErrBadRequest)
	}

	v := validator.New()
	if err := v.Struct(payload); err != nil {
		return errors.Respond(c, errors.ErrBadRequest)
	}

	user, err := a.loadUserForLogin(payload.Email, payload.Password)
	if err != nil {
		return errors.Respond(c, err)
	}

	if user.TwoFactorAuth == nil || !user.TwoFactorAuth.Enabled {
		return errors.Respond(c, errors.ErrTwoFactorNotEnabled)
	}
	if payload.Token == "" {
		return errors.Respond(c, errors.ErrTwoFactorTokenRequired)
	}

	twoFactorS := services.TwoFactor{Conn: a.Conn, Env: a.Env}
	if err := twoFactorS.Validate(user.ID, payload.Token); err != nil {
		return errors.RespondWithStatus(c, err, fiber.StatusUnauthorized)
	}

	return a.issueLoginResponse(c, user)
}

// Auth0Callback is the callback handler that Auth0 redirects to after a
// federated login
func (a *Auth) Auth0Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return errors.Respond(c, errors.ErrAuthenticationFailed)
	}

	auth0S := services.Auth0{Env: a.Env}

	accessToken, err := auth0S.GetAccessToken(code)
	if err != nil {
		logger.Error(err)
		return errors.Respond(c, err)
	}

	profile, err := auth0S.GetProfile(*accessToken)
	if err != nil {
		logger.Error(err)
		return errors.Respond(c, err)
	}

	authS := services.Auth{Conn: a.Conn, Env: a.Env}
	_, bundle, err := authS.LoginWithAuth0(*profile, c.IP())
	if err != nil {
		logger.Error(err)
		return errors.RespondWithStatus(c, err, fiber.StatusInternalServerError)
	}

	utils.SetRefreshTokenCookie(c, a.Env, bundle.RefreshToken)

	query := url.Values{
		"accessToken": []string{bundle.AccessToken},
		"expiresIn":   []string{fmt.Sprint(bundle.ExpiresIn)},
	}
	return c.Redirect(fmt.Sprintf("%s?%s", a.Env.FrontendURL, query.Encode()))
}

// RefreshToken rotates the refresh token presented in the cookie and returns
// a fresh access token
func (a *Auth) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies(utils.RefreshTokenCookie)
	if refreshToken == "" {
		return errors.Respond(c, errors.ErrRefreshTokenNotProvided)
	}

	authS := services.Auth{Conn: a.Conn, Env: a.Env}
	bundle, err := authS.Refresh(refreshToken, c.IP())
	if err != nil {
		utils.ClearRefreshTokenCookie(c, a.Env)
		return errors.RespondWithStatus(c, err, fiber.StatusUnauthorized)
	}

	utils.SetRefreshTokenCookie(c, a.Env, bundle.RefreshToken)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"accessToken": bundle.AccessToken,
		"expiresIn":   bundle.ExpiresIn,
	})
}

// Logout invalidates the session of the refresh token cookie, logging out
// without a session still succeeds
func (a *Auth) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(utils.RefreshTokenCookie)
	if refreshToken != "" {
		authS := services.Auth{Conn: a.Conn, Env: a.Env}
		if err := authS.Logout(refreshToken); err != nil {
			logger.Error(err)
			return errors.RespondWithStatus(c, err, fiber.StatusInternalServerError)
		}
	}

	utils.ClearRefreshTokenCookie(c, a.Env)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}
