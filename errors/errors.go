// Package errors contians the closed set of error kinds and their HTTP mappers
package errors

import (
	errs "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lumenledger/auth/schemas"
	"gorm.io/gorm"
)

// Kind is an error with a stable machine readable code, the user facing
// message and the HTTP status it maps to at the transport boundary
type Kind struct {
	Code    string
	Message string
	Status  int
}

// Error returns the human readable message of the error kind
func (k *Kind) Error() string {
	return k.Message
}

//revive:disable

var (
	ErrInternalServerError = &Kind{"internal_server_error", "Internal server error", fiber.StatusInternalServerError}
	ErrBadRequest          = &Kind{"bad_request", "Bad request", fiber.StatusBadRequest}
	ErrUnauthorized        = &Kind{"unauthorized", "Unauthorized", fiber.StatusUnauthorized}

	ErrIncorrectCredentials       = &Kind{"incorrect_credentials", "Invalid email or password", fiber.StatusUnauthorized}
	ErrEmailAlreadyUsed           = &Kind{"email_already_used", "Email already in use", fiber.StatusBadRequest}
	ErrTwoFactorRequired          = &Kind{"two_factor_required", "2FA is enabled. Please use /login-2fa instead.", fiber.StatusForbidden}
	ErrTwoFactorNotEnabled        = &Kind{"two_factor_not_enabled", "2FA is not enabled for this account. Use /login instead.", fiber.StatusBadRequest}
	ErrTwoFactorTokenRequired     = &Kind{"two_factor_token_required", "2FA is enabled, token is required", fiber.StatusBadRequest}
	ErrTwoFactorTokenInvalid      = &Kind{"two_factor_token_invalid", "Invalid 2FA token", fiber.StatusUnauthorized}
	ErrTwoFactorAlreadyEnrolled   = &Kind{"two_factor_already_enrolled", "2FA is already enabled for this account", fiber.StatusBadRequest}
	ErrRefreshTokenNotProvided    = &Kind{"refresh_token_not_provided", "No refresh token provided", fiber.StatusUnauthorized}
	ErrRefreshTokenInvalid        = &Kind{"refresh_token_invalid", "Invalid or expired refresh token", fiber.StatusUnauthorized}
	ErrAccessTokenNotProvided     = &Kind{"access_token_not_provided", "No access token provided", fiber.StatusUnauthorized}
	ErrAccessTokenInvalid         = &Kind{"access_token_invalid", "Invalid or expired access token", fiber.StatusUnauthorized}
	ErrAuthenticationFailed       = &Kind{"authentication_failed", "Authentication failed", fiber.StatusUnauthorized}
	ErrUserNotFound               = &Kind{"user_not_found", "User not found.", fiber.StatusBadRequest}
	ErrInvalidWalletAddress       = &Kind{"invalid_wallet_address", "Invalid Stellar wallet address.", fiber.StatusBadRequest}
	ErrVerificationNotFound       = &Kind{"verification_not_found", "Invalid or expired verification.", fiber.StatusBadRequest}
	ErrWalletNotOnLedger          = &Kind{"wallet_not_on_ledger", "Wallet address does not exist on the Stellar network.", fiber.StatusBadRequest}
	ErrEmailConfirmationExpired   = &Kind{"email_confirmation_expired", "Email confirmation link is invalid or expired", fiber.StatusBadRequest}
	ErrTooManyRequests            = &Kind{"too_many_requests", "Too many requests, please try again later.", fiber.StatusTooManyRequests}

	Okay = "okay"
)

//revive:enable

type errRes struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Respond maps any service layer error to its HTTP status and JSON body, it
// is the single place where errors cross the transport boundary
func Respond(c *fiber.Ctx, err error) error {
	var kind *Kind
	if errs.As(err, &kind) {
		return c.Status(kind.Status).JSON(errRes{
			Code:    kind.Code,
			Message: kind.Message,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(errRes{
		Code:    ErrInternalServerError.Code,
		Message: ErrInternalServerError.Message,
	})
}

// RespondWithStatus is like Respond but forces the HTTP status, used where the
// route contract fixes a status regardless of the failure kind
func RespondWithStatus(c *fiber.Ctx, err error, status int) error {
	var kind *Kind
	if errs.As(err, &kind) {
		return c.Status(status).JSON(errRes{
			Code:    kind.Code,
			Message: kind.Message,
		})
	}

	return c.Status(status).JSON(errRes{
		Code:    ErrInternalServerError.Code,
		Message: ErrInternalServerError.Message,
	})
}

// Done reports a successful operation with the generic envelope
func Done(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(schemas.Res{
		Status: Okay,
	})
}

// CheckDBError is a struc that is used to identify the database errors
type CheckDBError struct{}

// DuplicateKey is a function that is used to find wether the the returned postgres error
// is due to a duplicate key entry (A unique key constraint)
func (CheckDBError) DuplicateKey(err error) bool {
	if errs.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errs.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return true
		}
	}

	return false
}
