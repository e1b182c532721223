// Package token is used to create, validate and rotate access and refresh tokens
package token

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/VinukaThejana/go-utils/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/models"
	"github.com/lumenledger/auth/schemas"
	"gorm.io/gorm"
)

// Details is a struct that contains the data that need to be used when creating tokens
type Details struct {
	Token     *string
	ExpiresIn *int64
	TokenUUID string
	UserID    string
}

func sign(privateKeyB64, userID, tokenUUID string, expiresAt, now int64) (string, error) {
	decodedPrivateKey, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return "", err
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(decodedPrivateKey)
	if err != nil {
		return "", err
	}

	claims := make(jwt.MapClaims)
	claims["sub"] = userID
	claims["token_uuid"] = tokenUUID
	claims["exp"] = expiresAt
	claims["iat"] = now
	claims["nbf"] = now

	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

func parse(publicKeyB64, tokenStr string) (*Details, error) {
	decodedPublicKey, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(decodedPublicKey)
	if err != nil {
		return nil, err
	}

	parsedToken, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected method : %s", t.Header["alg"])
		}

		return key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, fmt.Errorf("parse : invalid token")
	}

	return &Details{
		TokenUUID: fmt.Sprint(claims["token_uuid"]),
		UserID:    fmt.Sprint(claims["sub"]),
	}, nil
}

// ParseRefresh checks the signature and the claims of a refresh token without
// consulting any session state
func ParseRefresh(env *config.Env, tokenStr string) (*Details, error) {
	return parse(env.RefreshTokenPublicKey, tokenStr)
}

// ParseAccess checks the signature and the claims of an access token without
// consulting any session state
func ParseAccess(env *config.Env, tokenStr string) (*Details, error) {
	return parse(env.AccessTokenPublicKey, tokenStr)
}

// RefreshToken is a struct that is used to perform operations on refresh tokens
type RefreshToken struct {
	Conn   *connect.Connector
	Env    *config.Env
	UserID uuid.UUID
}

// Create a refresh token, the session row in the relational database is the
// authoritative record and the redis key is the fast lookup mirror
func (r *RefreshToken) Create(ipAddress string) (tokenDetails *Details, err error) {
	now := time.Now().UTC()

	tokenUUID, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}

	tokenDetails = &Details{
		ExpiresIn: new(int64),
		Token:     new(string),
	}

	*tokenDetails.ExpiresIn = now.Add(r.Env.RefreshTokenExpires).Unix()
	tokenDetails.TokenUUID = tokenUUID.String()
	tokenDetails.UserID = r.UserID.String()

	*tokenDetails.Token, err = sign(
		r.Env.RefreshTokenPrivateKey,
		r.UserID.String(),
		tokenDetails.TokenUUID,
		*tokenDetails.ExpiresIn,
		now.Unix(),
	)
	if err != nil {
		return nil, err
	}

	err = r.Conn.DB.Create(&models.Session{
		ID:        tokenUUID,
		UserID:    r.UserID,
		IPAddress: ipAddress,
		LoginAt:   now,
		ExpiresAt: *tokenDetails.ExpiresIn,
	}).Error
	if err != nil {
		return nil, err
	}

	tokenVal, err := json.Marshal(schemas.RefreshTokenDetails{
		UserID:          r.UserID.String(),
		AccessTokenUUID: "",
	})
	if err != nil {
		return nil, err
	}

	err = r.Conn.R.Session.Set(
		context.TODO(),
		tokenDetails.TokenUUID,
		string(tokenVal),
		time.Unix(*tokenDetails.ExpiresIn, 0).Sub(now),
	).Err()
	return tokenDetails, err
}

// Validate checks that the refresh token belongs to the user and that its
// session state is still alive
func (r *RefreshToken) Validate(tokenStr string) (*Details, error) {
	tokenDetails, err := ParseRefresh(r.Env, tokenStr)
	if err != nil {
		return nil, errors.ErrRefreshTokenInvalid
	}

	if tokenDetails.UserID != r.UserID.String() {
		return nil, errors.ErrRefreshTokenInvalid
	}

	tokenUUID, err := uuid.Parse(tokenDetails.TokenUUID)
	if err != nil {
		return nil, errors.ErrRefreshTokenInvalid
	}

	var session models.Session
	err = r.Conn.DB.Where(&models.Session{ID: tokenUUID}).First(&session).Error
	if err != nil {
		return nil, errors.ErrRefreshTokenInvalid
	}

	if session.UserID != r.UserID || session.ExpiresAt <= time.Now().UTC().Unix() {
		return nil, errors.ErrRefreshTokenInvalid
	}

	return tokenDetails, nil
}

// Consume invalidates the refresh token state exactly once, a second call for
// the same token UUID reports the token as already rotated
func (r *RefreshToken) Consume(tokenUUIDStr string) error {
	tokenUUID, err := uuid.Parse(tokenUUIDStr)
	if err != nil {
		return errors.ErrRefreshTokenInvalid
	}

	res := r.Conn.DB.Where(&models.Session{ID: tokenUUID, UserID: r.UserID}).Delete(&models.Session{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrRefreshTokenInvalid
	}

	ctx := context.TODO()
	detailsStr := r.Conn.R.Session.GetDel(ctx, tokenUUIDStr).Val()
	if detailsStr == "" {
		return nil
	}

	var details schemas.RefreshTokenDetails
	if err := json.Unmarshal([]byte(detailsStr), &details); err != nil {
		return nil
	}
	if details.AccessTokenUUID != "" {
		r.Conn.R.Session.Del(ctx, details.AccessTokenUUID)
	}

	return nil
}

// AccessToken is a struct that is used to perform operations on access tokens
type AccessToken struct {
	Conn   *connect.Connector
	Env    *config.Env
	UserID uuid.UUID
}

// Create is a function that is used to create the access token
func (a *AccessToken) Create(refreshTokenUUID string) (tokenDetails *Details, err error) {
	now := time.Now().UTC()

	tokenUUID, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}

	tokenDetails = &Details{
		ExpiresIn: new(int64),
		Token:     new(string),
	}

	*tokenDetails.ExpiresIn = now.Add(a.Env.AccessTokenExpires).Unix()
	tokenDetails.TokenUUID = tokenUUID.String()
	tokenDetails.UserID = a.UserID.String()

	*tokenDetails.Token, err = sign(
		a.Env.AccessTokenPrivateKey,
		a.UserID.String(),
		tokenDetails.TokenUUID,
		*tokenDetails.ExpiresIn,
		now.Unix(),
	)
	if err != nil {
		return nil, err
	}

	tokenVal, err := json.Marshal(schemas.RefreshTokenDetails{
		UserID:          a.UserID.String(),
		AccessTokenUUID: tokenDetails.TokenUUID,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.TODO()

	ttl := a.Conn.R.Session.TTL(ctx, refreshTokenUUID).Val()
	if ttl.Seconds() < 0 {
		ttl = 0
	}
	err = a.Conn.R.Session.Set(ctx, refreshTokenUUID, string(tokenVal), ttl).Err()
	if err != nil {
		return nil, err
	}

	err = a.Conn.R.Session.Set(ctx, tokenDetails.TokenUUID, a.UserID.String(), time.Unix(*tokenDetails.ExpiresIn, 0).Sub(now)).Err()
	return tokenDetails, err
}

// Validate checks the access token signature and that its session state is alive
func (a *AccessToken) Validate(tokenStr string) (*Details, error) {
	tokenDetails, err := ParseAccess(a.Env, tokenStr)
	if err != nil {
		return nil, errors.ErrAccessTokenInvalid
	}

	val := a.Conn.R.Session.Get(context.TODO(), tokenDetails.TokenUUID).Val()
	if val == "" {
		return nil, errors.ErrAccessTokenInvalid
	}

	return tokenDetails, nil
}

// DeleteExpired is a function that is used to delete expired session rows of a user
func DeleteExpired(conn *connect.Connector, userID uuid.UUID) {
	now := time.Now().UTC().Unix()

	err := conn.DB.Where("user_id = ? AND expires_at <= ?", userID, now).Delete(&models.Session{}).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		logger.ErrorWithMsg(
			err,
			"Failed to delete expired sessions",
		)
	}
}
