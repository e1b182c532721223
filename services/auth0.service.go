package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/schemas"
)

// Auth0 struct contains the services talking to the Auth0 tenant
type Auth0 struct {
	Env *config.Env
}

// GetAccessToken exchanges the authorization code received on the callback
// for an Auth0 access token
func (o *Auth0) GetAccessToken(code string) (*string, error) {
	client := http.Client{
		Timeout: 30 * time.Second,
	}

	form := url.Values{
		"grant_type":    []string{"authorization_code"},
		"client_id":     []string{o.Env.Auth0ClientID},
		"client_secret": []string{o.Env.Auth0ClientSecret},
		"code":          []string{code},
		"redirect_uri":  []string{o.Env.Auth0CallbackURL},
	}.Encode()

	req, err := http.NewRequest(
		http.MethodPost,
		fmt.Sprintf("https://%s/oauth/token", o.Env.Auth0Domain),
		strings.NewReader(form),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.ErrAuthenticationFailed
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if payload.AccessToken == "" {
		return nil, errors.ErrAuthenticationFailed
	}

	return &payload.AccessToken, nil
}

// GetProfile fetches the identity assertion of the logged in user from the
// Auth0 userinfo endpoint
func (o *Auth0) GetProfile(accessToken string) (*schemas.Auth0Profile, error) {
	req, err := http.NewRequest(
		http.MethodGet,
		fmt.Sprintf("https://%s/userinfo", o.Env.Auth0Domain),
		nil,
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))

	client := http.Client{
		Timeout: 30 * time.Second,
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.ErrAuthenticationFailed
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var profile schemas.Auth0Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, err
	}
	if profile.Sub == "" {
		return nil, errors.ErrAuthenticationFailed
	}

	return &profile, nil
}
