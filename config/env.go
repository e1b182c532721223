package config

import (
	"time"

	"github.com/VinukaThejana/go-utils/logger"
	"github.com/spf13/viper"
)

// Env is structure containing env variables
type Env struct {
	ResendAPIKey             string        `mapstructure:"RESEND_API_KEY" validate:"required"`
	DSN                      string        `mapstructure:"DATABASE_URL" validate:"required"`
	RefreshTokenPrivateKey   string        `mapstructure:"REFRESH_TOKEN_PRIVATE_KEY" validate:"required"`
	RefreshTokenPublicKey    string        `mapstructure:"REFRESH_TOKEN_PUBLIC_KEY" validate:"required"`
	AccessTokenPrivateKey    string        `mapstructure:"ACCESS_TOKEN_PRIVATE_KEY" validate:"required"`
	AccessTokenPublicKey     string        `mapstructure:"ACCESS_TOKEN_PUBLIC_KEY" validate:"required"`
	RedisRatelimiterUsername string        `mapstructure:"REDIS_RATELIMITER_USERNAME"`
	RedisRatelimiterPassword string        `mapstructure:"REDIS_RATELIMITER_PASSWORD"`
	RedisRatelimiterHost     string        `mapstructure:"REDIS_RATELIMITER_HOST" validate:"required"`
	RedisSessionURL          string        `mapstructure:"REDIS_SESSION_URL" validate:"required,uri"`
	RedisEmailURL            string        `mapstructure:"REDIS_EMAIL_URL" validate:"required,uri"`
	RedisSystemURL           string        `mapstructure:"REDIS_SYSTEM_URL" validate:"required,uri"`
	Auth0Domain              string        `mapstructure:"AUTH0_DOMAIN" validate:"required,hostname"`
	Auth0ClientID            string        `mapstructure:"AUTH0_CLIENT_ID" validate:"required"`
	Auth0ClientSecret        string        `mapstructure:"AUTH0_CLIENT_SECRET" validate:"required"`
	Auth0CallbackURL         string        `mapstructure:"AUTH0_CALLBACK_URL" validate:"required,url"`
	HorizonURL               string        `mapstructure:"HORIZON_URL" validate:"required,url"`
	TwoFactorSecretKey       string        `mapstructure:"TWO_FACTOR_SECRET_KEY" validate:"required"`
	DevEnv                   string        `mapstructure:"DEV_ENV" validate:"required,oneof=DEV PROD TEST"`
	Port                     string        `mapstructure:"PORT" validate:"required,numeric"`
	FrontendHostname         string        `mapstructure:"FRONTEND_HOSTNAME" validate:"required,hostname"`
	FrontendURL              string        `mapstructure:"FRONTEND_URL" validate:"required,url"`
	ServerURL                string        `mapstructure:"SERVER_URL" validate:"required,url"`
	RefreshTokenMaxAge       int           `mapstructure:"REFRESH_TOKEN_MAXAGE" validate:"required,number"`
	AccessTokenMaxAge        int           `mapstructure:"ACCESS_TOKEN_MAXAGE" validate:"required,number"`
	RefreshTokenExpires      time.Duration `mapstructure:"REFRESH_TOKEN_EXPIRED_IN" validate:"required"`
	AccessTokenExpires       time.Duration `mapstructure:"ACCESS_TOKEN_EXPIRED_IN" validate:"required"`
	WalletVerificationTTL    time.Duration `mapstructure:"WALLET_VERIFICATION_EXPIRED_IN" validate:"required"`
	RedisRatelimiterPort     int           `mapstructure:"REDIS_RATELIMITER_PORT" validate:"required,number"`
}

// Load is a function that is used to laod the env variables from the file and the enviroment
func (e *Env) Load(path ...string) {
	configPath := "."
	if len(path) > 0 {
		configPath = path[0]
	}

	viper.AddConfigPath(configPath)
	viper.SetConfigFile(configPath + "/.env")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		logger.Error(err)
	}

	err = viper.Unmarshal(&e)
	if err != nil {
		logger.Errorf(err)
	}

	logger.Validatef(e)
}
