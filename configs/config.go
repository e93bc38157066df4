package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Addr          string `env:"APP_ADDR,default=:8080"`
	SessionSecret string `env:"SESSION_SECRET,default=change-me"`
	LogLevel      string `env:"LOG_LEVEL,default=info"`
	LogFormat     string `env:"LOG_FORMAT,default=text"`
	Seed          bool   `env:"SEED_CATALOG,default=true"`
	// LoginRate is the number of login attempts allowed per client per minute.
	LoginRate int `env:"LOGIN_RATE_PER_MINUTE,default=10"`
}

type StorageConfig struct {
	Driver         string `env:"STORAGE_DRIVER,default=memory"` // memory | postgres | sqlite | redis
	PostgresHost   string `env:"POSTGRES_HOST,default=localhost"`
	PostgresUser   string `env:"POSTGRES_USER,default=test"`
	PostgresPass   string `env:"POSTGRES_PASSWORD,default=test"`
	PostgresDB     string `env:"POSTGRES_DB,default=test"`
	PostgresPort   string `env:"DB_PORT,default=5432"`
	TimeZone       string `env:"DB_TIMEZONE,default=UTC"`
	SQLitePath     string `env:"SQLITE_PATH,default=foodorders.db"`
	RedisURL       string `env:"REDIS_URL,default=redis://localhost:6379/0"`
	RedisNamespace string `env:"REDIS_NAMESPACE,default=foodorders"`
}

// PostgresDSN renders the keyword/value DSN the postgres driver expects.
func (c StorageConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPass, c.PostgresDB, c.PostgresPort, c.TimeZone,
	)
}

type OIDCConfig struct {
	Issuer       string `env:"OIDC_ISSUER"`
	ClientID     string `env:"OIDC_CLIENT_ID"`
	ClientSecret string `env:"OIDC_CLIENT_SECRET"`
	RedirectURL  string `env:"OIDC_REDIRECT_URL"`
}

func (c OIDCConfig) Enabled() bool {
	return c.Issuer != "" && c.ClientID != ""
}

type AfricaTalkingConfig struct {
	Username string `env:"AT_USERNAME"`
	APIKey   string `env:"AT_API_KEY"`
	SMSURL   string `env:"AT_SMS_URL,default=https://api.sandbox.africastalking.com/version1/messaging"`
	SenderID string `env:"AT_SENDER_ID,default=AFRICASTKNG"`
}

func (c AfricaTalkingConfig) Enabled() bool {
	return c.Username != "" && c.APIKey != ""
}

type EmailConfig struct {
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion          string `env:"AWS_REGION,default=us-east-1"`
	SenderEmail        string `env:"AWS_SENDER_ADDRESS"`
}

func (c EmailConfig) Enabled() bool {
	return c.SenderEmail != ""
}

type Config struct {
	App           AppConfig
	Storage       StorageConfig
	OIDC          OIDCConfig
	Email         EmailConfig
	AfricaTalking AfricaTalkingConfig
}

// LoadDotEnv reads path (default ".env") into the environment. A missing file is fine.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

func Load() (Config, error) {
	var cfg Config
	for name, target := range map[string]any{
		"app":     &cfg.App,
		"storage": &cfg.Storage,
		"oidc":    &cfg.OIDC,
		"email":   &cfg.Email,
		"sms":     &cfg.AfricaTalking,
	} {
		if err := decode(target); err != nil {
			return Config{}, fmt.Errorf("load %s config: %w", name, err)
		}
	}
	return cfg, nil
}

// decode tolerates sections whose variables are all unset.
func decode(target any) error {
	err := envdecode.Decode(target)
	if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil
	}
	return err
}
