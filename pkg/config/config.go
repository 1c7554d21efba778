package config

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSessionCookie is the cookie the authentication framework stores its
// session token in.
const DefaultSessionCookie = "authjs.session-token"

var (
	ErrMissingHTTPAddress = errors.New("HTTP_ADDRESS is not set")
	ErrInvalidSessionKey  = errors.New("invalid SESSION_KEY")
	ErrInvalidURL         = errors.New("invalid URL")
)

type Config struct {
	HTTPAddress        string
	SiteURL            string
	SignInURL          string
	SiteConfigPath     string
	SessionCookie      string
	SessionKey         string
	SessionIssuer      string
	LogLevel           string
	LogFormat          string
	RateLimitPerMinute int

	loadedFrom string
}

// NewFromEnv loads .env.<ENV> (skipped on Vercel, where the platform injects
// the environment) and builds a validated Config.
func NewFromEnv() (*Config, error) {
	loaded := ""
	if os.Getenv("VERCEL") == "" {
		env := os.Getenv("ENV")
		if env == "" {
			env = "local"
		}
		if err := godotenv.Load(".env." + env); err == nil {
			loaded = ".env." + env
		}
	}

	cfg, err := load(newViper())
	if err != nil {
		return nil, err
	}
	cfg.loadedFrom = loaded
	return cfg, nil
}

// LoadedFrom reports which env file, if any, was read by NewFromEnv.
func (c *Config) LoadedFrom() string {
	return c.loadedFrom
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_ADDRESS", ":8080")
	v.SetDefault("SITE_URL", "http://localhost:8080")
	v.SetDefault("SIGN_IN_URL", "/api/auth/signin")
	v.SetDefault("SESSION_COOKIE", DefaultSessionCookie)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	return v
}

func load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPAddress:        v.GetString("HTTP_ADDRESS"),
		SiteURL:            strings.TrimRight(v.GetString("SITE_URL"), "/"),
		SignInURL:          v.GetString("SIGN_IN_URL"),
		SiteConfigPath:     v.GetString("SITE_CONFIG"),
		SessionCookie:      v.GetString("SESSION_COOKIE"),
		SessionKey:         decodePEM(v.GetString("SESSION_KEY")),
		SessionIssuer:      v.GetString("SESSION_ISSUER"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that cannot be defaulted.
func (c *Config) Validate() error {
	if c.HTTPAddress == "" {
		return ErrMissingHTTPAddress
	}
	if err := validateAbsoluteURL(c.SiteURL); err != nil {
		return fmt.Errorf("SITE_URL: %w", err)
	}
	if c.SessionKey != "" {
		if err := validateSessionKey(c.SessionKey); err != nil {
			return err
		}
	}
	if c.SessionIssuer != "" {
		if err := validateAbsoluteURL(c.SessionIssuer); err != nil {
			return fmt.Errorf("SESSION_ISSUER: %w", err)
		}
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// decodePEM accepts a PEM block either verbatim or base64 encoded, which is
// how multi-line keys usually survive hosting dashboards.
func decodePEM(value string) string {
	if value == "" || strings.HasPrefix(strings.TrimSpace(value), "-----BEGIN") {
		return value
	}
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return value
	}
	return string(decoded)
}

// validateSessionKey accepts either an ECDSA public key or an EC private key
// (whose public half is then used for verification).
func validateSessionKey(key string) error {
	block, _ := pem.Decode([]byte(key))
	if block == nil {
		return fmt.Errorf("%w: no PEM block found", ErrInvalidSessionKey)
	}
	switch block.Type {
	case "EC PRIVATE KEY":
		if _, err := x509.ParseECPrivateKey(block.Bytes); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSessionKey, err)
		}
		return nil
	case "PUBLIC KEY":
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSessionKey, err)
		}
		if _, ok := pub.(*ecdsa.PublicKey); !ok {
			return fmt.Errorf("%w: public key is not ECDSA", ErrInvalidSessionKey)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported PEM type %q", ErrInvalidSessionKey, block.Type)
	}
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
	}
	return nil
}
