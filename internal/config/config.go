// Package config provides functionality for managing configuration options
// for the application using a .env file, a JSON config file, command-line
// flags and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinSecretLen is the shortest accepted credential signing secret, in bytes.
const MinSecretLen = 16

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Duration is a time.Duration that reads from JSON as a Go duration string ("168h").
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"address"`

	// DatabaseDSN is a postgres:// URL. Empty selects the in-memory store.
	DatabaseDSN string `json:"database_dsn"`

	// JWTSecret signs and verifies bearer credentials. Required.
	JWTSecret string `json:"jwt_secret"`

	// TokenTTL is the lifetime of issued credentials.
	TokenTTL Duration `json:"token_ttl"`

	// CORSOrigins is a comma separated list of allowed browser origins.
	CORSOrigins string `json:"cors_origins"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	LogLevel string `json:"log_level"`

	// Seed controls startup seeding of the admin account and meditation catalog.
	Seed              bool   `json:"seed"`
	SeedAdminEmail    string `json:"seed_admin_email"`
	SeedAdminPassword string `json:"seed_admin_password"`

	// TrustProxy makes the server take the client address from
	// X-Forwarded-For / X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxy bool `json:"trust_proxy"`

	// AuthRateLimit is the number of register/login requests allowed per
	// client IP per minute. Zero disables the limit.
	AuthRateLimit int `json:"auth_rate_limit"`

	// Config is the path to the JSON config file.
	Config string `json:"-"`

	// EnvFile is the path to an optional .env file.
	EnvFile string `json:"-"`
}

// Default admin credentials used by seeding when none are configured.
const (
	DefaultAdminEmail    = "admin@zenly.com"
	DefaultAdminPassword = "admin1234"
)

func defaults() *Options {
	return &Options{
		Address:           "localhost:8080",
		TokenTTL:          Duration{7 * 24 * time.Hour},
		CORSOrigins:       "http://localhost:3000",
		LogLevel:          "info",
		Seed:              true,
		SeedAdminEmail:    DefaultAdminEmail,
		SeedAdminPassword: DefaultAdminPassword,
		AuthRateLimit:     20,
		Config:            "config.json",
		EnvFile:           ".env",
	}
}

func bindFlags(set *flag.FlagSet, o *Options) {
	set.StringVar(&o.Address, "a", o.Address, "run on ip:port server")
	set.StringVar(&o.DatabaseDSN, "d", o.DatabaseDSN, "postgres URL; empty uses the in-memory store")
	set.StringVar(&o.JWTSecret, "s", o.JWTSecret, "credential signing secret")
	set.DurationVar(&o.TokenTTL.Duration, "token-ttl", o.TokenTTL.Duration, "credential lifetime")
	set.StringVar(&o.CORSOrigins, "cors", o.CORSOrigins, "comma separated allowed origins")
	set.StringVar(&o.TLSCert, "tls-cert", o.TLSCert, "TLS certificate file")
	set.StringVar(&o.TLSKey, "tls-key", o.TLSKey, "TLS key file")
	set.StringVar(&o.LogLevel, "l", o.LogLevel, "log level")
	set.BoolVar(&o.Seed, "seed", o.Seed, "seed admin account and meditation catalog")
	set.BoolVar(&o.TrustProxy, "trust-proxy", o.TrustProxy, "take client IPs from proxy headers")
	set.IntVar(&o.AuthRateLimit, "auth-rate", o.AuthRateLimit, "register/login requests per IP per minute")
	set.StringVar(&o.Config, "config", o.Config, "path to config file")
	set.StringVar(&o.Config, "c", o.Config, "path to config file (shorthand)")
	set.StringVar(&o.EnvFile, "env-file", o.EnvFile, "path to .env file")
}

// Parse builds Options from the process arguments and environment.
func Parse() (*Options, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs builds Options from args. Sources are applied in order, later
// ones winning: defaults, .env file, JSON config file, flags, environment.
func ParseArgs(args []string) (*Options, error) {
	options := defaults()

	// First pass only locates the config and .env files.
	located := defaults()
	firstPass := flag.NewFlagSet("zenly", flag.ContinueOnError)
	firstPass.SetOutput(nopWriter{})
	bindFlags(firstPass, located)
	if err := firstPass.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if located.EnvFile != "" {
		if err := godotenv.Load(located.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	configPath := located.Config
	if p := os.Getenv("CONFIG"); p != "" {
		configPath = p
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	options.Config = configPath

	// Second pass re-applies only the flags given explicitly, on top of the file.
	set := flag.NewFlagSet("zenly", flag.ContinueOnError)
	set.SetOutput(nopWriter{})
	bindFlags(set, options)
	explicit := map[string]string{}
	firstPass.Visit(func(f *flag.Flag) { explicit[f.Name] = f.Value.String() })
	for name, value := range explicit {
		if err := set.Set(name, value); err != nil {
			return nil, fmt.Errorf("flag -%s: %w", name, err)
		}
	}

	if err := applyEnv(options); err != nil {
		return nil, err
	}
	return options, nil
}

func applyEnv(o *Options) error {
	strs := map[string]*string{
		"SERVER_ADDRESS": &o.Address,
		"DATABASE_DSN":   &o.DatabaseDSN,
		"JWT_SECRET":     &o.JWTSecret,
		"CORS_ORIGINS":   &o.CORSOrigins,
		"TLS_CERT":       &o.TLSCert,
		"TLS_KEY":        &o.TLSKey,
		"LOG_LEVEL":      &o.LogLevel,
		"ADMIN_EMAIL":    &o.SeedAdminEmail,
		"ADMIN_PASSWORD": &o.SeedAdminPassword,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		o.TokenTTL.Duration = d
	}
	if v := os.Getenv("SEED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEED: %w", err)
		}
		o.Seed = b
	}
	if v := os.Getenv("TRUST_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRUST_PROXY: %w", err)
		}
		o.TrustProxy = b
	}
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AUTH_RATE_LIMIT: %w", err)
		}
		o.AuthRateLimit = n
	}
	return nil
}

// Validate reports every problem with o that would prevent the server from starting.
func (o *Options) Validate() error {
	var errs []error
	if o.Address == "" {
		errs = append(errs, errors.New("address is empty"))
	}
	if o.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is not set (JWT_SECRET or -s)"))
	} else if len(o.JWTSecret) < MinSecretLen {
		errs = append(errs, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLen))
	}
	if o.TokenTTL.Duration <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	if (o.TLSCert == "") != (o.TLSKey == "") {
		errs = append(errs, errors.New("tls cert and key must be set together"))
	}
	if o.AuthRateLimit < 0 {
		errs = append(errs, errors.New("auth rate limit must not be negative"))
	}
	if o.Seed && (o.SeedAdminEmail == "" || o.SeedAdminPassword == "") {
		errs = append(errs, errors.New("seeding needs admin email and password"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Origins splits CORSOrigins into trimmed, non-empty entries.
func (o *Options) Origins() []string {
	var out []string
	for _, s := range strings.Split(o.CORSOrigins, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TLSEnabled reports whether the server should serve HTTPS.
func (o *Options) TLSEnabled() bool {
	return o.TLSCert != "" && o.TLSKey != ""
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
