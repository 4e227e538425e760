package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestParseArgs_Defaults(t *testing.T) {
	dir := t.TempDir()
	opts, err := ParseArgs([]string{"-c", filepath.Join(dir, "missing.json"), "-env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", opts.Address)
	assert.Equal(t, 7*24*time.Hour, opts.TokenTTL.Duration)
	assert.Equal(t, "info", opts.LogLevel)
	assert.True(t, opts.Seed)
	assert.Equal(t, DefaultAdminEmail, opts.SeedAdminEmail)
	assert.Empty(t, opts.DatabaseDSN)
	assert.False(t, opts.TrustProxy)
}

func TestParseArgs_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.json", `{
		"address": "file:1",
		"database_dsn": "postgres://file",
		"token_ttl": "2h",
		"log_level": "debug",
		"auth_rate_limit": 5
	}`)

	t.Setenv("LOG_LEVEL", "warn")

	opts, err := ParseArgs([]string{"-c", cfg, "-env-file", "", "-a", "flag:2"})
	require.NoError(t, err)

	assert.Equal(t, "flag:2", opts.Address, "flag beats file")
	assert.Equal(t, "postgres://file", opts.DatabaseDSN, "file beats default")
	assert.Equal(t, 2*time.Hour, opts.TokenTTL.Duration)
	assert.Equal(t, 5, opts.AuthRateLimit)
	assert.Equal(t, "warn", opts.LogLevel, "env beats file")
}

func TestParseArgs_EnvBeatsFlag(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "env:3")
	t.Setenv("SEED", "false")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("TRUST_PROXY", "true")

	opts, err := ParseArgs([]string{"-c", "", "-env-file", "", "-a", "flag:2", "-seed=true"})
	require.NoError(t, err)

	assert.True(t, opts.TrustProxy)
	assert.Equal(t, "env:3", opts.Address)
	assert.False(t, opts.Seed)
	assert.Equal(t, 30*time.Minute, opts.TokenTTL.Duration)
}

func TestParseArgs_DotEnvFile(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "JWT_SECRET="+testSecret+"\n")

	opts, err := ParseArgs([]string{"-c", "", "-env-file", envFile})
	require.NoError(t, err)
	assert.Equal(t, testSecret, opts.JWTSecret)
}

func TestParseArgs_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("bad json", func(t *testing.T) {
		cfg := writeFile(t, dir, "bad.json", `{"address":`)
		_, err := ParseArgs([]string{"-c", cfg, "-env-file", ""})
		assert.ErrorContains(t, err, "parse config file")
	})

	t.Run("bad duration in file", func(t *testing.T) {
		cfg := writeFile(t, dir, "ttl.json", `{"token_ttl": "soon"}`)
		_, err := ParseArgs([]string{"-c", cfg, "-env-file", ""})
		assert.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := ParseArgs([]string{"-nope"})
		assert.ErrorContains(t, err, "parse flags")
	})

	t.Run("bad env int", func(t *testing.T) {
		t.Setenv("AUTH_RATE_LIMIT", "many")
		_, err := ParseArgs([]string{"-c", "", "-env-file", ""})
		assert.ErrorContains(t, err, "AUTH_RATE_LIMIT")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Options {
		o := defaults()
		o.JWTSecret = testSecret
		return o
	}

	tests := []struct {
		name    string
		mutate  func(o *Options)
		wantErr bool
	}{
		{name: "valid", mutate: func(o *Options) {}},
		{name: "missing secret", mutate: func(o *Options) { o.JWTSecret = "" }, wantErr: true},
		{name: "short secret", mutate: func(o *Options) { o.JWTSecret = "short" }, wantErr: true},
		{name: "zero ttl", mutate: func(o *Options) { o.TokenTTL.Duration = 0 }, wantErr: true},
		{name: "cert without key", mutate: func(o *Options) { o.TLSCert = "server.crt" }, wantErr: true},
		{name: "cert and key", mutate: func(o *Options) { o.TLSCert, o.TLSKey = "server.crt", "server.key" }},
		{name: "negative rate", mutate: func(o *Options) { o.AuthRateLimit = -1 }, wantErr: true},
		{name: "seed without password", mutate: func(o *Options) { o.SeedAdminPassword = "" }, wantErr: true},
		{name: "no seed, no admin", mutate: func(o *Options) { o.Seed, o.SeedAdminPassword = false, "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid()
			tt.mutate(o)
			err := o.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrigins(t *testing.T) {
	o := &Options{CORSOrigins: " http://a.test , ,https://b.test"}
	assert.Equal(t, []string{"http://a.test", "https://b.test"}, o.Origins())
	assert.Nil(t, (&Options{}).Origins())
}
