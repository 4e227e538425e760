// Package api is a small HTTP client for the Zenly API used by the
// terminal client.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/atinyakov/zenly/internal/models"
)

const defaultTimeout = 10 * time.Second

// Error is a non-2xx response from the API.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// AuthResult is the response of register and login.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// NewMood is the body of a mood check-in.
type NewMood struct {
	Mood      string `json:"mood"`
	Intensity int    `json:"intensity"`
	Note      string `json:"note,omitempty"`
}

// NewHTTPClient returns an http.Client that trusts only the CA in caFile,
// such as the one written by certgen. An empty caFile uses the system roots.
func NewHTTPClient(caFile string) (*http.Client, error) {
	if caFile == "" {
		return &http.Client{Timeout: defaultTimeout}, nil
	}
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("failed to parse CA cert")
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs:    caPool,
			MinVersion: tls.VersionTLS12,
		},
	}
	return &http.Client{Transport: transport, Timeout: defaultTimeout}, nil
}

// Client calls the API on behalf of one account.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a Client for the API at baseURL. A nil hc uses a client
// with the default timeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// SetToken sets the bearer credential sent with every request.
func (c *Client) SetToken(token string) { c.token = token }

// Register creates an account and returns its first credential.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Login exchanges an email and password for a credential.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me returns the account the credential belongs to.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateMood records a mood entry.
func (c *Client) CreateMood(ctx context.Context, m NewMood) (*models.MoodEntry, error) {
	var e models.MoodEntry
	if err := c.do(ctx, http.MethodPost, "/api/moods", m, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListMoods returns the caller's mood entries, newest first.
func (c *Client) ListMoods(ctx context.Context) ([]models.MoodEntry, error) {
	var list []models.MoodEntry
	if err := c.do(ctx, http.MethodGet, "/api/moods", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteMood deletes one of the caller's mood entries.
func (c *Client) DeleteMood(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/moods/"+url.PathEscape(id), nil, nil)
}

// MoodStats returns the caller's mood summary.
func (c *Client) MoodStats(ctx context.Context) (*models.MoodStats, error) {
	var s models.MoodStats
	if err := c.do(ctx, http.MethodGet, "/api/moods/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListMeditations returns the catalog, optionally filtered by category.
func (c *Client) ListMeditations(ctx context.Context, category string) ([]models.Meditation, error) {
	path := "/api/meditations"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var list []models.Meditation
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
