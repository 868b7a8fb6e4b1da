// Package client is a thin HTTP client for the secretlink API, used by the
// secretctl command-line tool.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avolkovs/secretlink/internal/common"
)

// Client talks to a secretlink server. Token is an optional bearer token;
// it is required for owner operations and ignored for public reads.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type CreateRequest struct {
	Content   string  `json:"content"`
	IsOneTime bool    `json:"isOneTime"`
	ExpiresAt *string `json:"expiresAt,omitempty"`
	Password  string  `json:"password,omitempty"`
}

type SecretView struct {
	Content   string    `json:"content"`
	IsOneTime bool      `json:"isOneTime"`
	IsViewed  bool      `json:"isViewed"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

type SecretSummary struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	IsOneTime   bool      `json:"isOneTime"`
	IsViewed    bool      `json:"isViewed"`
	HasPassword bool      `json:"hasPassword"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *Client) Create(ctx context.Context, req *CreateRequest) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/secrets", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Get fetches a secret by id. Password may be empty when the secret is not
// password-protected.
func (c *Client) Get(ctx context.Context, id, password string) (*SecretView, error) {
	path := "/api/secrets/" + url.PathEscape(id)
	if password != "" {
		path += "?password=" + url.QueryEscape(password)
	}

	var view SecretView
	if err := c.do(ctx, http.MethodGet, path, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// MarkViewed reports that the recipient has read the secret.
func (c *Client) MarkViewed(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/secrets/"+url.PathEscape(id)+"/viewed", nil, nil)
}

func (c *Client) List(ctx context.Context) ([]SecretSummary, error) {
	var list []SecretSummary
	if err := c.do(ctx, http.MethodGet, "/api/secrets", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/secrets/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// statusError maps an error response back to the sentinel the server mapped
// from, so callers can use errors.Is.
func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	var base error
	switch resp.StatusCode {
	case http.StatusNotFound:
		base = common.ErrorNotFound
	case http.StatusGone:
		base = common.ErrorExpired
	case http.StatusUnauthorized:
		base = common.ErrorUnauthorized
	case http.StatusForbidden:
		base = common.ErrorInvalidPassword
	case http.StatusBadRequest:
		base = common.ErrorValidation
	case http.StatusTooManyRequests:
		base = common.ErrorRateLimited
	default:
		base = common.ErrorInternal
	}

	if payload.Error != "" {
		return fmt.Errorf("%w: %s", base, payload.Error)
	}
	return fmt.Errorf("%w: status %d", base, resp.StatusCode)
}
