// Package client talks to the job tracker HTTP API on behalf of the terminal
// client and keeps the signed-in session on disk.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"job-tracker-backend/internal/domain"
)

// APIClient implements tracker.Store over the /v1 API. Every failure is
// returned as *domain.RemoteError.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	body := map[string]string{"email": email, "password": password}
	var out domain.AuthSession
	if err := c.do(ctx, "sign-in", http.MethodPost, "/auth/login", domain.Session{}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) SignOut(ctx context.Context, session domain.Session) error {
	return c.do(ctx, "sign-out", http.MethodPost, "/auth/signout", session, nil, nil)
}

func (c *APIClient) Me(ctx context.Context, session domain.Session) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, "whoami", http.MethodGet, "/auth/me", session, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchAll returns every record of the session user, newest first.
func (c *APIClient) FetchAll(ctx context.Context, session domain.Session) ([]domain.JobApplication, error) {
	var out struct {
		Applications []domain.JobApplication `json:"applications"`
	}
	if err := c.do(ctx, "fetch-all", http.MethodGet, "/applications", session, nil, &out); err != nil {
		return nil, err
	}
	if out.Applications == nil {
		out.Applications = []domain.JobApplication{}
	}
	return out.Applications, nil
}

func (c *APIClient) Insert(ctx context.Context, session domain.Session, draft domain.Draft) (*domain.JobApplication, error) {
	var out domain.JobApplication
	if err := c.do(ctx, "insert", http.MethodPost, "/applications", session, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Update(ctx context.Context, session domain.Session, id string, patch domain.ApplicationPatch) (*domain.JobApplication, error) {
	var out domain.JobApplication
	if err := c.do(ctx, "update", http.MethodPatch, "/applications/"+url.PathEscape(id), session, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Delete(ctx context.Context, session domain.Session, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, "/applications/"+url.PathEscape(id), session, nil, nil)
}

func (c *APIClient) do(ctx context.Context, op, method, path string, session domain.Session, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &domain.RemoteError{Op: op, Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &domain.RemoteError{Op: op, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode >= 400 || !env.Success {
		return &domain.RemoteError{Op: op, Status: resp.StatusCode, Message: errorMessage(env)}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}

// errorMessage appends field-level validation details to the envelope message.
func errorMessage(env envelope) string {
	msg := env.Message
	var details []string
	if len(env.Error) > 0 && json.Unmarshal(env.Error, &details) == nil && len(details) > 0 {
		msg += ": " + strings.Join(details, "; ")
	}
	if msg == "" {
		msg = "request failed"
	}
	return msg
}
