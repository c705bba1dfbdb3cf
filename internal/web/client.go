package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"staffcore/internal/employees"
)

// API call outcomes the page handlers care about. Anything else
// collapses into a generic error; no API detail reaches the browser.
var (
	ErrUnauthorized = errors.New("api: unauthorized")
	ErrForbidden    = errors.New("api: forbidden")
	ErrNotFound     = errors.New("api: not found")
)

// APIClient is the single outbound client to the staffcore API. One
// instance per process; the bearer token is passed per call, never
// stored on the client.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges credentials for a bearer token.
func (c *APIClient) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := statusError(resp.StatusCode); err != nil {
		return "", err
	}
	var lr struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", err
	}
	if lr.Token == "" {
		return "", fmt.Errorf("api: empty token in login response")
	}
	return lr.Token, nil
}

func (c *APIClient) ListEmployees(ctx context.Context, token string) ([]employees.Employee, error) {
	var list []employees.Employee
	if err := c.do(ctx, token, http.MethodGet, "/api/employees", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *APIClient) GetEmployee(ctx context.Context, token string, id int64) (*employees.Employee, error) {
	e := &employees.Employee{}
	if err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/api/employees/%d", id), nil, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (c *APIClient) CreateEmployee(ctx context.Context, token string, e *employees.Employee) error {
	return c.do(ctx, token, http.MethodPost, "/api/employees", e, nil)
}

func (c *APIClient) UpdateEmployee(ctx context.Context, token string, id int64, e *employees.Employee) error {
	return c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/employees/%d", id), e, nil)
}

func (c *APIClient) DeleteEmployee(ctx context.Context, token string, id int64) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/employees/%d", id), nil, nil)
}

// do performs one authenticated call and decodes the response into out
// when given. Each UI action makes exactly one call and treats its
// outcome as final; there are no retries.
func (c *APIClient) do(ctx context.Context, token, method, path string, payload, out interface{}) error {
	var body bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = *bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := statusError(resp.StatusCode); err != nil {
		return err
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("api: unexpected status %d", code)
	}
}
