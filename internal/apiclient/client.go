// Package apiclient wraps the HTTP interactions with the card studio API.
// It converts wire payloads into editor types and server error envelopes
// into typed errors, so callers never touch raw responses.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cardstudio/internal/editor"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

// Options allows overriding the client's dependencies.
type Options struct {
	HTTPClient *http.Client
}

func New(baseURL string, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse baseURL: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// Error is a failed API call: the operation, the HTTP status, and the
// server's message when one was sent.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

// User mirrors the account summary the API returns at signup/login.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SetToken installs a previously obtained bearer token. Signup and Login
// install theirs automatically. Logout is simply discarding the token.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

// Health calls GET /api/health.
func (c *Client) Health(ctx context.Context) error {
	const op = "Health"
	var body struct {
		Status string `json:"status"`
	}
	if err := c.call(ctx, op, http.MethodGet, "/api/health", nil, http.StatusOK, &body); err != nil {
		return err
	}
	if body.Status != "ok" {
		return &Error{Op: op, Status: http.StatusOK, Message: fmt.Sprintf("unexpected status %q", body.Status)}
	}
	return nil
}

// Signup registers an account and keeps the returned token.
func (c *Client) Signup(ctx context.Context, name, email, password string) (User, error) {
	const op = "Signup"
	payload := map[string]string{"name": name, "email": email, "password": password}
	var body authResponse
	if err := c.call(ctx, op, http.MethodPost, "/api/auth/signup", payload, http.StatusCreated, &body); err != nil {
		return User{}, err
	}
	c.token = body.Token
	return body.User, nil
}

// Login authenticates and keeps the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	const op = "Login"
	payload := map[string]string{"email": email, "password": password}
	var body authResponse
	if err := c.call(ctx, op, http.MethodPost, "/api/auth/login", payload, http.StatusOK, &body); err != nil {
		return User{}, err
	}
	c.token = body.Token
	return body.User, nil
}

// CreateCard saves the draft as a new design.
func (c *Client) CreateCard(ctx context.Context, draft editor.Draft) (editor.Card, error) {
	const op = "CreateCard"
	payload := map[string]interface{}{
		"title":       draft.Title,
		"fields":      draft.Fields,
		"style":       draft.Style,
		"logoDataUrl": draft.LogoDataURL,
	}
	var dto cardDTO
	if err := c.call(ctx, op, http.MethodPost, "/api/cards", payload, http.StatusCreated, &dto); err != nil {
		return editor.Card{}, err
	}
	return dto.toEditor(), nil
}

// ListCards fetches the caller's designs, newest-updated first.
func (c *Client) ListCards(ctx context.Context) ([]editor.Card, error) {
	const op = "ListCards"
	var dtos []cardDTO
	if err := c.call(ctx, op, http.MethodGet, "/api/cards", nil, http.StatusOK, &dtos); err != nil {
		return nil, err
	}
	cards := make([]editor.Card, 0, len(dtos))
	for _, dto := range dtos {
		cards = append(cards, dto.toEditor())
	}
	return cards, nil
}

// GetCard fetches one design by id.
func (c *Client) GetCard(ctx context.Context, id string) (editor.Card, error) {
	const op = "GetCard"
	var dto cardDTO
	if err := c.call(ctx, op, http.MethodGet, "/api/cards/"+url.PathEscape(id), nil, http.StatusOK, &dto); err != nil {
		return editor.Card{}, err
	}
	return dto.toEditor(), nil
}

// UpdateCard overwrites the supplied attributes of a design.
func (c *Client) UpdateCard(ctx context.Context, id string, patch CardPatch) (editor.Card, error) {
	const op = "UpdateCard"
	var dto cardDTO
	if err := c.call(ctx, op, http.MethodPut, "/api/cards/"+url.PathEscape(id), patch, http.StatusOK, &dto); err != nil {
		return editor.Card{}, err
	}
	return dto.toEditor(), nil
}

// DeleteCard removes a design.
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	const op = "DeleteCard"
	var body struct {
		Success bool `json:"success"`
	}
	return c.call(ctx, op, http.MethodDelete, "/api/cards/"+url.PathEscape(id), nil, http.StatusOK, &body)
}

func (c *Client) call(ctx context.Context, op, method, path string, payload interface{}, wantStatus int, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return &Error{Op: op, Message: err.Error()}
		}
		body = bytes.NewReader(encoded)
	}

	target := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return &Error{Op: op, Message: err.Error()}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return &Error{Op: op, Status: resp.StatusCode, Message: serverMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Message: err.Error()}
	}
	return nil
}

func serverMessage(body io.Reader) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return ""
	}
	return envelope.Message
}
