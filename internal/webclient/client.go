// Package webclient is the headless counterpart of the site's frontend:
// an API client plus the session/UI and autocomplete controllers the
// browser script implements, with the same observable behavior.
package webclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/folioweb/siteserver/types"
)

// APIError is a server-reported failure: the envelope said success=false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the site backend. POST bodies are form-encoded and every
// response carries the uniform {success,message,...} envelope.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type loginEnvelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	User    *types.SessionUser `json:"user"`
	Token   string             `json:"token"`
}

type userEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    *types.Profile `json:"user"`
}

type listEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Users   []string `json:"users"`
}

type resultEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login returns the session to persist and the server's success message.
func (c *Client) Login(ctx context.Context, username, password string) (Session, string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var env loginEnvelope
	status, err := c.postForm(ctx, "/login", form, &env)
	if err != nil {
		return Session{}, "", err
	}
	if !env.Success || env.User == nil {
		return Session{}, "", &APIError{Status: status, Message: env.Message}
	}
	return Session{
		Username: env.User.Username,
		Email:    env.User.Email,
		Phone:    env.User.Phone,
		Role:     env.User.Role,
		Token:    env.Token,
	}, env.Message, nil
}

// Signup registers an account and returns the server's message.
func (c *Client) Signup(ctx context.Context, username, email, password, phone string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("email", email)
	form.Set("password", password)
	form.Set("phone", phone)

	var env resultEnvelope
	status, err := c.postForm(ctx, "/signup", form, &env)
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", &APIError{Status: status, Message: env.Message}
	}
	return env.Message, nil
}

// SubmitContact sends the contact form and returns the server's message.
func (c *Client) SubmitContact(ctx context.Context, form types.ContactForm) (string, error) {
	values := url.Values{}
	values.Set("name", form.Name)
	values.Set("email", form.Email)
	values.Set("phone", form.Phone)
	values.Set("message", form.Message)

	var env resultEnvelope
	status, err := c.postForm(ctx, "/submit", values, &env)
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", &APIError{Status: status, Message: env.Message}
	}
	return env.Message, nil
}

// UserInfo fetches the profile used to populate the contact form.
func (c *Client) UserInfo(ctx context.Context, username string) (types.Profile, error) {
	query := url.Values{}
	query.Set("username", username)

	var env userEnvelope
	status, err := c.getJSON(ctx, "/user-info", query, "", &env)
	if err != nil {
		return types.Profile{}, err
	}
	if !env.Success || env.User == nil {
		return types.Profile{}, &APIError{Status: status, Message: env.Message}
	}
	return *env.User, nil
}

// SearchUser is the admin exact-match lookup. token is the bearer token
// issued at login.
func (c *Client) SearchUser(ctx context.Context, token, username string) (types.Profile, error) {
	query := url.Values{}
	query.Set("username", username)

	var env userEnvelope
	status, err := c.getJSON(ctx, "/admin/search-user", query, token, &env)
	if err != nil {
		return types.Profile{}, err
	}
	if !env.Success || env.User == nil {
		return types.Profile{}, &APIError{Status: status, Message: env.Message}
	}
	return *env.User, nil
}

// SearchUsernames is the admin autocomplete lookup.
func (c *Client) SearchUsernames(ctx context.Context, token, term string) ([]string, error) {
	query := url.Values{}
	query.Set("q", term)

	var env listEnvelope
	status, err := c.getJSON(ctx, "/admin/search-users-autocomplete", query, token, &env)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &APIError{Status: status, Message: env.Message}
	}
	return env.Users, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, token string, out any) (int, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
