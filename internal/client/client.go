// Package client is a typed client for the habitfree HTTP API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"habitfree/internal/config"
	"habitfree/internal/model"
)

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Client talks to one habitfree server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client from cfg.
func New(cfg config.ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// do sends the request and decodes the JSON body into out. Query carries
// the URL parameters, form the urlencoded body.
func (c *Client) do(ctx context.Context, method, path string, query, form url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if resp.StatusCode >= 300 || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func userQuery(userID int64) url.Values {
	return url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
}

// Register creates an account and returns its user id.
func (c *Client) Register(ctx context.Context, username, password string) (int64, error) {
	var out struct {
		UserID int64 `json:"user_id"`
	}
	err := c.do(ctx, http.MethodPost, "/register", nil, url.Values{"username": {username}, "password": {password}}, &out)
	return out.UserID, err
}

// Login checks credentials and returns the user id.
func (c *Client) Login(ctx context.Context, username, password string) (int64, error) {
	var out struct {
		UserID int64 `json:"user_id"`
	}
	err := c.do(ctx, http.MethodPost, "/login", nil, url.Values{"username": {username}, "password": {password}}, &out)
	return out.UserID, err
}

// Habits lists the habits of userID.
func (c *Client) Habits(ctx context.Context, userID int64) ([]model.Habit, error) {
	var out struct {
		Habits []model.Habit `json:"habits"`
	}
	if err := c.do(ctx, http.MethodGet, "/get_habits", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Habits, nil
}

// AddHabit starts tracking name for userID.
func (c *Client) AddHabit(ctx context.Context, userID int64, name string) (model.Habit, error) {
	form := userQuery(userID)
	form.Set("name", name)

	var out struct {
		Habit model.Habit `json:"habit"`
	}
	err := c.do(ctx, http.MethodPost, "/add", nil, form, &out)
	return out.Habit, err
}

// DeleteHabit removes a habit owned by userID.
func (c *Client) DeleteHabit(ctx context.Context, userID, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/delete/%d", id), userQuery(userID), nil, nil)
}

// Messages lists the scheduled messages of userID, oldest first.
func (c *Client) Messages(ctx context.Context, userID int64) ([]model.Message, error) {
	var out struct {
		Messages []model.Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/get_messages", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// SaveMessage schedules text for date (YYYY-MM-DD).
func (c *Client) SaveMessage(ctx context.Context, userID int64, text, date string) (model.Message, error) {
	form := userQuery(userID)
	form.Set("message", text)
	form.Set("date", date)

	var out struct {
		Message model.Message `json:"message_data"`
	}
	err := c.do(ctx, http.MethodPost, "/inbox", nil, form, &out)
	return out.Message, err
}

// DeleteMessage removes a message owned by userID.
func (c *Client) DeleteMessage(ctx context.Context, userID, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/delete_message/%d", id), userQuery(userID), nil, nil)
}

// ToggleMask flips the mask of a message and returns it.
func (c *Client) ToggleMask(ctx context.Context, userID, id int64) (model.Message, error) {
	var out struct {
		Message model.Message `json:"message_data"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/toggle_message_mask/%d", id), userQuery(userID), nil, &out)
	return out.Message, err
}

// Delivered returns one page of the delivery history of userID.
func (c *Client) Delivered(ctx context.Context, userID int64, page, limit int) (model.DeliveredPage, error) {
	query := userQuery(userID)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var out model.DeliveredPage
	err := c.do(ctx, http.MethodGet, "/delivered", query, nil, &out)
	return out, err
}
