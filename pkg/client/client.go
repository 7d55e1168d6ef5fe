// Package client is a Go SDK for the assistant's HTTP API. Sessions are kept
// in the client's cookie jar after Login.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"uni-assistant/pkg/api"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	client *resty.Client
}

func New(baseURL string) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(90*time.Second).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var apiErr api.ErrorResponse

	req := c.client.R().
		SetContext(ctx).
		SetError(&apiErr)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("error sending %s %s: %w", method, path, err)
	}

	if !res.IsSuccess() {
		message := apiErr.Error
		if message == "" {
			message = res.String()
		}
		return &APIError{StatusCode: res.StatusCode(), Message: message}
	}

	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (api.AuthResponse, error) {
	var res api.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", api.LoginRequest{Email: email, Password: password}, &res)
	return res, err
}

func (c *Client) Register(ctx context.Context, email, password, fullName string) (api.AuthResponse, error) {
	var res api.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", api.RegisterRequest{Email: email, Password: password, FullName: fullName}, &res)
	return res, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (api.CurrentUser, error) {
	var res api.CurrentUser
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &res)
	return res, err
}

func (c *Client) ListChats(ctx context.Context) ([]api.Chat, error) {
	var res []api.Chat
	err := c.do(ctx, http.MethodGet, "/api/chats", nil, &res)
	return res, err
}

func (c *Client) CreateChat(ctx context.Context, name string) (api.Chat, error) {
	var res api.Chat
	err := c.do(ctx, http.MethodPost, "/api/chats", api.CreateChatRequest{Name: name}, &res)
	return res, err
}

func (c *Client) GetChat(ctx context.Context, chatId uuid.UUID) (api.ChatWithMessages, error) {
	var res api.ChatWithMessages
	err := c.do(ctx, http.MethodGet, "/api/chats/"+chatId.String(), nil, &res)
	return res, err
}

func (c *Client) RenameChat(ctx context.Context, chatId uuid.UUID, name string) (api.Chat, error) {
	var res api.Chat
	err := c.do(ctx, http.MethodPatch, "/api/chats/"+chatId.String(), api.RenameChatRequest{Name: name}, &res)
	return res, err
}

func (c *Client) DeleteChat(ctx context.Context, chatId uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/chats/"+chatId.String(), nil, nil)
}

func (c *Client) Search(ctx context.Context, query string) ([]api.SearchResult, error) {
	var res []api.SearchResult
	var apiErr api.ErrorResponse

	r, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetResult(&res).
		SetError(&apiErr).
		Get("/api/chats/search")
	if err != nil {
		return nil, fmt.Errorf("error searching messages: %w", err)
	}
	if !r.IsSuccess() {
		return nil, &APIError{StatusCode: r.StatusCode(), Message: apiErr.Error}
	}
	return res, nil
}

func (c *Client) ListMessages(ctx context.Context, chatId uuid.UUID) ([]api.Message, error) {
	var res []api.Message
	err := c.do(ctx, http.MethodGet, "/api/chats/"+chatId.String()+"/messages", nil, &res)
	return res, err
}

func (c *Client) PostMessage(ctx context.Context, chatId uuid.UUID, text string) (api.PostMessageResponse, error) {
	var res api.PostMessageResponse
	err := c.do(ctx, http.MethodPost, "/api/chats/"+chatId.String()+"/messages", api.PostMessageRequest{Text: text}, &res)
	return res, err
}
