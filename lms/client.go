package lms

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type tokenKey struct{}

// WithToken returns a context carrying the bearer token forwarded to the backend.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type requestIDKey struct{}

// WithRequestID returns a context whose backend calls carry id as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// requestIDFrom returns the forwarded request id or a fresh one.
func requestIDFrom(ctx context.Context) string {
	if id, _ := ctx.Value(requestIDKey{}).(string); id != "" {
		return id
	}
	return uuid.NewString()
}

// Client talks to the e-learning REST backend. Calls are made once; there is
// no retry or backoff, failures surface to the caller.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// NewClient builds a backend client. A zero timeout keeps the transport default.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}
	return &Client{http: rc, log: log.Named("lms")}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestIDFrom(ctx))
	if token := tokenFrom(ctx); token != "" {
		r.SetAuthToken(token)
	}
	return r
}

// do executes the request and decodes the payload into out (which may be nil).
func (c *Client) do(r *resty.Request, method, path string, out interface{}) error {
	resp, err := r.Execute(method, path)
	if err != nil {
		if ctxErr := r.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Warn("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &APIError{Method: method, Path: path, Message: err.Error()}
	}

	if resp.IsError() {
		apiErr := &APIError{
			Status:  resp.StatusCode(),
			Method:  method,
			Path:    path,
			Message: errorMessage(resp.Body()),
		}
		c.log.Debug("backend returned error", zap.String("method", method), zap.String("path", path), zap.Int("status", apiErr.Status))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := decode(resp.Body(), out); err != nil {
		c.log.Warn("undecodable backend response", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrInvalidResponse, err)
	}
	return nil
}

// decode accepts both {"data": payload} and a bare payload. A "data" key
// always wins, and a null payload leaves out at its zero value.
func decode(body []byte, out interface{}) error {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return err
		}
		if data, ok := fields["data"]; ok {
			if strings.TrimSpace(string(data)) == "null" {
				return nil
			}
			return json.Unmarshal(data, out)
		}
	}
	return json.Unmarshal(body, out)
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func idPath(format string, id uint) string {
	return fmt.Sprintf(format, id)
}
