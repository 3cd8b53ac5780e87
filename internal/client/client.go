package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"aurelia/internal/config"
	"aurelia/internal/logging"
	"aurelia/internal/types"
)

const defaultBaseURL = "http://127.0.0.1:8460"

// Client speaks to the workspace backend. Every authenticated call carries
// the bearer token; an expired credential surfaces as an Unauthorized error
// so the hosting shell can force re-login.
type Client struct {
	baseURL   string
	tokenPath string
	token     string
	http      *http.Client
	log       logging.Logger
}

func New(log logging.Logger) (*Client, error) {
	tokenPath, err := config.TokenPath()
	if err != nil {
		return nil, err
	}
	baseURL := defaultBaseURL
	if cfg, err := config.Load(); err == nil {
		baseURL = cfg.ServerBaseURL()
	}
	if log == nil {
		log = logging.Nop()
	}
	c := &Client{
		baseURL:   baseURL,
		tokenPath: tokenPath,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
	_ = c.loadToken()
	return c, nil
}

func NewWithBaseURL(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: logging.Nop(),
	}
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*types.UserSession, error) {
	req := LoginRequest{Username: username, Password: password}
	var session types.UserSession
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", req, false, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	if c.tokenPath != "" {
		if err := c.saveToken(session.Token); err != nil {
			return nil, err
		}
	}
	return &session, nil
}

// Logout drops the persisted credential. The server keeps no client-visible
// session state beyond the token itself.
func (c *Client) Logout() error {
	c.token = ""
	if c.tokenPath == "" {
		return nil
	}
	err := os.Remove(c.tokenPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, requireAuth bool, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Trace-Id", uuid.NewString())
	if requireAuth {
		if err := c.ensureToken(); err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, out)
}

// decodeEnvelope unwraps the backend's {code, data, message, trace_id}
// response envelope, mapping failures onto the error taxonomy.
func decodeEnvelope(resp *http.Response, out any) error {
	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := env.Message
		if message == "" {
			message = resp.Status
		}
		return &APIError{
			Kind:       kindFromStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    message,
			TraceID:    env.TraceID,
		}
	}
	if decodeErr != nil {
		return &APIError{Kind: KindTransport, Message: decodeErr.Error()}
	}
	if env.Code != 0 {
		return &APIError{
			Kind:       KindServerError,
			StatusCode: resp.StatusCode,
			Message:    env.Message,
			TraceID:    env.TraceID,
		}
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Kind: KindTransport, Message: err.Error()}
	}
	return nil
}

type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
}

func (c *Client) ensureToken() error {
	if strings.TrimSpace(c.token) == "" {
		if err := c.loadToken(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.token) == "" {
		return &APIError{Kind: KindUnauthorized, Message: "not logged in"}
	}
	return nil
}

func (c *Client) loadToken() error {
	if c.tokenPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.token = ""
			return nil
		}
		return err
	}
	c.token = strings.TrimSpace(string(data))
	return nil
}

func (c *Client) saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(c.tokenPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.tokenPath, []byte(token+"\n"), 0o600)
}
