package wechat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// APIError carries the error code and message returned by the WeChat API.
type APIError struct {
	Code    int
	Message string
}

func (e APIError) Error() string {
	return fmt.Sprintf("wechat api error %d: %s", e.Code, e.Message)
}

// Session is the resolved identity for a mini-program login code.
type Session struct {
	OpenID     string
	SessionKey string
}

// Resolver turns a mini-program login code into a stable user identifier.
// The service never sees WeChat credentials beyond the one-time code.
type Resolver interface {
	Resolve(ctx context.Context, code string) (*Session, error)
}

// HTTPClient implements Resolver against the jscode2session endpoint.
type HTTPClient struct {
	baseURL    *url.URL
	appID      string
	secret     string
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors the JSON payload of sns/jscode2session.
type response struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// NewHTTPClient creates a WeChat client with default timeout.
func NewHTTPClient(baseURL, appID, secret string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse wechat url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("wechat url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		appID:   appID,
		secret:  secret,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Resolve exchanges the login code for an openid.
func (c *HTTPClient) Resolve(ctx context.Context, code string) (*Session, error) {
	endpoint := *c.baseURL
	endpoint.Path = "/sns/jscode2session"
	query := endpoint.Query()
	query.Set("appid", c.appID)
	query.Set("secret", c.secret)
	query.Set("js_code", code)
	query.Set("grant_type", "authorization_code")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("wechat request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("wechat error: %s", resp.Status)
	}

	var data response
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}

	// WeChat reports failures with HTTP 200 and a non-zero errcode.
	if data.ErrCode != 0 {
		return nil, APIError{Code: data.ErrCode, Message: data.ErrMsg}
	}
	if data.OpenID == "" {
		return nil, fmt.Errorf("wechat response missing openid")
	}

	return &Session{OpenID: data.OpenID, SessionKey: data.SessionKey}, nil
}
