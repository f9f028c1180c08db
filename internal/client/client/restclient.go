package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/qrregistry/internal/client/models"
	"github.com/go-resty/resty/v2"
)

const codeTokenExpired = "TOKEN_EXPIRED"

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type RESTClient struct {
	http *resty.Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

// NewRESTClient returns a client for the API rooted at baseURL.
func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	h := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &RESTClient{http: h}
}

func (c *RESTClient) tokens() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken, c.refreshToken
}

func (c *RESTClient) setTokens(tp models.TokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = tp.AccessToken
	c.refreshToken = tp.RefreshToken
}

func (c *RESTClient) IsAuthenticated() bool {
	access, _ := c.tokens()
	return access != ""
}

func (c *RESTClient) Logout() {
	c.setTokens(models.TokenPair{})
}

// once performs a single request. The access token, when present, is always
// attached; endpoints that allow anonymous access simply ignore a missing one.
func (c *RESTClient) once(ctx context.Context, method, path string, prepare func(*resty.Request)) (*resty.Response, error) {
	var errBody errorEnvelope

	req := c.http.R().SetContext(ctx).SetError(&errBody)
	if access, _ := c.tokens(); access != "" {
		req.SetAuthToken(access)
	}
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode(), Code: http.StatusText(resp.StatusCode())}
		if errBody.Error != nil {
			apiErr.Code = errBody.Error.Code
			apiErr.Message = errBody.Error.Message
		}
		return resp, apiErr
	}

	return resp, nil
}

// do runs the request and, if the access token has expired, rotates the
// token pair and retries exactly once.
func (c *RESTClient) do(ctx context.Context, method, path string, prepare func(*resty.Request)) (*resty.Response, error) {
	stale, _ := c.tokens()

	resp, err := c.once(ctx, method, path, prepare)

	var apiErr *APIError
	if err == nil || stale == "" || !errors.As(err, &apiErr) || apiErr.Code != codeTokenExpired {
		return resp, err
	}

	if err := c.refresh(ctx, stale); err != nil {
		return nil, err
	}

	return c.once(ctx, method, path, prepare)
}

// refresh exchanges the refresh token for a new pair. Concurrent callers that
// saw the same stale access token share a single rotation.
func (c *RESTClient) refresh(ctx context.Context, stale string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != stale {
		return nil
	}
	if c.refreshToken == "" {
		return ErrUnauthorized
	}

	var out envelope[models.TokenPair]
	var errBody errorEnvelope

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"refresh_token": c.refreshToken}).
		SetResult(&out).
		SetError(&errBody).
		Post("/api/auth/refresh")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.IsError() {
		c.accessToken, c.refreshToken = "", ""
		return ErrUnauthorized
	}

	c.accessToken = out.Data.AccessToken
	c.refreshToken = out.Data.RefreshToken
	return nil
}

func call[T any](ctx context.Context, c *RESTClient, method, path string, prepare func(*resty.Request)) (T, error) {
	var out envelope[T]
	_, err := c.do(ctx, method, path, func(r *resty.Request) {
		r.SetResult(&out)
		if prepare != nil {
			prepare(r)
		}
	})
	return out.Data, err
}

func withBody(body any) func(*resty.Request) {
	return func(r *resty.Request) { r.SetBody(body) }
}

func withID(id string) func(*resty.Request) {
	return func(r *resty.Request) { r.SetPathParam("id", id) }
}

func (c *RESTClient) Ping(ctx context.Context) error {
	res, err := call[map[string]string](ctx, c, http.MethodGet, "/ping", nil)
	if err != nil {
		return err
	}
	if res["status"] != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *RESTClient) Register(ctx context.Context, email, password string) (*models.User, error) {
	return call[*models.User](ctx, c, http.MethodPost, "/api/auth/register",
		withBody(map[string]string{"email": email, "password": password}))
}

func (c *RESTClient) Login(ctx context.Context, email, password string) error {
	tp, err := call[models.TokenPair](ctx, c, http.MethodPost, "/api/auth/login",
		withBody(map[string]string{"email": email, "password": password}))
	if err != nil {
		return err
	}
	c.setTokens(tp)
	return nil
}

func (c *RESTClient) CreateRecord(ctx context.Context, in models.RecordInput) (*models.Record, error) {
	return call[*models.Record](ctx, c, http.MethodPost, "/api/records", withBody(in))
}

func (c *RESTClient) ListRecords(ctx context.Context) ([]*models.Record, error) {
	return call[[]*models.Record](ctx, c, http.MethodGet, "/api/records", nil)
}

func (c *RESTClient) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	return call[*models.Record](ctx, c, http.MethodGet, "/api/records/{id}", withID(id))
}

func (c *RESTClient) UpdateRecord(ctx context.Context, id string, patch models.RecordPatch) (*models.Record, error) {
	return call[*models.Record](ctx, c, http.MethodPatch, "/api/records/{id}", func(r *resty.Request) {
		r.SetPathParam("id", id).SetBody(patch)
	})
}

func (c *RESTClient) DeleteRecord(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/records/{id}", withID(id))
	return err
}

func (c *RESTClient) Exists(ctx context.Context, nationalID string) (bool, error) {
	res, err := call[map[string]bool](ctx, c, http.MethodGet, "/api/records/exists", func(r *resty.Request) {
		r.SetQueryParam("national_id", nationalID)
	})
	if err != nil {
		return false, err
	}
	return res["exists"], nil
}

func (c *RESTClient) Scan(ctx context.Context, payload string) (*models.Record, error) {
	return call[*models.Record](ctx, c, http.MethodPost, "/api/scan",
		withBody(map[string]string{"payload": payload}))
}

// QRCode downloads the PNG image of the record's QR code.
func (c *RESTClient) QRCode(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/records/{id}/qr.png", func(r *resty.Request) {
		r.SetPathParam("id", id).SetHeader("Accept", "image/png, application/json")
	})
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *RESTClient) Share(ctx context.Context, id string) (string, error) {
	res, err := call[map[string]string](ctx, c, http.MethodPost, "/api/records/{id}/share", withID(id))
	if err != nil {
		return "", err
	}
	return res["url"], nil
}

func (c *RESTClient) ListAll(ctx context.Context) ([]*models.Record, error) {
	return call[[]*models.Record](ctx, c, http.MethodGet, "/api/admin/records", nil)
}
