// Package exporemote talks to the remote expo registration API.
package exporemote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-expo/expo"
)

// DefaultBaseURL is the production registration API.
const DefaultBaseURL = "https://www.jeddah-vision.com"

const (
	registrationPath = "/expo-registration"
	maxErrorBody     = 64 * 1024
)

// Client implements expo.RegistrationAPI and expo.LookupAPI over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Timeout time.Duration
	Headers map[string]string
	Logger  expo.Logger
}

// New returns a client for baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{BaseURL: baseURL, Timeout: timeout}
}

type errorBody struct {
	Message string `json:"message"`
}

type lookupBody struct {
	Data *expo.AttendeeRecord `json:"data"`
}

// Register posts a registration payload.
func (c *Client) Register(ctx context.Context, requestID string, payload expo.RegistrationPayload) error {
	if c == nil {
		return expo.NewError(expo.KindInternal, "remote client is nil", nil)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return expo.NewError(expo.KindValidation, "registration payload invalid", err)
	}

	endpoint, err := c.endpoint(registrationPath)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, endpoint, requestID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return responseError(resp, "registration rejected", "")
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Lookup fetches the attendee record behind token.
func (c *Client) Lookup(ctx context.Context, token, captchaToken string) (expo.AttendeeRecord, error) {
	if c == nil {
		return expo.AttendeeRecord{}, expo.NewError(expo.KindInternal, "remote client is nil", nil)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return expo.AttendeeRecord{}, expo.NewError(expo.KindValidation, "badge token is required", nil)
	}

	endpoint, err := c.endpoint(registrationPath + "/" + url.PathEscape(token))
	if err != nil {
		return expo.AttendeeRecord{}, err
	}
	query := endpoint.Query()
	query.Set("captchaToken", captchaToken)
	endpoint.RawQuery = query.Encode()

	resp, err := c.do(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return expo.AttendeeRecord{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return expo.AttendeeRecord{}, responseError(resp, "badge lookup failed", "badge not found")
	}

	var out lookupBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return expo.AttendeeRecord{}, expo.NewError(expo.KindExternal, "badge lookup response invalid", err)
	}
	if out.Data == nil {
		return expo.AttendeeRecord{}, expo.NewError(expo.KindNotFound, "badge not found", nil)
	}
	return *out.Data, nil
}

func (c *Client) do(ctx context.Context, method string, endpoint *url.URL, requestID string, body io.Reader) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cancel := context.CancelFunc(func() {})
	if c.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
	}

	req, err := c.newRequest(ctx, method, endpoint, requestID, body)
	if err != nil {
		cancel()
		return nil, err
	}
	resp, err := c.client().Do(req)
	if err != nil {
		cancel()
		return nil, transportError(ctx, err)
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method string, endpoint *url.URL, requestID string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, expo.NewError(expo.KindInternal, "remote request failed", err)
	}
	for key, value := range c.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}
	if c.Logger != nil {
		c.Logger.Debugf("remote %s %s", method, endpoint.Path)
	}
	return req, nil
}

func (c *Client) endpoint(path string) (*url.URL, error) {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(base, "/") + path)
	if err != nil {
		return nil, expo.NewError(expo.KindInternal, "invalid remote api url", err)
	}
	return u, nil
}

func (c *Client) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// responseError maps a failed response to an expo error. A 404 is reported as
// not found only when notFoundMsg is set.
func responseError(resp *http.Response, msg, notFoundMsg string) error {
	remote := &expo.RemoteError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		remote.Message = strings.TrimSpace(body.Message)
	}

	kind := expo.KindExternal
	if resp.StatusCode == http.StatusNotFound && notFoundMsg != "" {
		kind = expo.KindNotFound
		msg = notFoundMsg
	}
	if remote.Message != "" {
		msg = remote.Message
	}
	return expo.NewError(kind, msg, remote)
}

func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return expo.NewError(expo.KindExternal, "remote api unreachable", err)
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
