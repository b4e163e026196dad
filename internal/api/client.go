// Package api is the HTTP client for the UPI platform API.
//
// All mutating calls ride on the cookie session (no bearer tokens). Responses
// come wrapped in {data: ...} envelopes; error bodies carry a human-readable
// "message" that is surfaced verbatim to the user.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	http    *http.Client

	// cookiePath, when set, persists the session cookies between runs.
	cookiePath string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithCookieFile persists session cookies to the given file.
func WithCookieFile(path string) Option {
	return func(c *Client) { c.cookiePath = path }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api base url is empty (set UPI_API_URL or api.url in config)")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout, Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cookiePath != "" {
		if err := c.loadCookies(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// BaseURL returns the configured API root (no trailing slash).
func (c *Client) BaseURL() string { return c.baseURL }

// ResolveDocumentURL resolves a per-document relative URL against the API
// base. Absolute URLs pass through untouched.
func (c *Client) ResolveDocumentURL(docURL string) string {
	docURL = strings.TrimSpace(docURL)
	if docURL == "" {
		return ""
	}
	if strings.HasPrefix(docURL, "http://") || strings.HasPrefix(docURL, "https://") {
		return docURL
	}
	return c.baseURL + "/" + strings.TrimLeft(docURL, "/")
}

// FetchDocument streams a document body using the client's session cookies.
// The caller closes the reader.
func (c *Client) FetchDocument(ctx context.Context, docURL string) (io.ReadCloser, error) {
	u := c.ResolveDocumentURL(docURL)
	if u == "" {
		return nil, &Error{Msg: "missing document URL"}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Msg: "Document download failed", Cause: err}
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, errorFromResponse(resp.StatusCode, body, "Document download failed")
	}
	return resp.Body, nil
}

func (c *Client) url(path string) string { return c.baseURL + path }

// doJSON runs a request and decodes the "data" member of the envelope into
// out (which may be nil when no body is expected). Failed responses become
// *Error values carrying the server message, or fallback when absent.
func (c *Client) doJSON(req *http.Request, out any, fallback string) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Msg: fallback, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Msg: fallback, Cause: err}
	}
	if resp.StatusCode >= 400 {
		return errorFromResponse(resp.StatusCode, body, fallback)
	}
	if c.cookiePath != "" {
		// Persist any session cookie the server just set.
		if err := c.saveCookies(); err != nil {
			return err
		}
	}
	if out == nil {
		return nil
	}
	var env struct {
		Data   json.RawMessage `json:"data"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return &Error{Status: resp.StatusCode, Msg: fallback, Cause: err}
	}
	raw := env.Data
	if len(raw) == 0 {
		// /auth/me wraps its payload in {result: ...}.
		raw = env.Result
	}
	if len(raw) == 0 {
		return &Error{Status: resp.StatusCode, Msg: fallback, Cause: fmt.Errorf("empty envelope")}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: resp.StatusCode, Msg: fallback, Cause: err}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any, fallback string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return &Error{Msg: fallback, Cause: err}
	}
	return c.doJSON(req, out, fallback)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any, fallback string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &Error{Msg: fallback, Cause: err}
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return &Error{Msg: fallback, Cause: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doJSON(req, out, fallback)
}

// Cookie persistence. The jar only needs the API origin's cookies.

type storedCookies struct {
	URL     string         `json:"url"`
	Cookies []*http.Cookie `json:"cookies"`
}

func (c *Client) loadCookies() error {
	b, err := os.ReadFile(c.cookiePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}
	var sc storedCookies
	if err := json.Unmarshal(b, &sc); err != nil {
		// A corrupt cookie file just means a fresh session.
		return nil
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	c.http.Jar.SetCookies(u, sc.Cookies)
	return nil
}

func (c *Client) saveCookies() error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	sc := storedCookies{URL: c.baseURL, Cookies: c.http.Jar.Cookies(u)}
	b, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cookies: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.cookiePath), 0o755); err != nil {
		return fmt.Errorf("cookie dir: %w", err)
	}
	if err := os.WriteFile(c.cookiePath, b, 0o600); err != nil {
		return fmt.Errorf("write cookies: %w", err)
	}
	return nil
}

// ClearCookies drops the persisted session (logout).
func (c *Client) ClearCookies() error {
	if c.cookiePath == "" {
		return nil
	}
	if err := os.Remove(c.cookiePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cookies: %w", err)
	}
	return nil
}
