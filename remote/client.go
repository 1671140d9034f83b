// Package remote fetches pages from the legacy time-tracking service
// and hands their HTML to the matching parser.
//
// The backend has no API: authentication is a PHP session cookie, and
// an expired session is signalled by a silent HTTP 200 redirect to the
// login page rather than a 401. Every response is therefore validated
// against the redirect target before it is parsed.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// ErrAuthenticationRequired means the service no longer recognizes the
// session. Callers re-login and replay the request exactly once.
var ErrAuthenticationRequired = errors.New("remote: authentication required")

// Page endpoints of the legacy PHP service.
const (
	PageLogin      = "login.php"
	PageTime       = "time.php"
	PageTimeEdit   = "time_edit.php"
	PageTimeDelete = "time_delete.php"
	PageProjects   = "projects.php"
	PageTasks      = "tasks.php"
	PageUsers      = "users.php"
	PageReports    = "reports.php"
	PageReport     = "report.php"
)

// redirectAllowed lists the pages an authenticated request may be
// legitimately redirected to (e.g. reports.php generates report.php).
// A redirect anywhere else, most importantly to login.php, means the
// session expired.
var redirectAllowed = map[string]bool{
	PageTime:   true,
	PageReport: true,
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("remote: cookie jar: %w", err)
	}
	return &Client{
		baseURL: parsed,
		http:    &http.Client{Jar: jar, Timeout: timeout},
		log:     log.With("source", "remote"),
	}, nil
}

// Get fetches a page and validates the response.
func (c *Client) Get(ctx context.Context, page string, query url.Values) (string, error) {
	body, final, err := c.get(ctx, page, query)
	if err != nil {
		return "", err
	}
	return body, c.validate(page, final, body)
}

// PostForm submits a form to a page and validates the response.
func (c *Client) PostForm(ctx context.Context, page string, form url.Values) (string, error) {
	body, final, err := c.postForm(ctx, page, form)
	if err != nil {
		return "", err
	}
	return body, c.validate(page, final, body)
}

func (c *Client) get(ctx context.Context, page string, query url.Values) (body, finalPage string, err error) {
	pageURL := c.pageURL(page)
	if len(query) > 0 {
		pageURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("remote: create request: %w", err)
	}
	return c.do(req, page)
}

func (c *Client) postForm(ctx context.Context, page string, form url.Values) (body, finalPage string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pageURL(page), strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, page)
}

// do executes the request and reports the body together with the final
// page the transport landed on after any redirects.
func (c *Client) do(req *http.Request, page string) (body, finalPage string, err error) {
	c.log.Debug("fetch", slog.String("page", page), slog.String("method", req.Method))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("remote: fetch %s: %w", page, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("remote: read %s: %w", page, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("remote: %s: unexpected status %d", page, resp.StatusCode)
	}

	return string(raw), lastPathSegment(resp.Request.URL), nil
}

// validate applies the uniform response check: non-empty body, and any
// followed redirect must land back on the requested page or on an
// allow-listed one.
func (c *Client) validate(page, finalPage, body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrAuthenticationRequired
	}
	if finalPage == page || redirectAllowed[finalPage] {
		return nil
	}
	c.log.Debug("redirected", slog.String("page", page), slog.String("final", finalPage))
	return ErrAuthenticationRequired
}

func (c *Client) pageURL(page string) string {
	return c.baseURL.JoinPath(page).String()
}

func lastPathSegment(u *url.URL) string {
	path := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
