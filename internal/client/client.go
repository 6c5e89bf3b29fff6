// Package client issues authenticated requests against the portal with
// the stored cookie set attached.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"schoolctl/internal/portal"
	"schoolctl/internal/store"
	"schoolctl/models"
)

// DefaultTimeout bounds one portal request, including redirects.
const DefaultTimeout = 30 * time.Second

var (
	// ErrNoSchool means no school could be resolved from the options,
	// the stored session, or the configuration.
	ErrNoSchool = errors.New("no school selected; pass --school or run `schoolctl auth` first")

	// ErrNoSession means there is no stored cookie set to attach.
	ErrNoSession = errors.New("no stored session; run `schoolctl auth` first")

	// ErrSessionExpired means the portal redirected the request to its
	// login page: the stored session is no longer accepted.
	ErrSessionExpired = errors.New("the portal no longer accepts the stored session; run `schoolctl auth` again")

	// ErrRequestTimeout means the request was aborted at the deadline.
	ErrRequestTimeout = errors.New("request timed out")
)

// FetchOptions tune one request. The zero value follows redirects with
// the default timeout against the stored school.
type FetchOptions struct {
	SchoolID   string
	NoRedirect bool
	Timeout    time.Duration
}

type Fetcher interface {
	Fetch(ctx context.Context, path string, opts FetchOptions) (*models.FetchResult, error)
}

// RealFetcher performs portal requests over plain HTTP with the stored
// cookies attached, watching each response for renewed cookies and for
// the redirect-to-login signal of a silently downgraded session.
type RealFetcher struct {
	HTTP    *http.Client
	Cookies store.CookieStore
	Config  store.ConfigStore

	// BaseURL is the portal root; overridden in tests.
	BaseURL string

	// IsLoginPage decides whether a URL is the portal login page. The
	// redirect-to-login heuristic is observed portal behavior, not a
	// documented contract, so the predicate is replaceable.
	IsLoginPage func(*url.URL) bool
}

func NewFetcher(httpClient *http.Client, cookies store.CookieStore, config store.ConfigStore) *RealFetcher {
	return &RealFetcher{
		HTTP:        httpClient,
		Cookies:     cookies,
		Config:      config,
		BaseURL:     portal.BaseURL,
		IsLoginPage: portal.IsLoginPage,
	}
}

// Fetch issues one authenticated request. The school comes from the
// options, else the stored cookie set, else the configured last-used
// school. The stored session is required before any network traffic.
func (f *RealFetcher) Fetch(ctx context.Context, path string, opts FetchOptions) (*models.FetchResult, error) {
	set, err := f.Cookies.Load()
	if err != nil {
		return nil, err
	}

	schoolID := opts.SchoolID
	if schoolID == "" && set != nil {
		schoolID = set.SchoolID
	}
	if schoolID == "" {
		if cfg, err := f.Config.Load(); err == nil && cfg.School != nil {
			schoolID = cfg.School.ID
		}
	}
	if schoolID == "" {
		return nil, ErrNoSchool
	}
	if set == nil {
		return nil, ErrNoSession
	}

	target := portal.SchoolURL(f.BaseURL, schoolID, path)
	requestURL, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	setBrowserHeaders(req)
	for _, ck := range set.Cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	redirected := false
	httpClient := *f.HTTP
	httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if opts.NoRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= 10 {
			return fmt.Errorf("stopped after 10 redirects")
		}
		redirected = true
		return nil
	}

	log.Debug().Str("url", requestURL.String()).Msg("portal request")
	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %s", ErrRequestTimeout, timeout, requestURL)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %s", ErrRequestTimeout, timeout, requestURL)
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if renewed := renewedCookies(resp); len(renewed) > 0 {
		if err := f.Cookies.MergeRenewed(renewed); err != nil {
			return nil, fmt.Errorf("failed to store renewed cookies: %w", err)
		}
		log.Debug().Int("cookies", len(renewed)).Msg("merged renewed cookies")
	}

	finalURL := resp.Request.URL
	if f.IsLoginPage(finalURL) && !f.IsLoginPage(requestURL) {
		return nil, ErrSessionExpired
	}

	return &models.FetchResult{
		Status:        resp.StatusCode,
		FinalURL:      finalURL.String(),
		Headers:       resp.Header,
		Body:          string(body),
		WasRedirected: redirected,
	}, nil
}

// renewedCookies converts the response's Set-Cookie records.
func renewedCookies(resp *http.Response) []models.Cookie {
	setCookies := resp.Cookies()
	if len(setCookies) == 0 {
		return nil
	}
	out := make([]models.Cookie, 0, len(setCookies))
	for _, c := range setCookies {
		out = append(out, models.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
			SameSite: sameSiteString(c.SameSite),
		})
	}
	return out
}

func sameSiteString(s http.SameSite) string {
	switch s {
	case http.SameSiteLaxMode:
		return "Lax"
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return ""
	}
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", portal.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "sv-SE,sv;q=0.9,en;q=0.8")
}
