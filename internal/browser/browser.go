// Package browser launches and observes a real, visible browser for the
// interactive login flow. The user types their credentials (and any
// second factor) into the portal's own pages; this package only reads
// the resulting cookie jar over the DevTools protocol.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"schoolctl/models"
)

// Session is one controllable browser instance.
type Session interface {
	Navigate(ctx context.Context, url string) error
	Cookies(ctx context.Context) ([]models.Cookie, error)
	Close() error
}

// Launcher starts browser sessions.
type Launcher interface {
	Launch(ctx context.Context, execPath, profileDir string) (Session, error)
}

// ChromeLauncher drives Chrome or Chromium over the DevTools protocol.
type ChromeLauncher struct{}

func NewChromeLauncher() *ChromeLauncher {
	return &ChromeLauncher{}
}

// Launch starts a visible browser with a disposable profile directory.
// The profile keeps the login session out of the user's everyday
// browser state; the caller deletes it again when done.
func (l *ChromeLauncher) Launch(ctx context.Context, execPath, profileDir string) (Session, error) {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.ExecPath(execPath),
		chromedp.UserDataDir(profileDir),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("new-window", true),
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Run with no actions to force the browser process to start now, so
	// launch failures surface here instead of on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser %s: %w", execPath, err)
	}

	return &chromeSession{
		ctx: tabCtx,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
	}, nil
}

type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *chromeSession) Navigate(_ context.Context, url string) error {
	if err := chromedp.Run(s.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// Cookies returns the browser's full cookie jar.
func (s *chromeSession) Cookies(_ context.Context) ([]models.Cookie, error) {
	var out []models.Cookie
	err := chromedp.Run(s.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := network.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		out = make([]models.Cookie, 0, len(cookies))
		for _, c := range cookies {
			cookie := models.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				HTTPOnly: c.HTTPOnly,
				Secure:   c.Secure,
				SameSite: c.SameSite.String(),
			}
			// Expires is seconds since epoch, -1 for session cookies.
			if c.Expires > 0 {
				cookie.Expires = time.Unix(int64(c.Expires), 0)
			}
			out = append(out, cookie)
		}
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read browser cookies: %w", err)
	}
	return out, nil
}

// Close shuts the browser down and releases the DevTools connection.
func (s *chromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	return err
}
