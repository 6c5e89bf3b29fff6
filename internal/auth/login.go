// Package auth drives the interactive browser login against the portal
// and captures the resulting cookie set.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"schoolctl/internal/browser"
	"schoolctl/internal/portal"
	"schoolctl/models"
	"schoolctl/utils/poll"
)

const (
	// PollInterval is how often the browser cookie jar is checked while
	// the user works through the login pages.
	PollInterval = 500 * time.Millisecond

	// DefaultTimeout bounds the whole interactive flow. Five minutes is
	// enough for a password manager lookup and a second factor.
	DefaultTimeout = 5 * time.Minute
)

// ErrAuthTimeout means the user did not complete the login in time.
var ErrAuthTimeout = errors.New("timed out waiting for the login to complete")

// AuthLaunchError reports a browser launch or navigation failure.
type AuthLaunchError struct {
	Reason string
}

func (e *AuthLaunchError) Error() string {
	return "browser login failed: " + e.Reason
}

// AuthResult is the outcome of one login attempt. Exactly one of
// Cookies and Err is set.
type AuthResult struct {
	Cookies []models.Cookie
	Err     error
}

// Options tune one login attempt.
type Options struct {
	BrowserPath string
	Timeout     time.Duration
}

type Authenticator interface {
	Authenticate(ctx context.Context, schoolID string, opts Options) *AuthResult
}

// LoginDriver opens the school's login page in a real browser and polls
// its cookie jar until the portal marks the session as logged in.
type LoginDriver struct {
	Launcher browser.Launcher
	Resolve  func(explicit string) (string, error)
	Interval time.Duration

	mkTemp func(dir, pattern string) (string, error)
	rmAll  func(path string) error
}

func NewLoginDriver(launcher browser.Launcher, resolver *browser.Resolver) *LoginDriver {
	return &LoginDriver{
		Launcher: launcher,
		Resolve:  resolver.Resolve,
		Interval: PollInterval,
		mkTemp:   os.MkdirTemp,
		rmAll:    os.RemoveAll,
	}
}

// Authenticate runs the interactive login for a school. It never
// returns a Go error across its boundary; failures come back inside
// the result so the resource cleanup below always runs. The disposable
// profile directory and the browser are released on every path.
func (d *LoginDriver) Authenticate(ctx context.Context, schoolID string, opts Options) *AuthResult {
	execPath, err := d.Resolve(opts.BrowserPath)
	if err != nil {
		return &AuthResult{Err: err}
	}

	profileDir, err := d.mkTemp("", "schoolctl-login-")
	if err != nil {
		return &AuthResult{Err: &AuthLaunchError{Reason: fmt.Sprintf("could not create a profile directory: %v", err)}}
	}
	defer func() {
		if err := d.rmAll(profileDir); err != nil {
			log.Debug().Err(err).Str("dir", profileDir).Msg("failed to remove login profile directory")
		}
	}()

	sess, err := d.Launcher.Launch(ctx, execPath, profileDir)
	if err != nil {
		return &AuthResult{Err: &AuthLaunchError{Reason: err.Error()}}
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Debug().Err(err).Msg("failed to close login browser")
		}
	}()

	if err := sess.Navigate(ctx, portal.LoginURL(schoolID)); err != nil {
		return &AuthResult{Err: &AuthLaunchError{Reason: err.Error()}}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var captured []models.Cookie
	waiter := poll.New(d.Interval, timeout)
	err = waiter.Until(ctx, func(ctx context.Context) (bool, error) {
		cookies, err := sess.Cookies(ctx)
		if err != nil {
			return false, &AuthLaunchError{Reason: err.Error()}
		}
		if loginComplete(cookies) {
			captured = cookies
			return true, nil
		}
		return false, nil
	})
	if errors.Is(err, poll.ErrDeadline) {
		return &AuthResult{Err: ErrAuthTimeout}
	}
	if err != nil {
		return &AuthResult{Err: err}
	}

	log.Debug().Int("cookies", len(captured)).Str("school", schoolID).Msg("login completed")
	return &AuthResult{Cookies: captured}
}

// loginComplete reports whether the cookie jar carries both markers of
// a finished login. Seeing only one of them means the flow is still in
// progress.
func loginComplete(cookies []models.Cookie) bool {
	var loggedIn, scoped bool
	for _, c := range cookies {
		switch c.Name {
		case portal.LoginSuccessCookie:
			loggedIn = c.Value == portal.LoginSuccessValue
		case portal.SchoolScopeCookie:
			scoped = c.Value != ""
		}
	}
	return loggedIn && scoped
}
