// Package portal holds the fixed facts about the remote SchoolSoft
// portal: its base URL, the shape of school-scoped routes, and the
// cookie names that signal a completed login.
package portal

import (
	"net/url"
	"strings"
)

const (
	// BaseURL is the portal root; the school directory lives here.
	BaseURL = "https://sms.schoolsoft.se/"

	// LoginSuccessCookie is set to LoginSuccessValue once the user has
	// completed the portal login flow, including any second factor.
	LoginSuccessCookie = "isloggedin3"
	LoginSuccessValue  = "Y"

	// SchoolScopeCookie carries the school the session is bound to.
	// Login is only complete when it appears together with
	// LoginSuccessCookie.
	SchoolScopeCookie = "BaseSchoolUrl"

	// UserAgent mirrors a desktop Chrome. The portal serves reduced or
	// broken pages to clients it does not recognize.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// LoginURL returns the login page for a school.
func LoginURL(schoolID string) string {
	return BaseURL + schoolID + "/jsp/Login.jsp"
}

// SchoolURL builds an absolute URL for a path under a school's route.
// Absolute inputs pass through unchanged. A relative path that already
// embeds the school route is not prefixed twice.
func SchoolURL(base, schoolID, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	path = strings.TrimLeft(path, "/")
	if strings.HasPrefix(path, schoolID+"/") {
		return base + path
	}
	return base + schoolID + "/" + path
}

// IsLoginPage reports whether a URL is the portal login page. The
// request client uses this as its default session-expiry predicate:
// the portal answers requests from downgraded sessions by redirecting
// to the login page. That is observed behavior, not a documented
// contract, which is why the predicate is replaceable.
func IsLoginPage(u *url.URL) bool {
	if u == nil {
		return false
	}
	return strings.HasSuffix(u.Path, "/jsp/Login.jsp")
}
