package models

import "time"

// Cookie is one opaque session credential captured from the browser.
type Cookie struct {
	Name     string    `json:"name" yaml:"name"`
	Value    string    `json:"value" yaml:"value"`
	Domain   string    `json:"domain" yaml:"domain"`
	Path     string    `json:"path" yaml:"path"`
	Expires  time.Time `json:"expires" yaml:"expires"`
	HTTPOnly bool      `json:"httpOnly" yaml:"httpOnly"`
	Secure   bool      `json:"secure" yaml:"secure"`
	SameSite string    `json:"sameSite,omitempty" yaml:"sameSite,omitempty"`
}

// CookieSet is the persisted outcome of a successful login: the owning
// school plus every cookie the portal issued for it.
type CookieSet struct {
	SchoolID   string    `json:"schoolId" yaml:"schoolId"`
	SchoolName string    `json:"schoolName" yaml:"schoolName"`
	Cookies    []Cookie  `json:"cookies" yaml:"cookies"`
	SavedAt    time.Time `json:"savedAt" yaml:"savedAt"`
}

// Find returns the cookie with the given name, or nil.
func (s *CookieSet) Find(name string) *Cookie {
	for i := range s.Cookies {
		if s.Cookies[i].Name == name {
			return &s.Cookies[i]
		}
	}
	return nil
}
