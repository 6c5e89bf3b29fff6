package models

import "time"

// Verdict is the derived view of the persisted session. It is computed
// on demand and never stored.
type Verdict struct {
	Authenticated bool      `json:"authenticated"`
	Valid         bool      `json:"valid"`
	ExpiresIn     int64     `json:"expiresIn"`
	LastActivity  time.Time `json:"lastActivity"`
	SchoolID      string    `json:"schoolId,omitempty"`
	SchoolName    string    `json:"schoolName,omitempty"`
}
