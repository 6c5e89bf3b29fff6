// Package session derives session validity from the persisted cookie
// set. It never touches the network: the governing cookie's expiry is
// the only signal, and the portal remains the authority on whether the
// session actually still works.
package session

import (
	"time"

	"schoolctl/internal/portal"
	"schoolctl/models"
)

type Evaluator struct {
	now func() time.Time
}

func NewEvaluator() *Evaluator {
	return &Evaluator{now: time.Now}
}

// Evaluate computes the verdict for a loaded cookie set. A nil set
// yields an unauthenticated verdict. The set is authenticated when it
// carries the login marker cookie, and valid while that cookie's expiry
// is still in the future.
func (e *Evaluator) Evaluate(set *models.CookieSet) models.Verdict {
	if set == nil {
		return models.Verdict{}
	}

	marker := set.Find(portal.LoginSuccessCookie)
	if marker == nil {
		return models.Verdict{
			LastActivity: set.SavedAt,
			SchoolID:     set.SchoolID,
			SchoolName:   set.SchoolName,
		}
	}

	remaining := marker.Expires.Sub(e.now())
	verdict := models.Verdict{
		Authenticated: true,
		Valid:         remaining > 0,
		LastActivity:  set.SavedAt,
		SchoolID:      set.SchoolID,
		SchoolName:    set.SchoolName,
	}
	if remaining > 0 {
		verdict.ExpiresIn = int64(remaining.Seconds())
	}
	return verdict
}
