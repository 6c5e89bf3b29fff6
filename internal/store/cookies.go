package store

import (
	"fmt"

	"schoolctl/models"
)

// CookieStore persists the single active cookie set.
type CookieStore interface {
	Save(schoolID, schoolName string, cookies []models.Cookie) error
	Load() (*models.CookieSet, error)
	Clear() error
	MergeRenewed(renewed []models.Cookie) error
}

type RealCookieStore struct {
	*Store
}

func NewCookieStore(s *Store) *RealCookieStore {
	return &RealCookieStore{Store: s}
}

// Save overwrites the persisted cookie set. A save without a school or
// without any cookie is refused so a partial set can never be read back.
func (c *RealCookieStore) Save(schoolID, schoolName string, cookies []models.Cookie) error {
	if schoolID == "" {
		return fmt.Errorf("refusing to save cookies without a school id")
	}
	if len(cookies) == 0 {
		return fmt.Errorf("refusing to save an empty cookie set")
	}
	set := models.CookieSet{
		SchoolID:   schoolID,
		SchoolName: schoolName,
		Cookies:    cookies,
		SavedAt:    c.now(),
	}
	return c.writeRecord(cookiesFile, &set)
}

// Load returns the persisted cookie set, or nil when none exists. A
// structurally incomplete record (no school, no cookies) is treated the
// same as a corrupt one: absent.
func (c *RealCookieStore) Load() (*models.CookieSet, error) {
	var set models.CookieSet
	ok, err := c.readRecord(cookiesFile, &set)
	if err != nil || !ok {
		return nil, err
	}
	if set.SchoolID == "" || len(set.Cookies) == 0 {
		return nil, nil
	}
	return &set, nil
}

func (c *RealCookieStore) Clear() error {
	return c.removeRecord(cookiesFile)
}

// MergeRenewed replaces stored cookies that share a name with a renewed
// one and keeps the rest. The portal refreshes only some cookies on a
// response, so this is a merge, not a wholesale replace. With no stored
// set the renewed cookies are dropped: a set must come from a login.
func (c *RealCookieStore) MergeRenewed(renewed []models.Cookie) error {
	if len(renewed) == 0 {
		return nil
	}
	set, err := c.Load()
	if err != nil {
		return err
	}
	if set == nil {
		return nil
	}

	byName := make(map[string]models.Cookie, len(renewed))
	for _, ck := range renewed {
		byName[ck.Name] = ck
	}
	for i := range set.Cookies {
		if ck, ok := byName[set.Cookies[i].Name]; ok {
			set.Cookies[i] = ck
			delete(byName, ck.Name)
		}
	}
	for _, ck := range renewed {
		if _, pending := byName[ck.Name]; pending {
			set.Cookies = append(set.Cookies, ck)
		}
	}
	set.SavedAt = c.now()
	return c.writeRecord(cookiesFile, set)
}
