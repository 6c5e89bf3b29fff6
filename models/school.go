package models

import "time"

// School represents one school in the portal directory.
type School struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// SchoolsCache is the persisted snapshot of the full school directory.
type SchoolsCache struct {
	Schools   []School  `json:"schools" yaml:"schools"`
	FetchedAt time.Time `json:"fetchedAt" yaml:"fetchedAt"`
}
