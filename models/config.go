package models

// SchoolRef identifies the last-used school.
type SchoolRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Config is the persisted CLI configuration record.
type Config struct {
	School      *SchoolRef `json:"school,omitempty" yaml:"school,omitempty"`
	BrowserPath string     `json:"browserPath,omitempty" yaml:"browserPath,omitempty"`
	OutputDir   string     `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
}
