package models

// FetchResult is the outcome of one authenticated portal request.
type FetchResult struct {
	Status        int                 `json:"status"`
	FinalURL      string              `json:"finalUrl"`
	Headers       map[string][]string `json:"headers"`
	Body          string              `json:"body"`
	WasRedirected bool                `json:"wasRedirected"`
}
