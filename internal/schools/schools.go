// Package schools fetches and caches the portal's school directory.
package schools

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"schoolctl/internal/portal"
	"schoolctl/internal/store"
	"schoolctl/models"
)

// DirectoryFetchError reports a non-success response from the portal's
// directory page.
type DirectoryFetchError struct {
	Status int
}

func (e *DirectoryFetchError) Error() string {
	return fmt.Sprintf("school directory request failed with status %d", e.Status)
}

type Directory interface {
	Fetch(ctx context.Context, forceRefresh bool) ([]models.School, error)
}

type RealDirectory struct {
	HTTP  *http.Client
	Cache store.CacheStore

	// URL is the directory page; overridden in tests.
	URL string
}

func NewDirectory(httpClient *http.Client, cache store.CacheStore) *RealDirectory {
	return &RealDirectory{HTTP: httpClient, Cache: cache, URL: portal.BaseURL}
}

// loginAnchor matches the directory page's school links. The page is a
// flat list of anchors pointing at each school's login page; the markup
// shape is fixed by the portal, so a narrow pattern beats a full HTML
// parser here.
var loginAnchor = regexp.MustCompile(`<a[^>]+href="(https?://[^"]+?/([A-Za-z0-9_.-]+)/jsp/Login\.jsp[^"]*)"[^>]*>([^<]+)</a>`)

// showAllEntry matches the portal's "show all schools" pseudo-entry,
// which links like a school but is not one.
var showAllEntry = regexp.MustCompile(`(?i)visa alla|show all`)

// Fetch returns the school list. Without forceRefresh a fresh cache
// snapshot is served with no network call; otherwise the directory page
// is fetched, parsed, and the cache replaced wholesale. A fetch failure
// is a hard error, never papered over with stale data.
func (d *RealDirectory) Fetch(ctx context.Context, forceRefresh bool) ([]models.School, error) {
	if !forceRefresh {
		cache, err := d.Cache.Load()
		if err != nil {
			return nil, err
		}
		if cache != nil {
			log.Debug().Int("schools", len(cache.Schools)).Time("fetchedAt", cache.FetchedAt).Msg("serving school directory from cache")
			return cache.Schools, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}
	req.Header.Set("User-Agent", portal.UserAgent)

	resp, err := d.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch school directory: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing directory response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &DirectoryFetchError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory response: %w", err)
	}

	schoolList := parseDirectory(string(body))
	if len(schoolList) == 0 {
		return nil, fmt.Errorf("no schools found on the directory page")
	}

	if err := d.Cache.Save(schoolList); err != nil {
		return nil, fmt.Errorf("failed to cache school directory: %w", err)
	}
	log.Debug().Int("schools", len(schoolList)).Msg("school directory refreshed")
	return schoolList, nil
}

func parseDirectory(page string) []models.School {
	matches := loginAnchor.FindAllStringSubmatch(page, -1)
	schoolList := make([]models.School, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		url, id, name := m[1], m[2], html.UnescapeString(strings.TrimSpace(m[3]))
		if seen[id] || showAllEntry.MatchString(name) {
			continue
		}
		seen[id] = true
		schoolList = append(schoolList, models.School{ID: id, Name: name, URL: url})
	}
	return schoolList
}

// FindByID returns the school with the given id, or nil.
func FindByID(schoolList []models.School, id string) *models.School {
	for i := range schoolList {
		if schoolList[i].ID == id {
			return &schoolList[i]
		}
	}
	return nil
}
