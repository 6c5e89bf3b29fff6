package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolctl/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewWithFs(afero.NewMemMapFs(), "/state")
}

func testCookies(expires time.Time) []models.Cookie {
	return []models.Cookie{
		{Name: "isloggedin3", Value: "Y", Domain: "sms.schoolsoft.se", Path: "/", Expires: expires, HTTPOnly: true, Secure: true},
		{Name: "BaseSchoolUrl", Value: "exampleschool", Domain: "sms.schoolsoft.se", Path: "/"},
		{Name: "JSESSIONID", Value: "abc123", Domain: "sms.schoolsoft.se", Path: "/exampleschool"},
	}
}

func TestCookieStoreRoundTrip(t *testing.T) {
	cookieStore := NewCookieStore(newTestStore(t))
	expires := time.Now().Add(time.Hour).Truncate(time.Second)

	require.NoError(t, cookieStore.Save("exampleschool", "Example School", testCookies(expires)))

	set, err := cookieStore.Load()
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, "exampleschool", set.SchoolID)
	assert.Equal(t, "Example School", set.SchoolName)
	assert.Len(t, set.Cookies, 3)
	assert.False(t, set.SavedAt.IsZero())

	marker := set.Find("isloggedin3")
	require.NotNil(t, marker)
	assert.Equal(t, "Y", marker.Value)
	assert.True(t, marker.Expires.Equal(expires))
}

func TestCookieStoreLoadAbsent(t *testing.T) {
	cookieStore := NewCookieStore(newTestStore(t))

	set, err := cookieStore.Load()
	assert.NoError(t, err)
	assert.Nil(t, set)
}

func TestCookieStoreLoadCorrupt(t *testing.T) {
	base := newTestStore(t)
	require.NoError(t, afero.WriteFile(base.Fs, filepath.Join(base.Dir, cookiesFile), []byte("{not json"), 0o600))

	set, err := NewCookieStore(base).Load()
	assert.NoError(t, err, "corruption must be treated as absence, not surfaced")
	assert.Nil(t, set)
}

func TestCookieStoreLoadIncompleteSet(t *testing.T) {
	base := newTestStore(t)
	require.NoError(t, afero.WriteFile(base.Fs, filepath.Join(base.Dir, cookiesFile),
		[]byte(`{"schoolId":"","cookies":[{"name":"isloggedin3","value":"Y"}]}`), 0o600))

	set, err := NewCookieStore(base).Load()
	assert.NoError(t, err)
	assert.Nil(t, set, "a set without its school identity is not servable")
}

func TestCookieStoreSaveRejectsPartialSets(t *testing.T) {
	cookieStore := NewCookieStore(newTestStore(t))

	assert.Error(t, cookieStore.Save("", "Example School", testCookies(time.Now())))
	assert.Error(t, cookieStore.Save("exampleschool", "Example School", nil))
}

func TestCookieStoreClearIsIdempotent(t *testing.T) {
	cookieStore := NewCookieStore(newTestStore(t))

	require.NoError(t, cookieStore.Clear())
	require.NoError(t, cookieStore.Save("exampleschool", "Example School", testCookies(time.Now().Add(time.Hour))))
	require.NoError(t, cookieStore.Clear())
	require.NoError(t, cookieStore.Clear())

	set, err := cookieStore.Load()
	assert.NoError(t, err)
	assert.Nil(t, set)
}

func TestCookieStoreMergeRenewed(t *testing.T) {
	cookieStore := NewCookieStore(newTestStore(t))
	expires := time.Now().Add(time.Hour)
	require.NoError(t, cookieStore.Save("exampleschool", "Example School", testCookies(expires)))

	newExpires := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	require.NoError(t, cookieStore.MergeRenewed([]models.Cookie{
		{Name: "JSESSIONID", Value: "renewed", Domain: "sms.schoolsoft.se", Path: "/exampleschool"},
		{Name: "isloggedin3", Value: "Y", Expires: newExpires},
		{Name: "brandnew", Value: "x"},
	}))

	set, err := cookieStore.Load()
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Len(t, set.Cookies, 4)
	assert.Equal(t, "renewed", set.Find("JSESSIONID").Value)
	assert.True(t, set.Find("isloggedin3").Expires.Equal(newExpires))
	assert.Equal(t, "exampleschool", set.Find("BaseSchoolUrl").Value, "unmentioned cookies survive the merge")
	assert.NotNil(t, set.Find("brandnew"))
}

func TestCookieStoreMergeRenewedWithoutStoredSet(t *testing.T) {
	cookieStore := NewCookieStore(newTestStore(t))

	require.NoError(t, cookieStore.MergeRenewed([]models.Cookie{{Name: "JSESSIONID", Value: "x"}}))

	set, err := cookieStore.Load()
	assert.NoError(t, err)
	assert.Nil(t, set, "renewed cookies alone cannot create a session")
}

func TestCacheStoreFreshness(t *testing.T) {
	tests := []struct {
		name       string
		age        time.Duration
		wantServed bool
	}{
		{name: "fresh entry is served", age: time.Hour, wantServed: true},
		{name: "six day old entry is served", age: 6 * 24 * time.Hour, wantServed: true},
		{name: "eight day old entry is absent", age: 8 * 24 * time.Hour, wantServed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := newTestStore(t)
			cacheStore := NewCacheStore(base)
			require.NoError(t, cacheStore.Save([]models.School{{ID: "exampleschool", Name: "Example School"}}))

			base.now = func() time.Time { return time.Now().Add(tt.age) }

			cache, err := cacheStore.Load()
			require.NoError(t, err)
			if tt.wantServed {
				require.NotNil(t, cache)
				assert.Len(t, cache.Schools, 1)
			} else {
				assert.Nil(t, cache)
			}
		})
	}
}

func TestCacheStoreClear(t *testing.T) {
	cacheStore := NewCacheStore(newTestStore(t))
	require.NoError(t, cacheStore.Save([]models.School{{ID: "a", Name: "A"}}))
	require.NoError(t, cacheStore.Clear())

	cache, err := cacheStore.Load()
	assert.NoError(t, err)
	assert.Nil(t, cache)
}

func TestConfigStoreRoundTrip(t *testing.T) {
	configStore := NewConfigStore(newTestStore(t))

	cfg, err := configStore.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.School)

	cfg.School = &models.SchoolRef{ID: "exampleschool", Name: "Example School"}
	cfg.BrowserPath = "/usr/bin/chromium"
	require.NoError(t, configStore.Save(cfg))

	loaded, err := configStore.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.School)
	assert.Equal(t, "exampleschool", loaded.School.ID)
	assert.Equal(t, "/usr/bin/chromium", loaded.BrowserPath)
}

func TestConfigStoreReadsYAML(t *testing.T) {
	base := newTestStore(t)
	yaml := "school:\n  id: exampleschool\n  name: Example School\nbrowserPath: /opt/chrome\n"
	require.NoError(t, afero.WriteFile(base.Fs, filepath.Join(base.Dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := NewConfigStore(base).Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.School)
	assert.Equal(t, "exampleschool", cfg.School.ID)
	assert.Equal(t, "/opt/chrome", cfg.BrowserPath)
}

func TestWriteRecordLeavesNoTempFile(t *testing.T) {
	base := newTestStore(t)
	require.NoError(t, base.writeRecord(cookiesFile, map[string]string{"a": "b"}))

	exists, err := afero.Exists(base.Fs, filepath.Join(base.Dir, cookiesFile+".tmp"))
	require.NoError(t, err)
	assert.False(t, exists)
}
