package browser

import (
	"errors"
	"os"
	"testing"

	"github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/assert"
)

func failingStat(string) (os.FileInfo, error) {
	return nil, os.ErrNotExist
}

func noProcesses() ([]*process.Process, error) {
	return nil, errors.New("process table unavailable")
}

func TestResolveExplicitPath(t *testing.T) {
	resolver := &Resolver{
		stat: func(path string) (os.FileInfo, error) {
			if path == "/opt/chrome" {
				return nil, nil
			}
			return nil, os.ErrNotExist
		},
	}

	path, err := resolver.Resolve("/opt/chrome")
	assert.NoError(t, err)
	assert.Equal(t, "/opt/chrome", path)
}

func TestResolveExplicitPathMissing(t *testing.T) {
	resolver := &Resolver{stat: failingStat}

	_, err := resolver.Resolve("/nonexistent/chrome")
	assert.ErrorIs(t, err, ErrBrowserNotFound)
}

func TestResolveInstallLocation(t *testing.T) {
	known := installLocations()[0]
	resolver := &Resolver{
		stat: func(path string) (os.FileInfo, error) {
			if path == known {
				return nil, nil
			}
			return nil, os.ErrNotExist
		},
		lookPath:  func(string) (string, error) { return "", errors.New("not found") },
		processes: noProcesses,
	}

	path, err := resolver.Resolve("")
	assert.NoError(t, err)
	assert.Equal(t, known, path)
}

func TestResolveFallsBackToPathLookup(t *testing.T) {
	resolver := &Resolver{
		stat: failingStat,
		lookPath: func(name string) (string, error) {
			if name == "chromium" {
				return "/usr/local/bin/chromium", nil
			}
			return "", errors.New("not found")
		},
		processes: noProcesses,
	}

	path, err := resolver.Resolve("")
	assert.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/chromium", path)
}

func TestResolveNothingFound(t *testing.T) {
	resolver := &Resolver{
		stat:      failingStat,
		lookPath:  func(string) (string, error) { return "", errors.New("not found") },
		processes: noProcesses,
	}

	_, err := resolver.Resolve("")
	assert.ErrorIs(t, err, ErrBrowserNotFound)
}
