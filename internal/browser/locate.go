package browser

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/process"
)

// ErrBrowserNotFound means no controllable browser could be located.
var ErrBrowserNotFound = errors.New("no Chrome or Chromium found; install one or point to it with `schoolctl config --set-browser`")

var executableNames = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"brave-browser",
	"msedge",
}

// Resolver locates a controllable browser executable.
type Resolver struct {
	lookPath  func(string) (string, error)
	stat      func(string) (os.FileInfo, error)
	processes func() ([]*process.Process, error)
}

func NewResolver() *Resolver {
	return &Resolver{
		lookPath:  exec.LookPath,
		stat:      os.Stat,
		processes: process.Processes,
	}
}

// Resolve returns the browser executable to launch. An explicit path
// wins; otherwise the known install locations for the current OS are
// checked, then PATH, then the process table (a running browser tells
// us where its binary lives).
func (r *Resolver) Resolve(explicit string) (string, error) {
	if explicit != "" {
		if _, err := r.stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %v", ErrBrowserNotFound, err)
		}
		return explicit, nil
	}

	for _, path := range installLocations() {
		if _, err := r.stat(path); err == nil {
			return path, nil
		}
	}

	for _, name := range executableNames {
		if path, err := r.lookPath(name); err == nil {
			return path, nil
		}
	}

	if path := r.fromRunningProcess(); path != "" {
		log.Debug().Str("path", path).Msg("resolved browser from a running process")
		return path, nil
	}

	return "", ErrBrowserNotFound
}

// fromRunningProcess scans the process table for a known browser and
// returns its executable path.
func (r *Resolver) fromRunningProcess() string {
	procs, err := r.processes()
	if err != nil {
		return ""
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		name = strings.TrimSuffix(strings.ToLower(name), ".exe")
		for _, known := range executableNames {
			if name == known {
				if exe, err := p.Exe(); err == nil && exe != "" {
					return exe
				}
			}
		}
	}
	return ""
}

func installLocations() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
		}
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	}
}
