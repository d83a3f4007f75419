// internal/engine/dynamic/chrome.go
package dynamic

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
)

// pathBrowsers are looked up on PATH after the install locations.
var pathBrowsers = []string{
	"microsoft-edge-stable",
	"microsoft-edge",
	"msedge",
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// FindChrome locates a Chromium-family executable. A configured path wins,
// then CHROME_PATH, then the install locations for this OS, then PATH. An
// empty result leaves the choice to chromedp.
func FindChrome(configured string) string {
	for _, c := range []struct{ path, from string }{
		{configured, "config"},
		{os.Getenv("CHROME_PATH"), "CHROME_PATH"},
	} {
		if c.path == "" {
			continue
		}
		if isExecutable(c.path) {
			log.Debug().Str("path", c.path).Str("from", c.from).Msg("Using browser")
			return c.path
		}
		log.Warn().Str("path", c.path).Str("from", c.from).Msg("Browser path is not executable, ignoring")
	}

	for _, path := range installLocations(runtime.GOOS, os.Getenv) {
		if isExecutable(path) {
			log.Debug().Str("path", path).Msg("Browser found at install location")
			return path
		}
	}

	for _, name := range pathBrowsers {
		if path, err := exec.LookPath(name); err == nil {
			log.Debug().Str("path", path).Msg("Browser found in PATH")
			return path
		}
	}

	log.Warn().Str("os", runtime.GOOS).Msg("No browser found, falling back to chromedp default")
	return ""
}

// installLocations lists where Edge, Chrome and Chromium are usually
// installed on goos, Edge first.
func installLocations(goos string, getenv func(string) string) []string {
	var paths []string
	switch goos {
	case "windows":
		for _, base := range []string{getenv("ProgramFiles(x86)"), getenv("ProgramFiles"), getenv("LocalAppData")} {
			if base == "" {
				continue
			}
			paths = append(paths,
				filepath.Join(base, "Microsoft", "Edge", "Application", "msedge.exe"),
				filepath.Join(base, "Google", "Chrome", "Application", "chrome.exe"),
				filepath.Join(base, "Chromium", "Application", "chrome.exe"),
			)
		}

	case "darwin":
		apps := []string{
			"Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			"Google Chrome.app/Contents/MacOS/Google Chrome",
			"Chromium.app/Contents/MacOS/Chromium",
		}
		roots := []string{"/Applications"}
		if home := getenv("HOME"); home != "" {
			roots = append(roots, filepath.Join(home, "Applications"))
		}
		for _, root := range roots {
			for _, app := range apps {
				paths = append(paths, filepath.Join(root, app))
			}
		}

	default:
		paths = []string{
			"/usr/bin/microsoft-edge-stable",
			"/usr/bin/microsoft-edge",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
		if home := getenv("HOME"); home != "" {
			paths = append(paths,
				filepath.Join(home, ".local/share/flatpak/exports/bin/com.microsoft.Edge"),
				filepath.Join(home, ".local/share/flatpak/exports/bin/com.google.Chrome"),
				filepath.Join(home, ".local/share/flatpak/exports/bin/org.chromium.Chromium"),
			)
		}
	}
	return paths
}

// isExecutable reports whether path is a regular file that can be run.
// Windows has no execute bit, so any file counts there.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return runtime.GOOS == "windows" || info.Mode()&0111 != 0
}

// BrowserVersion returns the output of "<path> --version", or "" when it
// cannot be determined.
func BrowserVersion(path string) string {
	if path == "" || runtime.GOOS == "windows" {
		return ""
	}
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
