package urlutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/bestball/adp/pkg/models"
)

var sourceNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateURL checks that urlStr is an absolute http(s) URL
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// ParseSource parses a "name=url" source flag. A bare URL takes its name
// from the last path segment, so ".../adp/underdog" becomes "underdog".
func ParseSource(value string) (models.Source, error) {
	name, rawURL, hasName := strings.Cut(value, "=")
	if !hasName || strings.Contains(name, "://") {
		name, rawURL = "", value
	}
	name = strings.TrimSpace(name)
	rawURL = strings.TrimSpace(rawURL)

	if err := ValidateURL(rawURL); err != nil {
		return models.Source{}, err
	}
	if name == "" {
		name = lastSegment(rawURL)
	}
	if !sourceNamePattern.MatchString(name) {
		return models.Source{}, fmt.Errorf("invalid source name %q: use letters, digits, '-' or '_'", name)
	}
	return models.Source{Name: name, URL: rawURL}, nil
}

func lastSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	return parts[len(parts)-1]
}
