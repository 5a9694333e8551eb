package gofile

import (
	"fmt"
	"net/url"
	"strings"
)

// ContentCodeFromURL extracts the share code from a content link of the form
// https://gofile.io/d/{code}.
func ContentCodeFromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidContentURL, err)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 1 || segments[0] == "" {
		return "", fmt.Errorf("%w: %q has no path segments, want /d/{code}", ErrInvalidContentURL, rawURL)
	}
	if segments[0] != "d" {
		return "", fmt.Errorf("%w: first path segment of %q must be \"d\"", ErrInvalidContentURL, rawURL)
	}
	if len(segments) < 2 || segments[1] == "" {
		return "", fmt.Errorf("%w: %q is missing the code segment", ErrInvalidContentURL, rawURL)
	}
	return segments[1], nil
}
