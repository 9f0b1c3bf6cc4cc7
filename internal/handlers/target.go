package handlers

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidTarget is returned for URLs that cannot be shortened.
var ErrInvalidTarget = errors.New("url must be an absolute http or https URL")

// NormalizeTarget validates that rawURL is an absolute http(s) URL and
// returns it in canonical form.
// - Lowercases the scheme and host
// - Removes default ports (80 for http, 443 for https)
func NormalizeTarget(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", ErrInvalidTarget
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidTarget
	}

	if u.Hostname() == "" {
		return "", ErrInvalidTarget
	}

	u.Host = strings.ToLower(u.Host)

	host := u.Host
	if strings.HasSuffix(host, ":80") && u.Scheme == "http" {
		u.Host = strings.TrimSuffix(host, ":80")
	} else if strings.HasSuffix(host, ":443") && u.Scheme == "https" {
		u.Host = strings.TrimSuffix(host, ":443")
	}

	return u.String(), nil
}
