package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/routeway/gateway/internal/api"
)

// rewrite computes the upstream target URL and the outbound Host header
// for a resolved definition. matched is the path-prefix pattern that
// selected the definition, or nil when it was selected by host.
func rewrite(def *api.Definition, uri string, matched *regexp.Regexp, requestHost string) (targetURL, outboundHost string, err error) {
	if def.StripPath && matched != nil {
		uri = stripPrefix(uri, matched)
	}

	// Avoid a doubled separator: the URI always starts with one.
	base := strings.TrimSuffix(def.TargetURL, "/")
	targetURL = base + uri

	if def.PreserveHost {
		return targetURL, requestHost, nil
	}

	outboundHost, err = upstreamHost(def.TargetURL)
	if err != nil {
		return "", "", fmt.Errorf("target url of %s: %w", def.ID, err)
	}
	return targetURL, outboundHost, nil
}

// stripPrefix removes the matched path prefix from the URI. The
// patterns demand a trailing separator, so a URI equal to the bare
// prefix only matches after normalization; the result is re-rooted
// with a leading separator when stripping consumed it.
func stripPrefix(uri string, matched *regexp.Regexp) string {
	stripped := matched.ReplaceAllString(uri, "")
	if stripped == uri {
		stripped = matched.ReplaceAllString(normalizeURI(uri), "")
	}
	if !strings.HasPrefix(stripped, "/") {
		stripped = "/" + stripped
	}
	return stripped
}

// upstreamHost derives the outbound Host header from the target URL.
// An explicit port is kept; with no explicit port, https defaults to
// 443 while http gets no port at all. The asymmetry is a long-standing
// contract, kept as-is.
func upstreamHost(targetURL string) (string, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return "", err
	}

	port := u.Port()
	if port == "" && u.Scheme == "https" {
		port = "443"
	}

	if port == "" {
		return u.Hostname(), nil
	}
	return u.Hostname() + ":" + port, nil
}
