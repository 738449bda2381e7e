package router

import (
	"regexp"
	"strings"

	"github.com/routeway/gateway/internal/api"
)

// normalizeURI guarantees a trailing separator so prefix patterns can
// demand one. Without it, path /mockbin would textually match the URI
// /mockbin-extra/x mid-segment.
func normalizeURI(uri string) string {
	if !strings.HasSuffix(uri, "/") {
		return uri + "/"
	}
	return uri
}

// resolveByPath scans the ordered path list and returns the first
// definition whose segment-safe prefix pattern matches the normalized
// URI, along with that pattern. The pattern is handed back so the
// rewriter can strip the exact prefix that matched.
func resolveByPath(uri string, t *Table) (*api.Definition, *regexp.Regexp) {
	normalized := normalizeURI(uri)
	for _, pe := range t.byPath {
		if pe.pattern.MatchString(normalized) {
			return pe.def, pe.pattern
		}
	}
	return nil, nil
}
