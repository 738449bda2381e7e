// Package router builds the routing table from API definitions and
// resolves inbound requests against it: exact host, then wildcard host,
// then path prefix. The winning definition determines the upstream URL
// and outbound Host header.
package router

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/routeway/gateway/internal/api"
)

// hostPattern is a compiled wildcard host bound to its definition.
type hostPattern struct {
	pattern *regexp.Regexp
	def     *api.Definition
}

// pathEntry is a definition routed by path, with its precompiled
// segment-safe prefix pattern.
type pathEntry struct {
	pattern *regexp.Regexp
	def     *api.Definition
}

// Table is an immutable lookup structure built from the full definition
// list. Resolution never mutates it; the cache swaps whole tables.
//
// Exact-host collisions resolve last-write-wins during construction.
// Duplicate exact hosts are a configuration error; don't rely on the
// ordering.
type Table struct {
	byHost        map[string]*api.Definition
	wildcardHosts []hostPattern
	byPath        []pathEntry
}

// Build constructs a Table from definitions. Pure, no I/O.
//
// A definition whose wildcard host fails to compile is skipped from
// wildcard matching only; if it also has a path it still participates
// in path routing. Input order is preserved in wildcardHosts and
// byPath, which fixes tie-break precedence: first match wins.
//
// The table references entries of defs; callers hand over ownership of
// the slice.
func Build(defs []api.Definition, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}

	t := &Table{byHost: make(map[string]*api.Definition)}

	for i := range defs {
		def := &defs[i]

		if def.PublicHost != "" {
			if def.WildcardHost() {
				pattern, err := compileWildcardHost(def.PublicHost)
				if err != nil {
					logger.Warn("skipping malformed wildcard host",
						"definition_id", def.ID,
						"public_host", def.PublicHost,
						"error", err,
					)
				} else {
					t.wildcardHosts = append(t.wildcardHosts, hostPattern{pattern, def})
				}
			} else {
				t.byHost[def.PublicHost] = def
			}
		}

		if def.Path != "" {
			t.byPath = append(t.byPath, pathEntry{compilePathPrefix(def.Path), def})
		}
	}

	return t
}

// Size returns the number of routable entries across all three indexes.
func (t *Table) Size() int {
	return len(t.byHost) + len(t.wildcardHosts) + len(t.byPath)
}

// compileWildcardHost turns a glob host like "*.example.com" into an
// anchored pattern: literal dots are escaped and each "*" matches one
// or more characters, so "*.example.com" becomes ^.+\.example\.com$.
// "example.com" without a subdomain does not match.
func compileWildcardHost(host string) (*regexp.Regexp, error) {
	expr := strings.ReplaceAll(host, ".", `\.`)
	expr = strings.ReplaceAll(expr, "*", ".+")
	return regexp.Compile("^" + expr + "$")
}

// compilePathPrefix builds the segment-safe prefix pattern for a
// definition path. The pattern requires the prefix to be immediately
// followed by a separator in the (normalized, trailing-slash) URI, so
// path /mockbin matches /mockbin/x but never /mockbin-extra/x.
func compilePathPrefix(path string) *regexp.Regexp {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		// Catch-all root path.
		return regexp.MustCompile("^/")
	}
	return regexp.MustCompile("^" + regexp.QuoteMeta(trimmed) + "/")
}
