// Package api defines the routable API definition record and the
// definition sources the routing table is built from.
package api

import (
	"context"
	"strings"
)

// Definition describes one routable upstream: how requests are matched
// to it (host and/or path) and how they are rewritten before forwarding.
type Definition struct {
	// ID uniquely identifies the definition. Opaque to the router.
	ID string `yaml:"id"`

	// PublicHost is the hostname clients use to reach this upstream.
	// It may contain a single "*" segment matching one or more
	// characters, e.g. "*.example.com". Optional.
	PublicHost string `yaml:"public_host,omitempty"`

	// Path is a URL path prefix used for path-based routing. Optional.
	Path string `yaml:"path,omitempty"`

	// TargetURL is the upstream base URL requests are forwarded to.
	TargetURL string `yaml:"target_url"`

	// StripPath removes the matched path prefix from the forwarded URI.
	// Only applies when the definition was matched by path.
	StripPath bool `yaml:"strip_path,omitempty"`

	// PreserveHost forwards the inbound Host header verbatim instead of
	// deriving one from TargetURL.
	PreserveHost bool `yaml:"preserve_host,omitempty"`
}

// Routable reports whether the definition has at least one match
// criterion. A definition with neither host nor path can never be
// selected and is rejected at load time.
func (d Definition) Routable() bool {
	return d.PublicHost != "" || d.Path != ""
}

// WildcardHost reports whether PublicHost contains a glob segment.
func (d Definition) WildcardHost() bool {
	return strings.Contains(d.PublicHost, "*")
}

// Store supplies the full current list of API definitions. Every call
// returns a complete snapshot; there is no pagination or delta protocol.
type Store interface {
	ListAll(ctx context.Context) ([]Definition, error)
}

// StaticStore is a Store backed by a fixed in-memory list. Useful for
// tests and embedded configurations.
type StaticStore struct {
	Definitions []Definition
}

// ListAll returns a copy of the static definition list.
func (s *StaticStore) ListAll(ctx context.Context) ([]Definition, error) {
	out := make([]Definition, len(s.Definitions))
	copy(out, s.Definitions)
	return out, nil
}
