package router

import (
	"net/http"
	"strings"

	"github.com/routeway/gateway/internal/api"
)

// HostOverrideHeader lets clients route by a hostname other than the
// one they connected with. All of its values are tried after the Host
// header's.
const HostOverrideHeader = "X-Host-Override"

// CandidateHosts gathers every host value a request offers for
// host-based routing: the Host header values first, then the override
// header values, each in header order. Header shapes are normalized
// into one flat ordered list here so resolution never branches on them.
func CandidateHosts(header http.Header) []string {
	hosts := append([]string(nil), header.Values("Host")...)
	return append(hosts, header.Values(HostOverrideHeader)...)
}

// resolveByHost tries each candidate host in order against the exact
// map, then the wildcard list. The first candidate to hit anything
// wins; a candidate that misses both lookups does not stop the ones
// after it.
func resolveByHost(hosts []string, t *Table) *api.Definition {
	for _, h := range hosts {
		h = stripPort(h)

		if def, ok := t.byHost[h]; ok {
			return def
		}
		for _, wp := range t.wildcardHosts {
			if wp.pattern.MatchString(h) {
				return wp.def
			}
		}
	}
	return nil
}

// stripPort drops a trailing :port. Host comparison is hostname-only.
func stripPort(host string) string {
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		return host[:i]
	}
	return host
}
