package router

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/routeway/gateway/internal/api"
	"github.com/routeway/gateway/internal/observe"
)

// Result is the outcome of resolving one request: the definition that
// won and the rewrite computed from it. It lives only for the request
// and is handed to the forwarding layer and downstream middleware.
type Result struct {
	Definition   *api.Definition
	TargetURL    string
	UpstreamHost string
	// MatchedByHost distinguishes a host win from a path win.
	MatchedByHost bool
}

// Resolver sequences cache → host resolution → path resolution →
// rewrite for each request. Host matches take unconditional priority
// over path matches; that ordering encodes routing precedence and is
// not an optimization.
type Resolver struct {
	cache   *Cache
	logger  *slog.Logger
	metrics *observe.Metrics
}

// NewResolver creates a resolver over the given table cache. metrics
// may be nil.
func NewResolver(cache *Cache, logger *slog.Logger, metrics *observe.Metrics) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cache: cache, logger: logger, metrics: metrics}
}

// Execute resolves a request URI and header set to a rewritten upstream
// target. The header must carry the request's Host value (the HTTP
// server moves it off the header map; callers put it back).
//
// Returns *NoMatchError when nothing matched, or the wrapped store
// error when the table could not be loaded.
func (rs *Resolver) Execute(ctx context.Context, uri string, header http.Header) (*Result, error) {
	table, err := rs.cache.Table(ctx)
	if err != nil {
		rs.record("error")
		return nil, err
	}

	hosts := CandidateHosts(header)
	// preserve_host forwards the Host header itself, never an override.
	requestHost := header.Get("Host")

	def := resolveByHost(hosts, table)
	matchedByHost := def != nil

	var matched *regexp.Regexp
	if def == nil {
		def, matched = resolveByPath(uri, table)
	}

	if def == nil {
		rs.record("none")
		return nil, &NoMatchError{TriedHosts: hosts, URI: uri}
	}

	targetURL, upstreamHost, err := rewrite(def, uri, matched, requestHost)
	if err != nil {
		rs.record("error")
		return nil, err
	}

	outcome := "path"
	if matchedByHost {
		outcome = "host"
	}
	rs.record(outcome)
	rs.logger.Debug("request resolved",
		"definition_id", def.ID,
		"outcome", outcome,
		"target_url", targetURL,
	)

	return &Result{
		Definition:    def,
		TargetURL:     targetURL,
		UpstreamHost:  upstreamHost,
		MatchedByHost: matchedByHost,
	}, nil
}

func (rs *Resolver) record(outcome string) {
	if rs.metrics != nil {
		rs.metrics.ResolutionsTotal.WithLabelValues(outcome).Inc()
	}
}

// --- request context plumbing ---

// The result travels through a mutable holder so middleware wrapping
// the proxy handler can read what resolution produced deeper in the
// chain. The holder is seeded once at the edge, filled after
// resolution, and read on the way out.

type resultKey struct{}

type resultHolder struct {
	res *Result
}

// NewResultContext installs an empty result slot in the context. Must
// run before the proxy handler for SetResult to have any effect.
func NewResultContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, resultKey{}, &resultHolder{})
}

// SetResult records the resolution result for this request. A no-op
// when no slot was installed.
func SetResult(ctx context.Context, res *Result) {
	if h, ok := ctx.Value(resultKey{}).(*resultHolder); ok {
		h.res = res
	}
}

// ResultFrom retrieves the resolution result, or nil if absent.
func ResultFrom(ctx context.Context) *Result {
	if h, ok := ctx.Value(resultKey{}).(*resultHolder); ok {
		return h.res
	}
	return nil
}
