// Package proxy forwards resolved requests to their upstream and
// writes the gateway's client-visible failure surface.
package proxy

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/routeway/gateway/internal/router"
)

// hopByHop headers are connection-scoped and never forwarded.
var hopByHop = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailers":            true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

// Handler resolves each request against the routing table and forwards
// it to the rewritten upstream target.
type Handler struct {
	resolver *router.Resolver
	client   *http.Client
	logger   *slog.Logger
}

// NewHandler creates a forwarding handler over the given resolver.
func NewHandler(resolver *router.Resolver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		resolver: resolver,
		logger:   logger,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Redirects belong to the client, not the gateway.
				return http.ErrUseLastResponse
			},
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The server moves the Host header onto r.Host; the resolver wants
	// it back in the header set alongside any override values.
	header := r.Header.Clone()
	header.Set("Host", r.Host)

	res, err := h.resolver.Execute(r.Context(), r.URL.Path, header)
	if err != nil {
		var noMatch *router.NoMatchError
		if errors.As(err, &noMatch) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"message":     "API not found with these values",
				"tried_hosts": noMatch.TriedHosts,
				"path":        noMatch.URI,
			})
			return
		}
		h.logger.Error("resolution failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"message": err.Error(),
		})
		return
	}

	// Downstream middleware reads the matched definition from context.
	router.SetResult(r.Context(), res)

	target := res.TargetURL
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	upstream, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		h.logger.Error("building upstream request", "target", target, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"message": err.Error(),
		})
		return
	}

	for key, values := range r.Header {
		if hopByHop[key] {
			continue
		}
		for _, v := range values {
			upstream.Header.Add(key, v)
		}
	}
	upstream.Host = res.UpstreamHost

	resp, err := h.client.Do(upstream)
	if err != nil {
		h.logger.Warn("upstream unreachable",
			"definition_id", res.Definition.ID,
			"target", target,
			"error", err,
		)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"message": "upstream unreachable",
		})
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if hopByHop[key] {
			continue
		}
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
