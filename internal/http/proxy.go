package http

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/contextutil"
)

// NewProxy relays requests under chroma.ProxyPrefix to upstream with the
// prefix stripped. Browser origin headers are dropped so the upstream
// sees a same-origin request.
func NewProxy(upstream *url.URL) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.Out.URL.Path = joinPath(upstream.Path, strings.TrimPrefix(pr.In.URL.Path, chroma.ProxyPrefix))
			pr.Out.URL.RawPath = ""
			pr.Out.Header.Del("Origin")
			pr.Out.Header.Del("Referer")
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			ctx := r.Context()
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "proxy request failed",
				"upstream", upstream.Host, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "upstream unreachable: " + err.Error()})
		},
	}
}

func joinPath(base, path string) string {
	if path == "" {
		path = "/"
	}
	return strings.TrimRight(base, "/") + path
}
