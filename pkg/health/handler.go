package health

import (
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// LivenessHandler answers 200 while the process can serve HTTP at all.
// It never touches a store.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		write(w, r, http.StatusOK, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs checks on every request and answers 503 when any
// fails. The plain text body names the failing checks in sorted order.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp, _ := runChecks(r.Context(), checks, cfg)

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		write(w, r, status, resp)
	}
}

func write(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	h := w.Header()
	h.Set("Cache-Control", "no-store")

	if wantsJSON(r) {
		h.Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if r.Method != http.MethodHead {
			_ = json.NewEncoder(w).Encode(resp)
		}
		return
	}

	h.Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if resp.Status == StatusHealthy {
		_, _ = w.Write([]byte("OK"))
		return
	}

	var failed []string
	for _, name := range slices.Sorted(maps.Keys(resp.Checks)) {
		if resp.Checks[name].Status == StatusUnhealthy {
			failed = append(failed, name)
		}
	}
	_, _ = w.Write([]byte("Service Unavailable: " + strings.Join(failed, ", ")))
}

// wantsJSON reports whether the client asked for JSON via ?format=json or Accept.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
