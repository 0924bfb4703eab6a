package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yanizio/sitegate/internal/tenant"
)

type stubLookup map[string]bool

func (s stubLookup) Resolve(_ context.Context, host string) (*tenant.Tenant, error) {
	if s[host] {
		return &tenant.Tenant{Host: host}, nil
	}
	return nil, tenant.ErrNotFound
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestForceHTTPS(t *testing.T) {
	h := ForceHTTPS(stubLookup{"shop.example": true}, ok)

	cases := []struct {
		host   string
		proto  string
		status int
	}{
		{"shop.example", "", http.StatusPermanentRedirect},
		{"shop.example:80", "", http.StatusPermanentRedirect},
		{"shop.example", "https", http.StatusOK},
		{"unknown.example", "", http.StatusOK},
		{"localhost:8080", "", http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "http://"+c.host+"/a?b=1", nil)
		req.Host = c.host
		if c.proto != "" {
			req.Header.Set("X-Forwarded-Proto", c.proto)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != c.status {
			t.Errorf("%s (%q): status = %d, want %d", c.host, c.proto, rec.Code, c.status)
		}
		if c.status == http.StatusPermanentRedirect {
			if loc := rec.Header().Get("Location"); loc != "https://"+c.host+"/a?b=1" {
				t.Errorf("Location = %q", loc)
			}
		}
	}
}

func TestSecurity_SetsAndAllowsOverride(t *testing.T) {
	h := Security(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q, want handler override", got)
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("CSP missing")
	}

	hdr := rec.Header().Clone()
	ClearSecurity(hdr)
	if hdr.Get("Strict-Transport-Security") != "" {
		t.Error("ClearSecurity left HSTS")
	}
}
