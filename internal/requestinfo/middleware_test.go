package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEnrich_AttachesInfo(t *testing.T) {
	var got *RequestInfo
	h := Enrich(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/offer-a", nil)
	req.Header.Set("User-Agent", "Twitterbot/1.0")
	req.Header.Set("Accept-Language", "fr-CA,fr;q=0.9,en;q=0.5")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("RequestInfo not attached")
	}
	if !got.UA.IsBot {
		t.Error("Twitterbot not flagged as bot")
	}
	if got.PrimaryLang != "fr-ca" {
		t.Errorf("PrimaryLang = %q, want fr-ca", got.PrimaryLang)
	}
	if got.Geo.IP.String() != "203.0.113.9" {
		t.Errorf("IP = %v, want 203.0.113.9", got.Geo.IP)
	}
}

func TestClientIP_FallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:5555"
	if ip := clientIP(req); ip.String() != "198.51.100.7" {
		t.Fatalf("clientIP = %v", ip)
	}
}

func TestPrimaryLang(t *testing.T) {
	for in, want := range map[string]string{"": "", "*": "", "EN;q=0.8": "en", "de-DE, en": "de-de"} {
		if got := primaryLang(in); got != want {
			t.Errorf("primaryLang(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInitGeo_EmptyPathIsNoop(t *testing.T) {
	if err := InitGeo(""); err != nil {
		t.Fatalf("InitGeo(\"\") = %v", err)
	}
	if err := InitGeo("/nonexistent/GeoLite2-City.mmdb"); err == nil {
		t.Fatal("InitGeo with a missing file returned nil")
	}
}
