package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /HEALTHZ ", want: false},
		{path: "/readyz", want: false},
		{path: "/metrics", want: false},
		{path: "/", want: true},
		{path: "/v1/formations", want: true},
		{path: "/v1/matches/1/bench", want: true},
	}
	for _, tt := range tests {
		if got := shouldTraceRequest(tt.path); got != tt.want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
		}
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantVary    string
		wantMethods string
	}{
		{
			name:        "configured origin is echoed",
			allowed:     []string{" https://coach.footics.test ", ""},
			method:      http.MethodGet,
			origin:      "https://coach.footics.test",
			wantStatus:  http.StatusTeapot,
			wantOrigin:  "https://coach.footics.test",
			wantVary:    "Origin",
			wantMethods: "GET,POST,PUT,DELETE,OPTIONS",
		},
		{
			name:        "wildcard preflight short-circuits",
			allowed:     []string{"*"},
			method:      http.MethodOptions,
			origin:      "https://tablet.footics.test",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "*",
			wantMethods: "GET,POST,PUT,DELETE,OPTIONS",
		},
		{
			name:       "unknown origin gets no headers",
			allowed:    []string{"https://coach.footics.test"},
			method:     http.MethodDelete,
			origin:     "https://elsewhere.test",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "no origin header passes through",
			allowed:    []string{"*"},
			method:     http.MethodPut,
			wantStatus: http.StatusTeapot,
		},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/matches/1/slots/101", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			CORS(tt.allowed, next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantVary, rec.Header().Get("Vary"))
			assert.Equal(t, tt.wantMethods, rec.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}
