package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	cases := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		preflight  bool
		wantOrigin string
		wantCalled bool
		wantStatus int
	}{
		{name: "listed origin", allowed: []string{"https://tienda.mx/"}, origin: "https://tienda.mx", method: http.MethodPost, wantOrigin: "https://tienda.mx", wantCalled: true, wantStatus: http.StatusOK},
		{name: "unknown origin", allowed: []string{"https://tienda.mx"}, origin: "https://otro.example", method: http.MethodPost, wantCalled: true, wantStatus: http.StatusOK},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://random.example", method: http.MethodGet, wantOrigin: "https://random.example", wantCalled: true, wantStatus: http.StatusOK},
		{name: "preflight", allowed: []string{"https://tienda.mx"}, origin: "https://tienda.mx", method: http.MethodOptions, preflight: true, wantOrigin: "https://tienda.mx", wantStatus: http.StatusNoContent},
		{name: "no origin header", allowed: []string{"https://tienda.mx"}, method: http.MethodGet, wantCalled: true, wantStatus: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(tc.method, "/v1/chat/messages", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()

			CORS(tc.allowed)(handler).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCalled, called)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
