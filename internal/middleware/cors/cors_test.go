package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newHandler(called *bool) http.Handler {
	return Middleware(DefaultConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}))
}

func TestPreflightAnswersNoContent(t *testing.T) {
	var called bool
	h := newHandler(&called)

	req := httptest.NewRequest(http.MethodOptions, "/api/expenses/7", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, called, "preflight must not reach the handler")
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Headers"))
}

func TestActualRequestExposesAuthorization(t *testing.T) {
	var called bool
	h := newHandler(&called)

	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Authorization", rr.Header().Get("Access-Control-Expose-Headers"))
}
