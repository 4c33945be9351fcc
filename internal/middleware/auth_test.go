package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gearhouse/catalog/internal/common"
)

func newAuthedHandler(t *testing.T, signer *common.URLSignerService) http.Handler {
	gate := AdminAuthMiddleware(nil, common.NewSessionService(nil), signer)
	return gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAdminAuthMiddleware_MissingCredentials(t *testing.T) {
	signer := common.NewURLSignerService([]byte("test-secret"), nil)
	handler := newAuthedHandler(t, signer)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without credentials, got %d", w.Code)
	}
}

func TestAdminAuthMiddleware_BearerToken(t *testing.T) {
	signer := common.NewURLSignerService([]byte("test-secret"), nil)
	handler := newAuthedHandler(t, signer)

	token, err := signer.GeneratePresignedURL("admin", time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with a valid bearer token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a bad bearer token, got %d", w.Code)
	}
}
