package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestServerForMiddleware(clientKeys []string) *Server {
	gin.SetMode(gin.TestMode)
	keyMap := make(map[string]bool)
	for _, k := range clientKeys {
		keyMap[k] = true
	}
	return &Server{
		validClientKeys: keyMap,
	}
}

func TestAuthenticateClient_ValidBearerToken(t *testing.T) {
	s := newTestServerForMiddleware([]string{"test-key-1", "test-key-2"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	c.Request.Header.Set("Authorization", "Bearer test-key-1")
	s.authenticateClient(c)
	if w.Code != http.StatusOK {
		t.Errorf("valid bearer token should pass, got status %d", w.Code)
	}
	if c.IsAborted() {
		t.Error("valid bearer token should not abort")
	}
	if c.GetString(contextKeyUserID) == "" {
		t.Error("authenticated request should carry a caller identity")
	}
}

func TestAuthenticateClient_ValidXAPIKey(t *testing.T) {
	s := newTestServerForMiddleware([]string{"test-key-1"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	c.Request.Header.Set("x-api-key", "test-key-1")
	s.authenticateClient(c)
	if w.Code != http.StatusOK {
		t.Errorf("valid x-api-key should pass, got status %d", w.Code)
	}
	if c.IsAborted() {
		t.Error("valid x-api-key should not abort")
	}
}

func TestAuthenticateClient_InvalidKey(t *testing.T) {
	s := newTestServerForMiddleware([]string{"valid-key"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	c.Request.Header.Set("Authorization", "Bearer wrong-key")
	s.authenticateClient(c)
	if w.Code != http.StatusForbidden {
		t.Errorf("invalid key should return 403, got %d", w.Code)
	}
	if !c.IsAborted() {
		t.Error("invalid key should abort")
	}
}

func TestAuthenticateClient_MissingKey(t *testing.T) {
	s := newTestServerForMiddleware([]string{"valid-key"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	s.authenticateClient(c)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing key should return 401, got %d", w.Code)
	}
	if !c.IsAborted() {
		t.Error("missing key should abort")
	}
}

func TestAuthenticateClient_NoKeysConfigured(t *testing.T) {
	s := newTestServerForMiddleware(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	s.authenticateClient(c)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("no keys configured should return 503, got %d", w.Code)
	}
	if !c.IsAborted() {
		t.Error("no keys configured should abort")
	}
}

func TestCorsMiddleware_SetsHeaders(t *testing.T) {
	s := newTestServerForMiddleware(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler := s.corsMiddleware()
	handler(c)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestCorsMiddleware_OptionsPreflight(t *testing.T) {
	s := newTestServerForMiddleware(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodOptions, "/v1/models", nil)
	handler := s.corsMiddleware()
	handler(c)
	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS preflight should return 204, got %d", w.Code)
	}
	if !c.IsAborted() {
		t.Error("OPTIONS preflight should abort the chain")
	}
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := newRateLimiter(5)
	for i := 0; i < 5; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request over the limit should be rejected")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("different ip should not share the limit")
	}
}

func TestMaxBodySizeMiddleware(t *testing.T) {
	s := newTestServerForMiddleware(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/models", strings.NewReader(strings.Repeat("x", MaxBodySize+1)))
	s.maxBodySizeMiddleware()(c)

	if _, err := io.ReadAll(c.Request.Body); err == nil {
		t.Error("body over the limit should fail to read")
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/models", strings.NewReader("small"))
	s.maxBodySizeMiddleware()(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("small body should read cleanly: %v", err)
	}
	if string(body) != "small" {
		t.Errorf("body = %q, want small", body)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	s := newTestServerForMiddleware(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	s.requestIDMiddleware()(c)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a generated request id")
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	c.Request.Header.Set("X-Request-ID", "client-supplied")
	s.requestIDMiddleware()(c)
	if got := w.Header().Get("X-Request-ID"); got != "client-supplied" {
		t.Errorf("client request id should be echoed, got %q", got)
	}
}
