package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeResolver struct {
	lastUID   string
	lastEmail string
	userID    int64
}

func (f *fakeResolver) EnsureUser(ctx context.Context, externalID, email, displayName string) (int64, error) {
	f.lastUID = externalID
	f.lastEmail = email
	return f.userID, nil
}

func TestAuthDevBypassResolvesSyntheticIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resolver := &fakeResolver{userID: 42}
	router := gin.New()
	router.Use(Auth(AuthOptions{
		Resolver:  resolver,
		DevBypass: true,
		DevUID:    "dev-user",
		DevEmail:  "dev@localhost",
	}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserIDFromContext(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resolver.lastUID != "dev-user" {
		t.Fatalf("expected dev-user uid, got %q", resolver.lastUID)
	}
}

func TestAuthMissingTokenRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Auth(AuthOptions{Resolver: &fakeResolver{}}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthSkipPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Auth(AuthOptions{
		Resolver:  &fakeResolver{},
		SkipPaths: []string{"/api/ai/health"},
	}))
	router.GET("/api/ai/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ai/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
