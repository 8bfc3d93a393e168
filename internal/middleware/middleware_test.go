package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	claims     *service.Claims
	tokenErr   error
	sessionErr error
	profile    *model.User
	revoked    []uuid.UUID
}

func (s *stubAuth) ValidateToken(string) (*service.Claims, error) {
	if s.tokenErr != nil {
		return nil, s.tokenErr
	}
	return s.claims, nil
}

func (s *stubAuth) ValidateSession(context.Context, uuid.UUID, string) error { return s.sessionErr }

func (s *stubAuth) Me(context.Context, uuid.UUID) (*model.User, error) {
	if s.profile == nil {
		return nil, service.ErrNotFound
	}
	return s.profile, nil
}

func (s *stubAuth) RevokeSession(_ context.Context, id uuid.UUID) error {
	s.revoked = append(s.revoked, id)
	return nil
}

type envelope struct {
	Data  map[string]any `json:"data"`
	Error *struct {
		Code     response.ErrCode `json:"code"`
		Redirect string           `json:"redirect"`
	} `json:"error"`
}

func serve(t *testing.T, h gin.HandlerFunc, header string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := gin.New()
	r.GET("/x", h, func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"user_id": GetUser(c).ID, "claims": GetClaims(c) != nil})
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestRequireRole(t *testing.T) {
	id := uuid.New()
	claims := &service.Claims{UserID: id}
	claims.ID = "jti"
	active := &model.User{ID: id, Role: model.RoleStudent, Status: model.UserStatusActive}
	pending := &model.User{ID: id, Role: model.RoleStudent, Status: model.UserStatusPending}

	tests := []struct {
		name     string
		auth     *stubAuth
		role     model.Role
		header   string
		status   int
		code     response.ErrCode
		redirect string
		revoked  bool
	}{
		{"no token", &stubAuth{}, model.RoleStudent, "", 401, response.ErrTokenRequired, "/login", false},
		{"bad token", &stubAuth{tokenErr: jwt.ErrSignatureInvalid}, model.RoleStudent, "Bearer x", 401, response.ErrTokenInvalid, "/login", false},
		{"expired", &stubAuth{tokenErr: fmt.Errorf("parse token: %w", jwt.ErrTokenExpired)}, model.RoleStudent, "Bearer x", 401, response.ErrTokenExpired, "/login", false},
		{"replaced session", &stubAuth{claims: claims, sessionErr: service.ErrSessionInvalid}, model.RoleStudent, "Bearer x", 401, response.ErrSessionInvalidated, "/login", false},
		{"deleted profile", &stubAuth{claims: claims}, model.RoleStudent, "Bearer x", 401, response.ErrTokenInvalid, "/login", false},
		{"deactivated", &stubAuth{claims: claims, profile: pending}, model.RoleStudent, "Bearer x", 403, response.ErrAccountInactive, "/login?status=pending", true},
		{"student on admin route", &stubAuth{claims: claims, profile: active}, model.RoleAdmin, "Bearer x", 403, response.ErrAdminAccessOnly, "/dashboard", false},
		{"allowed", &stubAuth{claims: claims, profile: active}, model.RoleStudent, "Bearer x", 200, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := serve(t, RequireRole(tt.auth, tt.role, zerolog.Nop()), tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.code == "" {
				assert.Nil(t, env.Error)
				assert.Equal(t, id.String(), env.Data["user_id"])
				return
			}
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, tt.redirect, env.Error.Redirect)
			assert.Equal(t, tt.revoked, len(tt.auth.revoked) == 1)
		})
	}
}

func TestTokenFromQuery(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ws?token=abc", nil)
	assert.Equal(t, "abc", extractToken(c))

	c.Request.Header.Set("Authorization", "Bearer xyz")
	assert.Equal(t, "xyz", extractToken(c))
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	rl := NewRateLimiter(rdb, "auth", 2, time.Minute, zerolog.Nop())
	fixed := time.Date(2026, 1, 1, 10, 0, 5, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	r := gin.New()
	r.GET("/x", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, do().Code)
	assert.Equal(t, http.StatusNoContent, do().Code)
	w := do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "56", w.Header().Get("Retry-After"))

	fixed = fixed.Add(time.Minute)
	assert.Equal(t, http.StatusNoContent, do().Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	r := gin.New()
	r.GET("/x", NewRateLimiter(rdb, "auth", 1, time.Minute, zerolog.Nop()).Middleware(),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestBrotli(t *testing.T) {
	long := strings.Repeat("نص عربي طويل ", 300)

	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64, Skipper: SkipPrefixes("/uploads")}))
	r.GET("/long", func(c *gin.Context) {
		_, _ = c.Writer.WriteString(long[:10])
		_, _ = c.Writer.WriteString(long[10:])
	})
	r.GET("/short", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/uploads/a.pdf", func(c *gin.Context) { c.String(http.StatusOK, long) })

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/long")
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, long, string(body))

	w = get("/short")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())

	w = get("/uploads/a.pdf")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, long, w.Body.String())
}

func TestCacheControl(t *testing.T) {
	r := gin.New()
	r.GET("/x", CacheControl(CacheNoStore), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "private, no-store", w.Header().Get("Cache-Control"))
}
