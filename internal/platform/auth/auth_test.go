package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/db/dbtest"
)

var secret = []byte("test-secret")

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(dbtest.New(t), db.AuthConfig{Enabled: true, Secret: string(secret), TokenTTL: time.Hour})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "librarian", "correct horse", ""))
	assert.ErrorIs(t, svc.Register(ctx, "librarian", "another one", ""), ErrAlreadyExists)
	assert.ErrorIs(t, svc.Register(ctx, "root", "password1", "superuser"), ErrBadRole)

	token, err := svc.Login(ctx, "librarian", "correct horse")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return secret, nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "librarian", claims["sub"])
	assert.Equal(t, RoleStaff, claims["role"])

	_, err = svc.Login(ctx, "librarian", "wrong")
	assert.True(t, apierr.Is(err, apierr.CodeUnauthorized))
	_, err = svc.Login(ctx, "nobody", "x")
	assert.True(t, apierr.Is(err, apierr.CodeUnauthorized))
}

func TestDisabledAccountCannotLogin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "temp", "password1", RoleStaff))
	require.NoError(t, svc.Disable(ctx, "temp"))

	_, err := svc.Login(ctx, "temp", "password1")
	assert.True(t, apierr.Is(err, apierr.CodeUnauthorized))
	assert.ErrorIs(t, svc.Disable(ctx, "ghost"), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "temp"))
	assert.ErrorIs(t, svc.Delete(ctx, "temp"), ErrNotFound)
}

func signed(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "someone", "role": role, "exp": exp.Unix(),
	}).SignedString(secret)
	require.NoError(t, err)
	return tok
}

func guardedRouter(g Guard) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.POST("/write", g.Staff(), ok)
	r.DELETE("/admin", g.Staff(), g.Admin(), ok)
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGuardEnabled(t *testing.T) {
	r := guardedRouter(NewGuard(true, secret))
	future := time.Now().Add(time.Hour)

	w := do(r, http.MethodPost, "/write", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body apierr.ErrorDTO
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierr.CodeUnauthorized, body.Error.Code)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/write", signed(t, RoleStaff, future)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/write", signed(t, RoleStaff, time.Now().Add(-time.Minute))).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/admin", signed(t, RoleStaff, future)).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/admin", signed(t, RoleAdmin, future)).Code)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x", "role": RoleAdmin, "exp": future.Unix()}).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodDelete, "/admin", forged).Code)
}

func TestGuardDisabled(t *testing.T) {
	r := guardedRouter(NewGuard(false, nil))
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/write", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/admin", "").Code)
}

func TestLoginHandler(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.Register(context.Background(), "admin", "s3cret-pass", RoleAdmin))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, svc, NewGuard(true, secret))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"id":"admin","password":"s3cret-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var res LoginResponse
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)

	req = httptest.NewRequest(http.MethodPost, "/auth/accounts", strings.NewReader(`{"id":"desk","password":"password1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+res.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"id":"admin","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
