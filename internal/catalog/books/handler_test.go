package books

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/auth"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc, _ := newService(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, svc, auth.Open())
	return r
}

func call(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHandlerCreateGetList(t *testing.T) {
	r := newRouter(t)

	w := call(r, http.MethodPost, "/books", `{"title":"Dune","author":"Herbert","copies":2,"isbn":""}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[Book](t, w)
	assert.Equal(t, "/books/1", w.Header().Get("Location"))
	assert.Equal(t, 2, created.AvailableCopies)
	assert.NotContains(t, w.Body.String(), `"isbn"`)

	w = call(r, http.MethodGet, "/books/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dune", decode[Book](t, w).Title)

	w = call(r, http.MethodGet, "/books?search=dune&limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))
	assert.Len(t, decode[[]Book](t, w), 1)

	w = call(r, http.MethodGet, "/books?search=zzz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandlerListLimitZeroIsEmptyPage(t *testing.T) {
	r := newRouter(t)
	for _, title := range []string{"Dune", "Emma"} {
		require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/books", `{"title":"`+title+`","author":"x"}`).Code)
	}

	w := call(r, http.MethodGet, "/books?limit=0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))

	w = call(r, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]Book](t, w), 2)

	w = call(r, http.MethodGet, "/books?limit=1", "")
	assert.Len(t, decode[[]Book](t, w), 1)
}

func TestHandlerStatusMapping(t *testing.T) {
	r := newRouter(t)

	w := call(r, http.MethodGet, "/books/77", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierr.CodeNotFound, decode[apierr.ErrorDTO](t, w).Error.Code)

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodGet, "/books/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodGet, "/books?skip=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/books", `{"title":"no author"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/books", `{"title":"x","author":"y","copies":-2}`).Code)
}

func TestHandlerMutators(t *testing.T) {
	r := newRouter(t)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/books", `{"title":"Dune","author":"Herbert"}`).Code)

	w := call(r, http.MethodPost, "/books/1/like", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[Book](t, w).Likes)

	w = call(r, http.MethodPost, "/books/1/rate", `{"rating":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = call(r, http.MethodPost, "/books/1/rate", `{"rating":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[Book](t, w)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, 2, got.RatingCount)

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/books/1/rate", `{"rating":7}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/books/1/rate", `{}`).Code)

	w = call(r, http.MethodPost, "/books/1/favorite", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[Book](t, w).IsFavorite)

	w = call(r, http.MethodPatch, "/books/1", `{"author":"Frank Herbert"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Frank Herbert", decode[Book](t, w).Author)

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodPost, "/books/9/like", "").Code)

	require.Equal(t, http.StatusOK, call(r, http.MethodDelete, "/books/1", "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/books/1", "").Code)
}
