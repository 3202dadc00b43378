package borrows

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

func errCode(t *testing.T, w *httptest.ResponseRecorder) apierr.Code {
	t.Helper()
	var body apierr.ErrorDTO
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Error.Code
}

func TestBorrowHandlers(t *testing.T) {
	f := newFixture(t)
	f.book(t, "Dune", 1)
	f.member(t, "Alice")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, f.svc, auth.Open())

	w := call(r, http.MethodPost, "/borrow", `{"book_id":1,"member_id":1}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created BorrowWithDetails
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "/borrows/"+created.BorrowULID, w.Header().Get("Location"))
	assert.Equal(t, "Dune", created.BookTitle)
	assert.Contains(t, w.Body.String(), `"return_date":null`)

	w = call(r, http.MethodPost, "/borrow", `{"book_id":1,"member_id":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierr.CodeUnavailable, errCode(t, w))

	w = call(r, http.MethodPost, "/borrow", `{"book_id":5,"member_id":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(r, http.MethodPost, "/borrow", `{"book_id":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodGet, "/borrows/"+created.BorrowULID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodGet, "/borrows?returned=false", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodGet, "/borrows?returned=maybe", "").Code)

	w = call(r, http.MethodPost, "/return/1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(r, http.MethodPost, "/return/1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierr.CodeAlreadyReturned, errCode(t, w))

	w = call(r, http.MethodPost, "/return/77", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(r, http.MethodPost, "/return/1", `{"return_date":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodGet, "/members/1/borrows", "")
	require.Equal(t, http.StatusOK, w.Code)
	var history []BorrowWithDetails
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.True(t, history[0].Returned)

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/members/9/borrows", "").Code)
}
