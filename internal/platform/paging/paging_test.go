package paging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
)

func TestNormalize(t *testing.T) {
	p, err := Page{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Page{Skip: 0, Limit: Limit(DefaultLimit)}, p)

	p, err = Page{Skip: 3, Limit: Limit(10_000)}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Page{Skip: 3, Limit: Limit(MaxLimit)}, p)

	p, err = Page{Limit: Limit(0)}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 0, p.Size())

	_, err = Page{Skip: -1}.Normalize()
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
	_, err = Page{Limit: Limit(-5)}.Normalize()
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
}

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	from := func(target string) (Page, error) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		return FromQuery(c)
	}

	p, err := from("/books?skip=2&limit=5")
	require.NoError(t, err)
	assert.Equal(t, Page{Skip: 2, Limit: Limit(5)}, p)

	p, err = from("/books")
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, p.Size())

	p, err = from("/books?limit=0")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Size())

	_, err = from("/books?limit=abc")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	sql, _, err := Page{Skip: 10, Limit: Limit(20)}.Apply(goqu.From("books")).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "books" LIMIT 20 OFFSET 10`, sql)

	sql, _, err = Page{}.Apply(goqu.From("books")).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "books" LIMIT 100`, sql)

	sql, _, err = Page{Limit: Limit(0)}.Apply(goqu.From("books")).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "books" WHERE 1 = 0`, sql)
}
