package paging

import (
	"strconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
	TotalHeader  = "X-Total-Count"
)

// Page is skip/limit. A nil Limit means "not given" and gets DefaultLimit;
// an explicit 0 is an empty page.
type Page struct {
	Skip  int
	Limit *int
}

func Limit(n int) *int { return &n }

// Normalize validates p and fills in the default limit.
func (p Page) Normalize() (Page, error) {
	if p.Skip < 0 {
		return p, apierr.ErrInvalid("skip must be >= 0")
	}
	n := DefaultLimit
	if p.Limit != nil {
		n = *p.Limit
	}
	if n < 0 {
		return p, apierr.ErrInvalid("limit must be >= 0")
	}
	if n > MaxLimit {
		n = MaxLimit
	}
	p.Limit = &n
	return p, nil
}

// Size is the effective page size.
func (p Page) Size() int {
	if p.Limit == nil {
		return DefaultLimit
	}
	return *p.Limit
}

func (p Page) Apply(ds *goqu.SelectDataset) *goqu.SelectDataset {
	n := p.Size()
	if n == 0 {
		// goqu の Limit(0) は LIMIT なしになる
		return ds.Where(goqu.L("1 = 0"))
	}
	return ds.Offset(uint(p.Skip)).Limit(uint(n))
}

// FromQuery reads ?skip= and ?limit=. Non-numeric values are rejected.
// ?limit=0 asks for an empty page (the total is still reported).
func FromQuery(c *gin.Context) (Page, error) {
	var p Page
	skip, err := intQuery(c, "skip")
	if err != nil {
		return p, err
	}
	if skip != nil {
		p.Skip = *skip
	}
	if p.Limit, err = intQuery(c, "limit"); err != nil {
		return p, err
	}
	return p.Normalize()
}

// intQuery is nil when key is absent or empty.
func intQuery(c *gin.Context, key string) (*int, error) {
	v, ok := c.GetQuery(key)
	if !ok || v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, apierr.ErrInvalid(key + " must be an integer")
	}
	return &n, nil
}

// SetTotal exposes the unpaged row count.
func SetTotal(c *gin.Context, total int64) {
	c.Header(TotalHeader, strconv.FormatInt(total, 10))
}
