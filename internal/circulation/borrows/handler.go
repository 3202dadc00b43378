package borrows

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/auth"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/paging"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service, g auth.Guard) {
	h := &Handler{svc: svc}

	// 貸出
	r.POST("/borrow", g.Staff(), h.CreateBorrow)
	// 返却（:borrow_id は数値IDかULID）
	r.POST("/return/:borrow_id", g.Staff(), h.ReturnBorrow)

	r.GET("/borrows", g.Staff(), h.ListBorrows)
	r.GET("/borrows/:key", g.Staff(), h.GetBorrow)
	r.GET("/members/:id/borrows", g.Staff(), h.ListMemberBorrows)
}

func (h *Handler) CreateBorrow(c *gin.Context) {
	var req CreateBorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json or missing required fields (book_id, member_id)")
		return
	}
	res, err := h.svc.CreateBorrow(c.Request.Context(), req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.Header("Location", "/borrows/"+res.BorrowULID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ReturnBorrow(c *gin.Context) {
	var req ReturnRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			apierr.BadRequest(c, "return_date must be an RFC3339 timestamp")
			return
		}
	}
	res, err := h.svc.ReturnBorrow(c.Request.Context(), c.Param("borrow_id"), req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetBorrow(c *gin.Context) {
	res, err := h.svc.GetBorrow(c.Request.Context(), c.Param("key"))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListBorrows(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	items, total, err := h.svc.ListBorrows(c.Request.Context(), f)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	paging.SetTotal(c, total)
	c.JSON(http.StatusOK, items)
}

func (h *Handler) ListMemberBorrows(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierr.BadRequest(c, "id must be a positive integer")
		return
	}
	f, err := filterFromQuery(c)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	items, total, err := h.svc.ListMemberBorrows(c.Request.Context(), id, f)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	paging.SetTotal(c, total)
	c.JSON(http.StatusOK, items)
}

func filterFromQuery(c *gin.Context) (Filter, error) {
	var f Filter
	p, err := paging.FromQuery(c)
	if err != nil {
		return f, err
	}
	f.Page = p

	if v := c.Query("returned"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, apierr.ErrInvalid("returned must be true or false")
		}
		f.Returned = &b
	}
	if v := c.Query("overdue"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, apierr.ErrInvalid("overdue must be true or false")
		}
		f.Overdue = b
	}
	if v := c.Query("member_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, apierr.ErrInvalid("member_id must be an integer")
		}
		f.MemberID = &id
	}
	if v := c.Query("book_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, apierr.ErrInvalid("book_id must be an integer")
		}
		f.BookID = &id
	}
	return f, nil
}
