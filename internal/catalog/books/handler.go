package books

import (
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

	r.GET("/books", h.List)
	r.GET("/books/:id", h.Get)
	r.POST("/books", g.Staff(), h.Create)
	r.PUT("/books/:id", g.Staff(), h.Update)
	r.PATCH("/books/:id", g.Staff(), h.Update)
	r.DELETE("/books/:id", g.Staff(), g.Admin(), h.Delete)

	// 読者向けの操作なので認証なし
	r.POST("/books/:id/like", h.Like)
	r.POST("/books/:id/rate", h.Rate)
	r.POST("/books/:id/favorite", h.ToggleFavorite)
}

func (h *Handler) List(c *gin.Context) {
	p, err := paging.FromQuery(c)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	items, total, err := h.svc.List(c.Request.Context(), ListQuery{Page: p, Search: c.Query("search")})
	if err != nil {
		apierr.Write(c, err)
		return
	}
	paging.SetTotal(c, total)
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json or missing required fields (title, author)")
		return
	}
	b, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.Header("Location", "/books/"+strconv.FormatInt(b.ID, 10))
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json")
		return
	}
	b, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

func (h *Handler) Like(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.svc.Like(c.Request.Context(), id)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) Rate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "rating must be a number between 0 and 5")
		return
	}
	b, err := h.svc.Rate(c.Request.Context(), id, *req.Rating)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.svc.ToggleFavorite(c.Request.Context(), id)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierr.BadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
