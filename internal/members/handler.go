package members

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

	r.GET("/members", g.Staff(), h.List)
	r.GET("/members/:id", g.Staff(), h.Get)
	r.POST("/members", g.Staff(), h.Create)
	r.PUT("/members/:id", g.Staff(), h.Update)
	r.PATCH("/members/:id", g.Staff(), h.Update)
	r.DELETE("/members/:id", g.Staff(), g.Admin(), h.Delete)
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
	m, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json or missing name")
		return
	}
	m, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.Header("Location", "/members/"+strconv.FormatInt(m.ID, 10))
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json")
		return
	}
	m, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
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
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierr.BadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
