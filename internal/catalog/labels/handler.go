package labels

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service, g auth.Guard) {
	h := &Handler{svc: svc}
	r.GET("/labels/books.csv", g.Staff(), h.BooksCSV)
}

// /labels/books.csv?ids=1,2&encoding=sjis
func (h *Handler) BooksCSV(c *gin.Context) {
	ids, err := ParseIDs(c.Query("ids"))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	enc, ok := ParseEncoding(c.Query("encoding"))
	if !ok {
		apierr.BadRequest(c, "encoding must be utf8 or sjis")
		return
	}

	body, err := h.svc.Export(c.Request.Context(), ids, enc)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="book_labels.csv"`)
	c.Data(http.StatusOK, enc.ContentType(), body)
}
