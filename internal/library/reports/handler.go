package reports

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/library/httpapi"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// ダッシュボードは /dashboard、それ以外は /reports 配下
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := NewHandler(svc)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/reports/categories", h.Categories)
	r.GET("/reports/book-stats", h.BookStatistics)
	r.GET("/reports/member-activity", h.MemberActivity)
	r.GET("/reports/overdue", h.Overdue)
	r.GET("/reports/overdue.csv", h.OverdueCSV)
	r.GET("/reports/finance", h.Finance)
	r.GET("/reports/statistics", h.Statistics)
	r.GET("/reports/changes", h.RecentChanges)
	r.GET("/reports/audit/:entity/:id", h.AuditHistory)
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) Categories(c *gin.Context) {
	items, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GET /reports/book-stats?category=
func (h *Handler) BookStatistics(c *gin.Context) {
	items, err := h.svc.BookStatistics(c.Request.Context(), c.Query("category"))
	if err != nil {
		httpapi.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// GET /reports/member-activity?q=
func (h *Handler) MemberActivity(c *gin.Context) {
	items, err := h.svc.MemberActivity(c.Request.Context(), c.Query("q"))
	if err != nil {
		httpapi.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// GET /reports/overdue?min_days=7+
func (h *Handler) Overdue(c *gin.Context) {
	items, ok := h.overdue(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// GET /reports/overdue.csv?min_days=&encoding=sjis|utf8
func (h *Handler) OverdueCSV(c *gin.Context) {
	enc, err := ParseEncoding(c.Query("encoding"))
	if err != nil {
		httpapi.WriteError(c, err)
		return
	}
	items, ok := h.overdue(c)
	if !ok {
		return
	}

	// 書き出しに失敗してもエラーを返せるよう、先にバッファへ書く
	var buf bytes.Buffer
	if err := WriteOverdueCSV(&buf, items, enc); err != nil {
		httpapi.WriteError(c, err)
		return
	}

	charset := "utf-8"
	if enc == EncodingShiftJIS {
		charset = "shift_jis"
	}
	name := fmt.Sprintf("overdue_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset="+charset, buf.Bytes())
}

func (h *Handler) overdue(c *gin.Context) ([]OverdueBook, bool) {
	minDays, err := ParseOverdueThreshold(c.Query("min_days"))
	if err != nil {
		httpapi.WriteError(c, err)
		return nil, false
	}
	items, err := h.svc.Overdue(c.Request.Context(), minDays)
	if err != nil {
		httpapi.WriteError(c, err)
		return nil, false
	}
	return items, true
}

func (h *Handler) Finance(c *gin.Context) {
	f, err := h.svc.Finance(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) Statistics(c *gin.Context) {
	st, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// GET /reports/changes?entity=Member&limit=100
func (h *Handler) RecentChanges(c *gin.Context) {
	limit := httpapi.ParseIntDefault(c.Query("limit"), DefaultChangeLimit)
	items, err := h.svc.RecentChanges(c.Request.Context(), c.Query("entity"), limit)
	if err != nil {
		httpapi.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// GET /reports/audit/:entity/:id
func (h *Handler) AuditHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gateway.ErrorBody(gateway.CodeInvalidArgument, "id must be a positive number"))
		return
	}
	a, err := h.svc.AuditHistory(c.Request.Context(), c.Param("entity"), id)
	if err != nil {
		httpapi.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
