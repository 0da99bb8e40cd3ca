package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library/gateway"
)

type crudHandler[T any, R any] struct {
	gw *gateway.Gateway[T, R]
}

// RegisterCRUD は1エンティティ分の一覧・登録・更新・削除を登録する。
// read は参照系、write は更新系（認証付きグループを想定）。
func RegisterCRUD[T any, R any](read, write gin.IRoutes, path string, gw *gateway.Gateway[T, R]) {
	h := &crudHandler[T, R]{gw: gw}
	read.GET(path, h.list)
	write.POST(path, h.create)
	write.PUT(path+"/:id", h.update)
	write.DELETE(path+"/:id", h.delete)
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// GET /{kind}?q=
func (h *crudHandler[T, R]) list(c *gin.Context) {
	l, err := h.gw.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse[T]{Items: l.Items, Total: l.Len()})
}

// POST /{kind}
func (h *crudHandler[T, R]) create(c *gin.Context) {
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gateway.ErrorBody(gateway.CodeInvalidArgument, "invalid json"))
		return
	}
	if err := h.gw.Create(c.Request.Context(), req); err != nil {
		WriteError(c, err)
		return
	}
	h.respondRefreshed(c, http.StatusCreated)
}

// PUT /{kind}/:id
func (h *crudHandler[T, R]) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gateway.ErrorBody(gateway.CodeInvalidArgument, "invalid json"))
		return
	}
	ctx := c.Request.Context()
	err := h.mutate(ctx, id, func(sel gateway.Selection) error {
		return h.gw.Update(ctx, sel, req)
	})
	if err != nil {
		WriteError(c, err)
		return
	}
	h.respondRefreshed(c, http.StatusOK)
}

// DELETE /{kind}/:id?confirm=true
func (h *crudHandler[T, R]) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	ctx := c.Request.Context()
	err := h.mutate(ctx, id, func(sel gateway.Selection) error {
		return h.gw.Delete(ctx, sel, gateway.Answer(confirmed))
	})
	if err != nil {
		WriteError(c, err)
		return
	}
	h.respondRefreshed(c, http.StatusOK)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gateway.ErrorBody(gateway.CodeInvalidArgument, "id must be a positive number"))
		return 0, false
	}
	return id, true
}

// mutate はHTTPでは毎回最新の一覧を取り直し、その中から id を選んで fn を実行する。
// 取得と実行の間に別リクエストの更新が入って一覧が古くなった場合は、1回だけ取り直す。
func (h *crudHandler[T, R]) mutate(ctx context.Context, id int64, fn func(gateway.Selection) error) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		l, lerr := h.gw.List(ctx, "")
		if lerr != nil {
			return lerr
		}
		sel, serr := l.Select(id)
		if serr != nil {
			return serr
		}
		err = fn(sel)
		if !gateway.Is(err, gateway.CodeSelection) {
			return err
		}
	}
	return err
}

// 更新後は必ず全件を取り直して返す
func (h *crudHandler[T, R]) respondRefreshed(c *gin.Context, status int) {
	l, err := h.gw.List(c.Request.Context(), "")
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(status, listResponse[T]{Items: l.Items, Total: l.Len()})
}
