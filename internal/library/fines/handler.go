package fines

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/library/httpapi"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func RegisterRoutes(read, write gin.IRoutes, svc *Service) {
	h := NewHandler(svc)
	read.GET("/transactions", h.ListTransactions)
	write.PUT("/transactions/:id/fine", h.PutFine)
}

// GET /transactions
func (h *Handler) ListTransactions(c *gin.Context) {
	items, err := h.svc.ListTransactions(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

type putFineRequest struct {
	Amount json.Number `json:"amount"`
	Status string      `json:"status"`
}

// PUT /transactions/:id/fine
func (h *Handler) PutFine(c *gin.Context) {
	var req putFineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gateway.ErrorBody(gateway.CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.AddOrUpdateFine(c.Request.Context(), FineRequest{
		TransactionID: c.Param("id"),
		Amount:        req.Amount.String(),
		Status:        req.Status,
	})
	if err != nil {
		httpapi.WriteError(c, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}
