package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc AuthService }

// RegisterRoutes: public は /login のみ。admin はアカウント管理（RequireAuth + RequireRole 済みのグループ）。
func RegisterRoutes(public, admin gin.IRoutes, svc AuthService) {
	h := &AuthHandler{svc: svc}
	public.POST("/login", h.Login)
	admin.POST("/accounts", h.Register)
	admin.DELETE("/accounts/:username", h.DeleteAccount)
	admin.PUT("/accounts/:username/password", h.ChangePassword)
}

func errorJSON(c *gin.Context, status int, code, msg string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": msg}})
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ARGUMENT", "username and password required")
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) && !errors.Is(err, ErrDisabled) {
			log.Printf("[ERROR] login %s: %v", req.Username, err)
		}
		errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid username or password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"` // 未指定なら librarian
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ARGUMENT", "username and password required")
		return
	}

	if err := h.svc.Register(c.Request.Context(), req.Username, req.Password, req.Role); err != nil {
		h.writeAccountError(c, err)
		return
	}
	log.Printf("[INFO] account %s registered by %s", req.Username, CurrentUser(c))
	c.JSON(http.StatusCreated, gin.H{"username": req.Username})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	username := c.Param("username")
	if username == CurrentUser(c) {
		errorJSON(c, http.StatusBadRequest, "INVALID_ARGUMENT", "cannot delete your own account")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), username); err != nil {
		h.writeAccountError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ARGUMENT", "password required")
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), c.Param("username"), req.Password); err != nil {
		h.writeAccountError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) writeAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		errorJSON(c, http.StatusBadRequest, "INVALID_ARGUMENT", "username required, password min 8 chars, role librarian or admin")
	case errors.Is(err, ErrNotFound):
		errorJSON(c, http.StatusNotFound, "NOT_FOUND", "account not found")
	case errors.Is(err, ErrAlreadyExists):
		errorJSON(c, http.StatusConflict, "ALREADY_EXISTS", "username already exists")
	default:
		log.Printf("[ERROR] account %s %s: %v", c.Request.Method, c.FullPath(), err)
		errorJSON(c, http.StatusInternalServerError, "INTERNAL", "account operation failed")
	}
}
