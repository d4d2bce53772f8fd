package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"CHORUS-backend/internal/platform/apierr"
)

type AuthHandler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &AuthHandler{svc: svc}
	admin := Admin(svc)
	with := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, admin...), fn)
	}

	r.POST("/login", h.Login)
	r.POST("/accounts", with(h.Register)...)
	r.DELETE("/accounts/:id", with(h.DeleteAccount)...)
	r.PATCH("/accounts/:id", with(h.SetDisabled)...)
}

type LoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid request"))
		return
	}
	token, err := h.svc.Login(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type RegisterRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role,omitempty"` // 未指定なら viewer
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid request"))
		return
	}
	if err := h.svc.Register(c.Request.Context(), req.ID, req.Password, req.Role); err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "registered"})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apierr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type SetDisabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

func (h *AuthHandler) SetDisabled(c *gin.Context) {
	var req SetDisabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid request"))
		return
	}
	if err := h.svc.SetDisabled(c.Request.Context(), c.Param("id"), *req.Disabled); err != nil {
		apierr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
