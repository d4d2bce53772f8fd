package roster

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"CHORUS-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

// RegisterRoutes: read は個人情報を返す参照系、write は更新系の前に挟むミドルウェア
func RegisterRoutes(r gin.IRoutes, svc *Service, read, write []gin.HandlerFunc) {
	h := &Handler{svc: svc}
	guard := func(mw []gin.HandlerFunc, fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, mw...), fn)
	}

	r.GET("/parts", h.ListParts)
	r.GET("/persons", guard(read, h.List)...)
	r.GET("/persons/:id", guard(read, h.Get)...)
	r.POST("/persons", guard(write, h.Create)...)
	r.PUT("/persons/:id", guard(write, h.Update)...)
	r.PATCH("/persons/:id/lifecycle", guard(write, h.SetLifecycle)...)
	r.DELETE("/persons/:id", guard(write, h.Delete)...)
}

func toDTOs(ps []Person) []PersonResponse {
	out := make([]PersonResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.toDTO())
	}
	return out
}

func (h *Handler) ListParts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": Parts()})
}

// GET /persons?part=&lifecycle=&role=&active=
func (h *Handler) List(c *gin.Context) {
	var f Filter
	if v := c.Query("part"); v != "" {
		p, ok := ParsePart(v)
		if !ok {
			apierr.Abort(c, apierr.Invalidf("unknown part %q", v))
			return
		}
		f.Part = &p
	}
	if v := c.Query("lifecycle"); v != "" {
		lc := Lifecycle(v)
		if !lc.Valid() {
			apierr.Abort(c, apierr.Invalidf("unknown lifecycle %q", v))
			return
		}
		f.Lifecycle = &lc
	}
	if v := c.Query("role"); v != "" {
		r := Role(v)
		f.Role = &r
	}
	switch c.Query("active") {
	case "1", "true":
		b := true
		f.Active = &b
	case "0", "false":
		b := false
		f.Active = &b
	}

	items, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toDTOs(items), "total": len(items)})
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, p.toDTO())
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid json"))
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.Header("Location", "/persons/"+p.ID)
	c.JSON(http.StatusCreated, p.toDTO())
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid json"))
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, p.toDTO())
}

func (h *Handler) SetLifecycle(c *gin.Context) {
	var req LifecycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid json"))
		return
	}
	p, err := h.svc.SetLifecycle(c.Request.Context(), c.Param("id"), req.Lifecycle)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, p.toDTO())
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apierr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
