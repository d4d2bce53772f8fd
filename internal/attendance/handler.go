package attendance

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"CHORUS-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service, write ...gin.HandlerFunc) {
	h := &Handler{svc: svc}
	guard := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), fn)
	}

	r.GET("/attendances", h.List)
	r.PUT("/attendances", guard(h.Toggle)...)
	r.DELETE("/attendances", guard(h.Clear)...)
}

// PUT /attendances  {person_id, date, status|null}
func (h *Handler) Toggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Abort(c, apierr.ErrInvalid("invalid json"))
		return
	}
	res, err := h.svc.Toggle(c.Request.Context(), req)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	if res == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /attendances?person_id=&on=
func (h *Handler) Clear(c *gin.Context) {
	personID, on := c.Query("person_id"), c.Query("on")
	if personID == "" || on == "" {
		apierr.Abort(c, apierr.ErrInvalid("person_id and on are required"))
		return
	}
	if _, err := h.svc.Toggle(c.Request.Context(), ToggleRequest{PersonID: personID, Date: on}); err != nil {
		apierr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /attendances?person_id=&on=&from=&to=&limit=&offset=&sort=
func (h *Handler) List(c *gin.Context) {
	q := ListQuery{Sort: c.Query("sort")}
	if v := c.Query("person_id"); v != "" {
		q.PersonID = &v
	}
	if v := c.Query("on"); v != "" {
		q.On = &v
	}
	if v := c.Query("from"); v != "" {
		q.From = &v
	}
	if v := c.Query("to"); v != "" {
		q.To = &v
	}
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	q.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}
