package report

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"CHORUS-backend/internal/attendance"
	"CHORUS-backend/internal/platform/apierr"
)

type Handler struct{ c *Composer }

func RegisterRoutes(r gin.IRoutes, c *Composer) {
	h := &Handler{c: c}
	r.GET("/reports/daily", h.Daily)
	r.GET("/reports/weekly", h.Weekly)
	r.GET("/reports/monthly", h.Monthly)
	r.GET("/reports/yearly", h.Yearly)
	r.GET("/reports/soloists", h.Soloists)
}

func parseMonth(v string) (time.Time, error) {
	m, err := time.ParseInLocation("2006-01", v, time.UTC)
	if err != nil {
		return time.Time{}, apierr.ErrInvalid("month must be YYYY-MM")
	}
	return m, nil
}

// GET /reports/daily?date=YYYY-MM-DD&parts=
func (h *Handler) Daily(c *gin.Context) {
	day, err := attendance.ParseDay(c.Query("date"))
	if err != nil {
		apierr.Abort(c, apierr.ErrInvalid("date must be YYYY-MM-DD"))
		return
	}
	rep, err := h.c.Daily(c.Request.Context(), day, ParseParts(c.Query("parts")))
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /reports/weekly?start=YYYY-MM-DD&parts=
func (h *Handler) Weekly(c *gin.Context) {
	start, err := attendance.ParseDay(c.Query("start"))
	if err != nil {
		apierr.Abort(c, apierr.ErrInvalid("start must be YYYY-MM-DD"))
		return
	}
	rep, err := h.c.Weekly(c.Request.Context(), start, ParseParts(c.Query("parts")))
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /reports/monthly?month=YYYY-MM&parts=
func (h *Handler) Monthly(c *gin.Context) {
	m, err := parseMonth(c.Query("month"))
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	rep, err := h.c.Monthly(c.Request.Context(), m.Year(), m.Month(), ParseParts(c.Query("parts")))
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /reports/yearly?year=2026&parts=
func (h *Handler) Yearly(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1900 || year > 9999 {
		apierr.Abort(c, apierr.ErrInvalid("year must be a 4-digit number"))
		return
	}
	rep, err := h.c.Yearly(c.Request.Context(), year, ParseParts(c.Query("parts")))
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /reports/soloists?month=YYYY-MM
func (h *Handler) Soloists(c *gin.Context) {
	m, err := parseMonth(c.Query("month"))
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	rep, err := h.c.Soloists(c.Request.Context(), m.Year(), m.Month())
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
