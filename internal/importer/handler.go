package importer

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"CHORUS-backend/internal/platform/apierr"
)

// アップロードの上限
const maxUploadBytes = 10 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service, read, write []gin.HandlerFunc) {
	h := &Handler{svc: svc}
	guard := func(mw []gin.HandlerFunc, fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, mw...), fn)
	}

	r.POST("/imports/rows", guard(write, h.ImportRows)...)
	r.POST("/imports/matrix", guard(write, h.ImportMatrix)...)
	// 雛形は在籍者名簿そのもの
	r.GET("/imports/template", guard(read, h.Template)...)
	r.GET("/imports/:batch_id", guard(read, h.Get)...)
}

func (h *Handler) readUpload(c *gin.Context) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, apierr.ErrInvalid("multipart field 'file' is required")
	}
	if fh.Size > maxUploadBytes {
		return "", nil, apierr.Invalidf("file too large (max %d bytes)", maxUploadBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}

// POST /imports/rows  JSON {rows:[{name,date,status,part}]} または multipart file
func (h *Handler) ImportRows(c *gin.Context) {
	var (
		res *Result
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		name, data, rerr := h.readUpload(c)
		if rerr != nil {
			apierr.Abort(c, rerr)
			return
		}
		res, err = h.svc.ImportFile(c.Request.Context(), ModeRows, name, data)
	} else {
		var req RowsRequest
		if berr := c.ShouldBindJSON(&req); berr != nil {
			apierr.Abort(c, apierr.ErrInvalid("invalid json"))
			return
		}
		res, err = h.svc.ImportRows(c.Request.Context(), req.Source, req.Rows)
	}
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /imports/matrix  multipart file
func (h *Handler) ImportMatrix(c *gin.Context) {
	name, data, err := h.readUpload(c)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	res, err := h.svc.ImportFile(c.Request.Context(), ModeMatrix, name, data)
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /imports/template?month=YYYY-MM
func (h *Handler) Template(c *gin.Context) {
	m, err := time.Parse("2006-01", c.Query("month"))
	if err != nil {
		apierr.Abort(c, apierr.ErrInvalid("month must be YYYY-MM"))
		return
	}
	f, err := h.svc.Template(c.Request.Context(), m.Year(), m.Month())
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	defer func() { _ = f.Close() }()
	buf, err := f.WriteToBuffer()
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s.xlsx"`, m.Format("2006-01")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GET /imports/:batch_id
func (h *Handler) Get(c *gin.Context) {
	res, err := h.svc.Get(c.Request.Context(), c.Param("batch_id"))
	if err != nil {
		apierr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
