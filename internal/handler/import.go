package handler

import (
	"bufio"
	"io"
	"net/http"

	"stocktrack/internal/apierror"
	"stocktrack/internal/middleware"
	"stocktrack/internal/service"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct{ svc service.ImportService }

func NewImportHandler(svc service.ImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

// Import accepts the bulk product file either as a multipart upload
// (field "file") or as a raw text body, and hands the decoded lines to
// the import service.
func (h *ImportHandler) Import(c *gin.Context) {
	lines, err := readLines(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Could not read import payload: "+err.Error()))
		return
	}
	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Import payload is empty"))
		return
	}

	claims := middleware.GetClaims(c)
	resp, err := h.svc.Import(c.Request.Context(), claims.Username, lines)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func readLines(c *gin.Context) ([]string, error) {
	var r io.Reader = c.Request.Body

	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
