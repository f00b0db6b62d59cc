package handler

import (
	"net/http"

	"stocktrack/internal/apierror"
	"stocktrack/internal/middleware"
	"stocktrack/internal/service"

	"github.com/gin-gonic/gin"
)

type UndoHandler struct{ svc service.UndoService }

func NewUndoHandler(svc service.UndoService) *UndoHandler {
	return &UndoHandler{svc: svc}
}

// Undo reverses the caller's most recent recorded action. An empty
// history is not an error — the response just says there was nothing
// to undo.
func (h *UndoHandler) Undo(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Undo(c.Request.Context(), claims.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Undo failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
