package handler

import (
	"net/http"

	"stocktrack/internal/apierror"
	"stocktrack/internal/dto"
	"stocktrack/internal/middleware"
	"stocktrack/internal/model"
	"stocktrack/internal/service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves the caller's own mutation history, newest first.
// The retention cap means this is never more than a handful of rows.
type HistoryHandler struct{ ledger service.LedgerService }

func NewHistoryHandler(ledger service.LedgerService) *HistoryHandler {
	return &HistoryHandler{ledger: ledger}
}

func (h *HistoryHandler) ListOwn(c *gin.Context) {
	claims := middleware.GetClaims(c)

	entries, total, err := h.ledger.ListForUser(c.Request.Context(), claims.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load history"))
		return
	}

	data := make([]dto.HistoryEntryItem, 0, len(entries))
	for i := range entries {
		data = append(data, historyToDTO(&entries[i]))
	}
	c.JSON(http.StatusOK, dto.HistoryListResponse{Data: data, Total: total})
}

func historyToDTO(e *model.HistoryEntry) dto.HistoryEntryItem {
	item := dto.HistoryEntryItem{
		ID:                 e.ID.String(),
		Action:             e.Action,
		ProductName:        e.ProductName,
		ProductExternalID:  e.ProductExternalID,
		ProductDescription: e.ProductDescription,
		ProductQuantity:    e.ProductQuantity,
		ProductLocation:    e.ProductLocation,
		CreatedAt:          e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if e.BulkGroupID != nil {
		s := e.BulkGroupID.String()
		item.BulkGroupID = &s
	}
	return item
}
