package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"stocktrack/internal/apierror"
	"stocktrack/internal/dto"
	"stocktrack/internal/model"
	"stocktrack/internal/repository"
	"stocktrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const productCacheTTL = 4 * time.Hour

// LookupHandler serves single-product reads by external id through a
// Redis read cache. Mutating services invalidate the key.
type LookupHandler struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewLookupHandler(repo repository.ProductRepository, rdb *redis.Client) *LookupHandler {
	return &LookupHandler{repo: repo, rdb: rdb}
}

func (h *LookupHandler) GetByExternalID(c *gin.Context) {
	externalID := c.Param("external_id")
	ctx := c.Request.Context()
	cacheKey := service.ProductCacheKey(externalID)

	// 1. Try Redis cache
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ProductResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	// 2. Cache miss — query DB
	product, err := h.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	}

	resp := lookupToDTO(product)

	// 3. Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, productCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}

func lookupToDTO(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		ExternalID:  p.ExternalID,
		Description: p.Description,
		Quantity:    p.Quantity,
		Location:    p.Location,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
