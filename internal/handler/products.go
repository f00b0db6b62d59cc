package handler

import (
	"errors"
	"net/http"

	"stocktrack/internal/apierror"
	"stocktrack/internal/dto"
	"stocktrack/internal/middleware"
	"stocktrack/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.CatalogService }

func NewProductsHandler(svc service.CatalogService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) Add(c *gin.Context) {
	var req dto.AddProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Add(c.Request.Context(), claims.Username, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list products"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Edit(c *gin.Context) {
	externalID := c.Param("external_id")
	var req dto.EditProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Edit(c.Request.Context(), claims.Username, externalID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Remove(c *gin.Context) {
	externalID := c.Param("external_id")
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Remove(c.Request.Context(), claims.Username, externalID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
