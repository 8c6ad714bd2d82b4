package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retailops/inventory-service/internal/auth"
	"github.com/retailops/inventory-service/internal/inventory"
	"github.com/retailops/inventory-service/internal/inventory/dto"
	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/pkg/httperr"
	"github.com/retailops/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type StockHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc inventory.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StockHandler) Register(r *gin.RouterGroup) {
	r.POST("/inventory/adjust", h.Adjust)
	r.POST("/inventory/reserve", h.Reserve)
	r.GET("/inventory", h.Query)
	r.GET("/inventory/movements", h.ListMovements)
}

type adjustRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	LocationID string `json:"location_id" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Quantity   int64  `json:"quantity"`
	ReasonCode string `json:"reason_code"`
}

func (h *StockHandler) Adjust(c *gin.Context) {
	principal, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.uc.Adjust(c.Request.Context(), &dto.AdjustStockInput{
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Type:       dto.AdjustmentType(req.Type),
		Quantity:   req.Quantity,
		ReasonCode: req.ReasonCode,
		UserID:     principal.UserID,
	})
	if err != nil {
		h.logger.Warn("adjustment rejected", zap.Error(err), zap.String("product_id", req.ProductID))
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

type reserveRequest struct {
	ProductID   string `json:"product_id" binding:"required"`
	LocationID  string `json:"location_id" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"required"`
	ReferenceID string `json:"reference_id"`
}

func (h *StockHandler) Reserve(c *gin.Context) {
	principal, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.uc.ReserveForSale(c.Request.Context(), &dto.ReserveForSaleInput{
		ProductID:   req.ProductID,
		LocationID:  req.LocationID,
		Quantity:    req.Quantity,
		ReferenceID: req.ReferenceID,
		UserID:      principal.UserID,
	})
	if err != nil {
		h.logger.Warn("sale reservation rejected", zap.Error(err), zap.String("product_id", req.ProductID))
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *StockHandler) Query(c *gin.Context) {
	filters := &dto.LedgerFilters{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Status:     model.StockBucket(c.Query("status")),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 50),
	}

	items, total, err := h.uc.Query(c.Request.Context(), filters)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *StockHandler) ListMovements(c *gin.Context) {
	filters := &dto.MovementFilters{
		ProductID:    c.Query("product_id"),
		LocationID:   c.Query("location_id"),
		MovementType: c.Query("movement_type"),
		Page:         queryInt(c, "page", 1),
		PageSize:     queryInt(c, "page_size", 50),
	}

	items, total, err := h.uc.ListMovements(c.Request.Context(), filters)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}
