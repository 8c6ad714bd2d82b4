package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/retailops/inventory-service/internal/pkg/httperr"
	"github.com/retailops/inventory-service/internal/pkg/logger"
	"github.com/retailops/inventory-service/internal/stockstatus"
	"github.com/retailops/inventory-service/internal/stockstatus/dto"
)

type StockStatusHandler struct {
	uc     stockstatus.UseCase
	logger logger.ZapLogger
}

func NewStockStatusHandler(uc stockstatus.UseCase, log logger.ZapLogger) *StockStatusHandler {
	return &StockStatusHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StockStatusHandler) Register(r *gin.RouterGroup) {
	r.GET("/stock-status", h.List)
}

func (h *StockStatusHandler) List(c *gin.Context) {
	stockType := dto.StockType(c.Query("stock_type"))
	if stockType != "" && !stockType.Valid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown stock_type"})
		return
	}

	filters := &dto.StatusFilters{
		LocationID: c.Query("location_id"),
		StockType:  stockType,
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 50),
	}

	items, total, err := h.uc.List(c.Request.Context(), filters)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
