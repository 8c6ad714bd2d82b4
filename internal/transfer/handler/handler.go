package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/retailops/inventory-service/internal/auth"
	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/pkg/httperr"
	"github.com/retailops/inventory-service/internal/pkg/logger"
	"github.com/retailops/inventory-service/internal/transfer"
	"github.com/retailops/inventory-service/internal/transfer/dto"
	"go.uber.org/zap"
)

type TransferHandler struct {
	uc     transfer.UseCase
	logger logger.ZapLogger
}

func NewTransferHandler(uc transfer.UseCase, log logger.ZapLogger) *TransferHandler {
	return &TransferHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *TransferHandler) Register(r *gin.RouterGroup) {
	r.POST("/transfers", h.Create)
	r.GET("/transfers", h.List)
	r.GET("/transfers/:number", h.Get)
	r.POST("/transfers/:number/submit", h.Submit)
	r.POST("/transfers/:number/approve", h.Approve)
	r.POST("/transfers/:number/ship", h.Ship)
	r.POST("/transfers/:number/receive", h.Receive)
	r.POST("/transfers/:number/cancel", h.Cancel)
}

type createTransferRequest struct {
	TransferType          string                  `json:"transfer_type" binding:"required"`
	SourceLocationID      string                  `json:"source_location_id" binding:"required"`
	DestinationLocationID string                  `json:"destination_location_id" binding:"required"`
	Items                 []dto.TransferLineInput `json:"items" binding:"required"`
}

func (h *TransferHandler) Create(c *gin.Context) {
	principal, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.uc.Create(c.Request.Context(), &dto.CreateTransferInput{
		TransferType:          model.TransferType(req.TransferType),
		SourceLocationID:      req.SourceLocationID,
		DestinationLocationID: req.DestinationLocationID,
		Items:                 req.Items,
		UserID:                principal.UserID,
	})
	if err != nil {
		h.logger.Warn("transfer creation rejected", zap.Error(err))
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

func (h *TransferHandler) Get(c *gin.Context) {
	t, err := h.uc.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) List(c *gin.Context) {
	filters := &dto.TransferFilters{
		Status:     model.TransferStatus(c.Query("status")),
		LocationID: c.Query("location_id"),
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

func (h *TransferHandler) Submit(c *gin.Context) {
	principal, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	t, err := h.uc.Submit(c.Request.Context(), c.Param("number"), principal.UserID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) Approve(c *gin.Context) {
	principal, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	t, err := h.uc.Approve(c.Request.Context(), &dto.ApproveTransferInput{
		TransferNumber: c.Param("number"),
		UserID:         principal.UserID,
		Role:           principal.Role,
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type shipRequest struct {
	Lines []dto.ShipLineInput `json:"lines"`
}

func (h *TransferHandler) Ship(c *gin.Context) {
	principal, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req shipRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.uc.Ship(c.Request.Context(), &dto.ShipTransferInput{
		TransferNumber: c.Param("number"),
		Lines:          req.Lines,
		UserID:         principal.UserID,
	})
	if err != nil {
		h.logger.Warn("transfer ship rejected", zap.Error(err), zap.String("transfer_number", c.Param("number")))
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type receiveRequest struct {
	Lines []dto.ReceiveLineInput `json:"lines" binding:"required"`
}

func (h *TransferHandler) Receive(c *gin.Context) {
	principal, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req receiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.uc.Receive(c.Request.Context(), &dto.ReceiveTransferInput{
		TransferNumber: c.Param("number"),
		Lines:          req.Lines,
		UserID:         principal.UserID,
	})
	if err != nil {
		h.logger.Warn("transfer receive rejected", zap.Error(err), zap.String("transfer_number", c.Param("number")))
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *TransferHandler) Cancel(c *gin.Context) {
	principal, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.uc.Cancel(c.Request.Context(), &dto.CancelTransferInput{
		TransferNumber: c.Param("number"),
		Reason:         req.Reason,
		UserID:         principal.UserID,
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
