package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adxlogistics/freight-rate-engine/internal/dto"
	"github.com/adxlogistics/freight-rate-engine/internal/service"
)

type RateHandler struct {
	svc *service.RateService
}

func NewRateHandler(svc *service.RateService) *RateHandler {
	return &RateHandler{svc: svc}
}

func (h *RateHandler) GetBreakdown(c *gin.Context) {
	var req dto.RateBreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	breakdown, err := h.svc.GetRateBreakdown(c.Request.Context(), req.TenantID, *req.RawRate, req.VehicleType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRawRate) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		// Resolution failures come out of the rules store; let the
		// trailing middleware map them.
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.RateBreakdownResponse{
		TenantID:  req.TenantID,
		Breakdown: breakdown,
	})
}
