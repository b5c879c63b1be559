package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adxlogistics/freight-rate-engine/internal/dto"
	"github.com/adxlogistics/freight-rate-engine/internal/mapbox"
	"github.com/adxlogistics/freight-rate-engine/internal/service"
)

type RouteHandler struct {
	svc *service.RouteFeatureService
}

func NewRouteHandler(svc *service.RouteFeatureService) *RouteHandler {
	return &RouteHandler{svc: svc}
}

func (h *RouteHandler) GetFeatures(c *gin.Context) {
	var req dto.RouteFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	feature, err := h.svc.ComputeRouteFeatures(c.Request.Context(), req.Origin, req.Destination)
	if err != nil {
		if errors.Is(err, mapbox.ErrAddressNotFound) || errors.Is(err, mapbox.ErrNoRouteFound) {
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "route provider request failed", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, feature)
}
