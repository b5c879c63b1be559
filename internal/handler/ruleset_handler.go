package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adxlogistics/freight-rate-engine/internal/dto"
	"github.com/adxlogistics/freight-rate-engine/internal/model"
	"github.com/adxlogistics/freight-rate-engine/internal/repository"
	"github.com/adxlogistics/freight-rate-engine/internal/service"
)

type RulesetHandler struct {
	store *service.RuleStore
	repo  *repository.RulesetRepository
}

func NewRulesetHandler(store *service.RuleStore, repo *repository.RulesetRepository) *RulesetHandler {
	return &RulesetHandler{store: store, repo: repo}
}

// GetRuleset returns the tenant's effective (merged) ruleset. A tenant
// without an override document gets the defaults.
func (h *RulesetHandler) GetRuleset(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	ruleset, err := h.store.Resolve(c.Request.Context(), tenantID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.RulesetResponse{
		TenantID: tenantID,
		Ruleset:  ruleset,
	})
}

// PutRuleset replaces the tenant's override document. The body must be
// a valid override document; unknown keys are tolerated, wrong value
// types are not.
func (h *RulesetHandler) PutRuleset(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "failed to read body", Details: err.Error()})
		return
	}

	var override model.RuleSetOverride
	if err := json.Unmarshal(body, &override); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid ruleset document", Details: err.Error()})
		return
	}

	marker, err := h.repo.Upsert(c.Request.Context(), tenantID, body)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.RulesetUpdateResponse{
		TenantID:  tenantID,
		UpdatedAt: marker,
	})
}
