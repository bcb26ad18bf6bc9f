package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gifty/internal/models/request_models"
	"gifty/internal/presets"
	"gifty/internal/services"
	"gifty/pkg/utils"
)

type WizardController struct {
	catalog       *presets.Catalog
	wizardService services.WizardServiceInterface
}

func NewWizardController(catalog *presets.Catalog, wizardService services.WizardServiceInterface) *WizardController {
	return &WizardController{
		catalog:       catalog,
		wizardService: wizardService,
	}
}

// ListFlows godoc
// @Summary List gift finder flows
// @Tags Presets
// @Produce json
// @Success 200 {array} string
// @Router /presets [get]
func (wc *WizardController) ListFlows(c *gin.Context) {
	utils.RespondSuccess(c, wc.catalog.Names(), "Flows fetched successfully")
}

// GetPresets godoc
// @Summary Get the steps and preset options of a flow
// @Tags Presets
// @Produce json
// @Param flow path string true "perfect or quick"
// @Success 200 {object} wizard.Flow
// @Failure 404 {object} utils.APIResponse
// @Router /presets/{flow} [get]
func (wc *WizardController) GetPresets(c *gin.Context) {
	flow, err := wc.catalog.Flow(c.Param("flow"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, flow, "Presets fetched successfully")
}

// GetWizard godoc
// @Summary Get the current wizard step
// @Tags Wizard
// @Produce json
// @Param flow path string true "perfect or quick"
// @Success 200 {object} response_models.WizardView
// @Security BearerAuth
// @Router /wizard/{flow} [get]
func (wc *WizardController) GetWizard(c *gin.Context) {
	view, err := wc.wizardService.State(c.Request.Context(), utils.SessionID(c), c.Param("flow"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Wizard fetched successfully")
}

// StartWizard godoc
// @Summary Restart the wizard
// @Tags Wizard
// @Produce json
// @Param flow path string true "perfect or quick"
// @Success 200 {object} response_models.WizardView
// @Security BearerAuth
// @Router /wizard/{flow}/start [post]
func (wc *WizardController) StartWizard(c *gin.Context) {
	view, err := wc.wizardService.Start(c.Request.Context(), utils.SessionID(c), c.Param("flow"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Wizard started")
}

// ApplyAction godoc
// @Summary Apply one wizard action
// @Description select, custom, toggle, next, back or details
// @Tags Wizard
// @Accept json
// @Produce json
// @Param flow path string true "perfect or quick"
// @Param request body request_models.WizardActionRequest true "Action"
// @Success 200 {object} response_models.WizardView
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard/{flow}/actions [post]
func (wc *WizardController) ApplyAction(c *gin.Context) {
	var req request_models.WizardActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid wizard action")
		return
	}
	view, err := wc.wizardService.Apply(c.Request.Context(), utils.SessionID(c), c.Param("flow"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Wizard updated")
}

// SubmitWizard godoc
// @Summary Submit the collected gift request
// @Tags Wizard
// @Produce json
// @Param flow path string true "perfect or quick"
// @Success 201 {object} request_models.GiftRequest
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard/{flow}/submit [post]
func (wc *WizardController) SubmitWizard(c *gin.Context) {
	req, err := wc.wizardService.Submit(c.Request.Context(), utils.SessionID(c), c.Param("flow"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusCreated, req, "Gift request submitted")
}
