package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gifty/internal/models/request_models"
	"gifty/internal/services"
	"gifty/pkg/utils"
)

type SuggestionController struct {
	suggestionService services.SuggestionServiceInterface
}

func NewSuggestionController(suggestionService services.SuggestionServiceInterface) *SuggestionController {
	return &SuggestionController{
		suggestionService: suggestionService,
	}
}

// GetSuggestions godoc
// @Summary Get gift suggestions for the submitted request
// @Description Generates at most once per request and region; later calls return the stored view
// @Tags Suggestions
// @Produce json
// @Param flow path string true "perfect or quick"
// @Success 200 {object} response_models.SuggestionView
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /suggestions/{flow} [get]
func (sc *SuggestionController) GetSuggestions(c *gin.Context) {
	view, err := sc.suggestionService.Current(c.Request.Context(), utils.SessionID(c), c.Param("flow"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Suggestions fetched successfully")
}

// RefineSuggestions godoc
// @Summary Regenerate suggestions with a new preference
// @Tags Suggestions
// @Accept json
// @Produce json
// @Param flow path string true "perfect or quick"
// @Param request body request_models.RefineRequest true "Preference"
// @Success 200 {object} response_models.SuggestionView
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse "Superseded by a newer refinement"
// @Security BearerAuth
// @Router /suggestions/{flow}/refine [post]
func (sc *SuggestionController) RefineSuggestions(c *gin.Context) {
	var req request_models.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Preference is required")
		return
	}
	view, err := sc.suggestionService.Refine(c.Request.Context(), utils.SessionID(c), c.Param("flow"), req.Preference)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Suggestions refined")
}

// RetrySuggestions godoc
// @Summary Regenerate suggestions for the same request
// @Tags Suggestions
// @Produce json
// @Param flow path string true "perfect or quick"
// @Success 200 {object} response_models.SuggestionView
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /suggestions/{flow}/retry [post]
func (sc *SuggestionController) RetrySuggestions(c *gin.Context) {
	view, err := sc.suggestionService.Retry(c.Request.Context(), utils.SessionID(c), c.Param("flow"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Suggestions regenerated")
}
