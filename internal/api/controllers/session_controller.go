package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gifty/internal/models/request_models"
	"gifty/internal/services"
	"gifty/pkg/region"
	"gifty/pkg/utils"
)

type SessionController struct {
	sessionService services.SessionServiceInterface
	regionService  services.RegionServiceInterface
}

func NewSessionController(sessionService services.SessionServiceInterface, regionService services.RegionServiceInterface) *SessionController {
	return &SessionController{
		sessionService: sessionService,
		regionService:  regionService,
	}
}

// CreateSession godoc
// @Summary Start an anonymous browser session
// @Description Issues the token every other endpoint expects in X-Session-Token
// @Tags Session
// @Produce json
// @Success 201 {object} response_models.SessionResponse
// @Router /sessions [post]
func (sc *SessionController) CreateSession(c *gin.Context) {
	session, err := sc.sessionService.Create()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusCreated, session, "Session created")
}

// ListRegions godoc
// @Summary List supported regions
// @Tags Region
// @Produce json
// @Success 200 {array} region.Settings
// @Router /regions [get]
func (sc *SessionController) ListRegions(c *gin.Context) {
	utils.RespondSuccess(c, region.All(), "Regions fetched successfully")
}

// GetRegion godoc
// @Summary Get the session region
// @Tags Region
// @Produce json
// @Success 200 {object} region.Settings
// @Security BearerAuth
// @Router /region [get]
func (sc *SessionController) GetRegion(c *gin.Context) {
	settings, err := sc.regionService.Get(c.Request.Context(), utils.SessionID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, settings, "Region fetched successfully")
}

// SetRegion godoc
// @Summary Change the session region
// @Description Changes currency and marketplace for every later suggestion
// @Tags Region
// @Accept json
// @Produce json
// @Param request body request_models.RegionRequest true "IN or US"
// @Success 200 {object} region.Settings
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /region [put]
func (sc *SessionController) SetRegion(c *gin.Context) {
	var req request_models.RegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Region is required")
		return
	}
	settings, err := sc.regionService.Set(c.Request.Context(), utils.SessionID(c), req.Region)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, settings, "Region updated successfully")
}
