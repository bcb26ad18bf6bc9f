package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gifty/internal/models/request_models"
	"gifty/internal/services"
	"gifty/pkg/utils"
)

type GroupGiftController struct {
	groupGiftService services.GroupGiftServiceInterface
}

func NewGroupGiftController(groupGiftService services.GroupGiftServiceInterface) *GroupGiftController {
	return &GroupGiftController{
		groupGiftService: groupGiftService,
	}
}

// CreateGroupGift godoc
// @Summary Start a group gift
// @Description Participants with an email address receive an invitation
// @Tags GroupGifts
// @Accept json
// @Produce json
// @Param request body request_models.CreateGroupGiftRequest true "Group gift"
// @Success 201 {object} db_models.GroupGift
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /group-gifts [post]
func (gc *GroupGiftController) CreateGroupGift(c *gin.Context) {
	var req request_models.CreateGroupGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid group gift")
		return
	}
	gift, err := gc.groupGiftService.Create(c.Request.Context(), utils.SessionID(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusCreated, gift, "Group gift created")
}

// ListGroupGifts godoc
// @Summary List group gifts
// @Tags GroupGifts
// @Produce json
// @Success 200 {array} db_models.GroupGift
// @Security BearerAuth
// @Router /group-gifts [get]
func (gc *GroupGiftController) ListGroupGifts(c *gin.Context) {
	gifts, err := gc.groupGiftService.List(c.Request.Context(), utils.SessionID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gifts, "Group gifts fetched successfully")
}

// GetGroupGift godoc
// @Summary Get a group gift with participants, options and messages
// @Tags GroupGifts
// @Produce json
// @Param id path string true "Group gift ID"
// @Success 200 {object} db_models.GroupGift
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /group-gifts/{id} [get]
func (gc *GroupGiftController) GetGroupGift(c *gin.Context) {
	gift, err := gc.groupGiftService.Get(c.Request.Context(), utils.SessionID(c), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gift, "Group gift fetched successfully")
}

// Contribute godoc
// @Summary Contribute to a group gift
// @Tags GroupGifts
// @Accept json
// @Produce json
// @Param id path string true "Group gift ID"
// @Param request body request_models.ContributeRequest true "Contribution"
// @Success 200 {object} db_models.GroupGift
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse "Gift already completed"
// @Security BearerAuth
// @Router /group-gifts/{id}/contributions [post]
func (gc *GroupGiftController) Contribute(c *gin.Context) {
	var req request_models.ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid contribution")
		return
	}
	gift, err := gc.groupGiftService.Contribute(c.Request.Context(), utils.SessionID(c), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gift, "Contribution recorded")
}

// Vote godoc
// @Summary Vote for a gift option
// @Tags GroupGifts
// @Accept json
// @Produce json
// @Param id path string true "Group gift ID"
// @Param request body request_models.VoteRequest true "Vote"
// @Success 200 {object} db_models.GroupGift
// @Failure 409 {object} utils.APIResponse "Participant already voted"
// @Security BearerAuth
// @Router /group-gifts/{id}/votes [post]
func (gc *GroupGiftController) Vote(c *gin.Context) {
	var req request_models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid vote")
		return
	}
	gift, err := gc.groupGiftService.Vote(c.Request.Context(), utils.SessionID(c), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gift, "Vote recorded")
}

// AddOption godoc
// @Summary Propose a gift option
// @Tags GroupGifts
// @Accept json
// @Produce json
// @Param id path string true "Group gift ID"
// @Param request body request_models.GiftOptionRequest true "Option"
// @Success 200 {object} db_models.GroupGift
// @Security BearerAuth
// @Router /group-gifts/{id}/options [post]
func (gc *GroupGiftController) AddOption(c *gin.Context) {
	var req request_models.GiftOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid gift option")
		return
	}
	gift, err := gc.groupGiftService.AddOption(c.Request.Context(), utils.SessionID(c), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gift, "Gift option added")
}

// AddMessage godoc
// @Summary Post to the group gift chat
// @Tags GroupGifts
// @Accept json
// @Produce json
// @Param id path string true "Group gift ID"
// @Param request body request_models.GroupMessageRequest true "Message"
// @Success 200 {object} db_models.GroupGift
// @Security BearerAuth
// @Router /group-gifts/{id}/messages [post]
func (gc *GroupGiftController) AddMessage(c *gin.Context) {
	var req request_models.GroupMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid message")
		return
	}
	gift, err := gc.groupGiftService.AddMessage(c.Request.Context(), utils.SessionID(c), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gift, "Message posted")
}
