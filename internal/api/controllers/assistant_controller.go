package controllers

import (
	"github.com/gin-gonic/gin"

	"gifty/internal/models/request_models"
	"gifty/internal/services"
	"gifty/pkg/utils"
)

type AssistantController struct {
	assistantService services.AssistantServiceInterface
}

func NewAssistantController(assistantService services.AssistantServiceInterface) *AssistantController {
	return &AssistantController{assistantService: assistantService}
}

// StartAssistant godoc
// @Summary Start a new voice assistant conversation
// @Tags Voice
// @Produce json
// @Success 200 {object} response_models.AssistantReply
// @Security BearerAuth
// @Router /voice/assistant [delete]
func (ac *AssistantController) StartAssistant(c *gin.Context) {
	reply, err := ac.assistantService.Greet(c.Request.Context(), utils.SessionID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, reply, "Assistant ready")
}

// Assist godoc
// @Summary Answer the voice assistant
// @Description Returns the next question, or the submitted gift request once occasion, recipient, interests and budget are known.
// @Tags Voice
// @Accept json
// @Produce json
// @Param request body request_models.AssistRequest true "What the user said"
// @Success 200 {object} response_models.AssistantReply
// @Failure 400 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Security BearerAuth
// @Router /voice/assistant [post]
func (ac *AssistantController) Assist(c *gin.Context) {
	var req request_models.AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleServiceError(c, utils.ErrEmptyText)
		return
	}
	reply, err := ac.assistantService.Assist(c.Request.Context(), utils.SessionID(c), req.Text)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	message := "Assistant needs more details"
	if reply.Done {
		message = "Gift request submitted"
	}
	utils.RespondSuccess(c, reply, message)
}
