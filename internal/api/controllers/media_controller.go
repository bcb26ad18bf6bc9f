package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gifty/internal/models/request_models"
	"gifty/internal/models/response_models"
	"gifty/internal/services"
	"gifty/pkg/utils"
)

type MediaController struct {
	voiceService  services.VoiceServiceInterface
	imageService  services.ImageServiceInterface
	nearbyService services.NearbyServiceInterface
}

func NewMediaController(
	voiceService services.VoiceServiceInterface,
	imageService services.ImageServiceInterface,
	nearbyService services.NearbyServiceInterface,
) *MediaController {
	return &MediaController{
		voiceService:  voiceService,
		imageService:  imageService,
		nearbyService: nearbyService,
	}
}

// Transcribe godoc
// @Summary Transcribe a recorded answer
// @Tags Voice
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Recording, at most 25MB"
// @Success 200 {object} response_models.TranscriptionResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /voice/transcribe [post]
func (mc *MediaController) Transcribe(c *gin.Context) {
	header, err := c.FormFile("audio")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Audio file is required")
		return
	}
	if header.Size > services.MaxAudioBytes {
		utils.HandleServiceError(c, utils.ErrAudioTooLarge)
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Audio file could not be read")
		return
	}
	defer file.Close()

	text, err := mc.voiceService.Transcribe(c.Request.Context(), header.Filename, file, header.Size)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.TranscriptionResponse{Text: text}, "Audio transcribed")
}

// Speak godoc
// @Summary Read text aloud
// @Tags Voice
// @Accept json
// @Produce audio/mpeg
// @Param request body request_models.SpeakRequest true "Text"
// @Success 200 {file} binary
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /voice/speak [post]
func (mc *MediaController) Speak(c *gin.Context) {
	var req request_models.SpeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleServiceError(c, utils.ErrEmptyText)
		return
	}
	audio, err := mc.voiceService.Speak(c.Request.Context(), req.Text)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

// FindImage godoc
// @Summary Find a product photo for a gift
// @Tags Images
// @Produce json
// @Param q query string true "Gift name"
// @Success 200 {object} response_models.ProductImage
// @Failure 503 {object} utils.APIResponse
// @Security BearerAuth
// @Router /images [get]
func (mc *MediaController) FindImage(c *gin.Context) {
	image, err := mc.imageService.Find(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, image, "Image lookup finished")
}

// NearbyStores godoc
// @Summary Find stores near a location that may sell the gift
// @Tags Stores
// @Produce json
// @Param location query string true "Address or city"
// @Param gift query string true "Gift name"
// @Success 200 {object} response_models.NearbyStoresResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /stores/nearby [get]
func (mc *MediaController) NearbyStores(c *gin.Context) {
	stores, err := mc.nearbyService.Find(c.Request.Context(), c.Query("location"), c.Query("gift"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	message := "Stores fetched successfully"
	if len(stores.Stores) == 0 {
		message = "No stores found nearby. Try expanding your search or changing the product description."
	}
	utils.RespondSuccess(c, stores, message)
}
