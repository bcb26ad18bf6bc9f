package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gifty/internal/models/request_models"
	"gifty/internal/services"
	"gifty/pkg/utils"
)

type RecipientController struct {
	recipientService services.RecipientServiceInterface
}

func NewRecipientController(recipientService services.RecipientServiceInterface) *RecipientController {
	return &RecipientController{
		recipientService: recipientService,
	}
}

// CreateRecipient godoc
// @Summary Save a gift recipient
// @Tags Recipients
// @Accept json
// @Produce json
// @Param request body request_models.RecipientRequest true "Recipient"
// @Success 201 {object} db_models.Recipient
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /recipients [post]
func (rc *RecipientController) CreateRecipient(c *gin.Context) {
	var req request_models.RecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid recipient")
		return
	}
	recipient, err := rc.recipientService.Create(c.Request.Context(), utils.SessionID(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusCreated, recipient, "Recipient created")
}

// ListRecipients godoc
// @Summary List saved recipients
// @Tags Recipients
// @Produce json
// @Success 200 {array} db_models.Recipient
// @Security BearerAuth
// @Router /recipients [get]
func (rc *RecipientController) ListRecipients(c *gin.Context) {
	recipients, err := rc.recipientService.List(c.Request.Context(), utils.SessionID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, recipients, "Recipients fetched successfully")
}

// GetRecipient godoc
// @Summary Get a saved recipient
// @Tags Recipients
// @Produce json
// @Param id path string true "Recipient ID"
// @Success 200 {object} db_models.Recipient
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /recipients/{id} [get]
func (rc *RecipientController) GetRecipient(c *gin.Context) {
	recipient, err := rc.recipientService.Get(c.Request.Context(), utils.SessionID(c), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, recipient, "Recipient fetched successfully")
}

// UpdateRecipient godoc
// @Summary Replace a saved recipient
// @Tags Recipients
// @Accept json
// @Produce json
// @Param id path string true "Recipient ID"
// @Param request body request_models.RecipientRequest true "Recipient"
// @Success 200 {object} db_models.Recipient
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /recipients/{id} [put]
func (rc *RecipientController) UpdateRecipient(c *gin.Context) {
	var req request_models.RecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid recipient")
		return
	}
	recipient, err := rc.recipientService.Update(c.Request.Context(), utils.SessionID(c), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, recipient, "Recipient updated")
}

// DeleteRecipient godoc
// @Summary Delete a saved recipient
// @Tags Recipients
// @Produce json
// @Param id path string true "Recipient ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /recipients/{id} [delete]
func (rc *RecipientController) DeleteRecipient(c *gin.Context) {
	if err := rc.recipientService.Delete(c.Request.Context(), utils.SessionID(c), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Recipient deleted")
}

// StartWizardForRecipient godoc
// @Summary Start a gift finder pre-filled with the recipient
// @Tags Recipients
// @Accept json
// @Produce json
// @Param id path string true "Recipient ID"
// @Param request body request_models.RecipientWizardRequest false "Flow, perfect by default"
// @Success 200 {object} response_models.WizardView
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /recipients/{id}/wizard [post]
func (rc *RecipientController) StartWizardForRecipient(c *gin.Context) {
	var req request_models.RecipientWizardRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	view, err := rc.recipientService.StartWizard(c.Request.Context(), utils.SessionID(c), c.Param("id"), req.Flow)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Wizard started")
}

// UpcomingBirthdays godoc
// @Summary Birthdays coming up
// @Tags Calendar
// @Produce json
// @Param days query int false "Window in days" default(30)
// @Success 200 {array} response_models.BirthdayEvent
// @Security BearerAuth
// @Router /calendar/upcoming [get]
func (rc *RecipientController) UpcomingBirthdays(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(services.DefaultUpcomingDays)))
	if err != nil || days < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid number of days")
		return
	}
	events, err := rc.recipientService.Upcoming(c.Request.Context(), utils.SessionID(c), days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, events, "Upcoming birthdays fetched successfully")
}

// MonthBirthdays godoc
// @Summary Birthdays in a calendar month
// @Tags Calendar
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month 1-12"
// @Success 200 {array} response_models.BirthdayEvent
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /calendar/month [get]
func (rc *RecipientController) MonthBirthdays(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid month")
		return
	}
	events, err := rc.recipientService.Month(c.Request.Context(), utils.SessionID(c), year, month)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, events, "Birthdays fetched successfully")
}

// SendReminders godoc
// @Summary Email reminders for upcoming birthdays
// @Tags Calendar
// @Produce json
// @Param days query int false "Window in days" default(7)
// @Success 200 {object} response_models.ReminderResult
// @Failure 503 {object} utils.APIResponse
// @Security BearerAuth
// @Router /calendar/reminders [post]
func (rc *RecipientController) SendReminders(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(services.DefaultReminderDays)))
	if err != nil || days < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid number of days")
		return
	}
	result, err := rc.recipientService.SendReminders(c.Request.Context(), utils.SessionID(c), days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Reminders sent")
}
