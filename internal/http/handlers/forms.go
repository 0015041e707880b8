package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/service"
)

type IntakeRequest struct {
	ServiceType       string `json:"serviceType" validate:"required,max=64"`
	FirstName         string `json:"firstName" validate:"required,max=100"`
	LastName          string `json:"lastName" validate:"omitempty,max=100"`
	Email             string `json:"email" validate:"required,email,max=254"`
	Phone             string `json:"phone" validate:"omitempty,max=32"`
	ContactPreference string `json:"contactPreference" validate:"omitempty,max=32"`
	Message           string `json:"message" validate:"omitempty,max=5000"`
	SubmittedFrom     string `json:"submittedFrom" validate:"omitempty,max=500"`
}

// @Summary Intake form
// @Description Emails the submission to the mailbox for its service type and stores it
// @Tags forms
// @Accept json
// @Produce json
// @Param body body IntakeRequest true "Submission"
// @Success 200 {object} service.IntakeResult
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /intake/submit [post]
func (h *Handler) IntakeSubmit(c *gin.Context) {
	var req IntakeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	res, err := h.Intake.Submit(c.Request.Context(), service.IntakeRequest{
		ServiceType:       req.ServiceType,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		ContactPreference: req.ContactPreference,
		Message:           req.Message,
		SubmittedFrom:     req.SubmittedFrom,
	})
	if err != nil {
		h.writeServiceError(c, err, "intake")
		return
	}
	c.JSON(http.StatusOK, res)
}

type ContactRequest struct {
	Name    string `json:"name" validate:"omitempty,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,max=5000"`
}

// @Summary Contact form
// @Tags forms
// @Accept json
// @Produce json
// @Param body body ContactRequest true "Message"
// @Success 200 {object} service.ContactResult
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /contact [post]
func (h *Handler) ContactSubmit(c *gin.Context) {
	var req ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	res, err := h.Contact.Submit(c.Request.Context(), service.ContactRequest{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		h.writeServiceError(c, err, "contact")
		return
	}
	c.JSON(http.StatusOK, res)
}
