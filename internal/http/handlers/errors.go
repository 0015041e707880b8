package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/apperr"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/http/middleware"
)

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error":   message,
		"code":    code,
		"details": details,
	})
}

// writeServiceError maps service errors onto the envelope. Anything that is not a
// client error is logged here and reported as a 500 with the underlying text.
func (h *Handler) writeServiceError(c *gin.Context, err error, op string) {
	if apperr.IsClientError(err) {
		writeClientError(c, err)
		return
	}
	var vendor *apperr.VendorError
	switch {
	case errors.As(err, &vendor):
		h.Logger.Error().Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("op", op).
			Str("vendor", vendor.Vendor).
			Msg("request failed")
		writeError(c, http.StatusInternalServerError, "VENDOR_ERROR", "Internal server error", err.Error())
	default:
		h.Logger.Error().Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("op", op).
			Msg("request failed")
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err.Error())
	}
}

func writeClientError(c *gin.Context, err error) {
	var unknown apperr.UnknownPageError
	if errors.As(err, &unknown) {
		writeError(c, http.StatusBadRequest, "UNKNOWN_PAGE", unknown.Error(), gin.H{"pageType": unknown.Page})
		return
	}
	var details any
	var validation apperr.ValidationError
	if errors.As(err, &validation) {
		details = gin.H{"field": validation.Field}
	}
	writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), details)
}

// bindJSON decodes and validates a request body, writing the 400 envelope on
// failure.
func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return false
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", validationDetails(err))
		return false
	}
	return true
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[lowerFirst(fe.Field())] = fe.Tag()
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
