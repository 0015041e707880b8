package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/agents"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/db"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/service"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/speech"
)

type Handler struct {
	Agents      *service.AgentService
	Intake      *service.IntakeService
	Contact     *service.ContactService
	Store       db.Gateway
	Registry    *agents.Registry
	Synth       speech.Synthesizer
	Transcriber speech.Transcriber
	Validator   *validator.Validate
	Logger      zerolog.Logger

	MaxTTSChars   int
	VendorTimeout time.Duration
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) MethodNotAllowed(c *gin.Context) {
	writeError(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", c.Request.Method)
}

func (h *Handler) NotFound(c *gin.Context) {
	writeError(c, http.StatusNotFound, "NOT_FOUND", "Not found", c.Request.URL.Path)
}

func (h *Handler) vendorContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.VendorTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.VendorTimeout)
}
