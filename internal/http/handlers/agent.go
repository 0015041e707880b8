package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/metrics"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/service"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/speech"
)

type InteractRequest struct {
	PageType  string `json:"pageType" validate:"required,max=32"`
	UserInput string `json:"userInput" validate:"required,max=4000"`
	UserEmail string `json:"userEmail" validate:"omitempty,max=254"`
	UserName  string `json:"userName" validate:"omitempty,max=200"`
}

// @Summary Agent interaction
// @Description Runs one user turn through the agent assigned to the page
// @Tags agent
// @Accept json
// @Produce json
// @Param body body InteractRequest true "Interaction"
// @Success 200 {object} service.InteractResult
// @Failure 400 {object} map[string]any
// @Failure 405 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /agent/interact [post]
func (h *Handler) Interact(c *gin.Context) {
	var req InteractRequest
	if !h.bindJSON(c, &req) {
		return
	}
	res, err := h.Agents.Interact(c.Request.Context(), service.InteractRequest{
		PageType:  req.PageType,
		UserInput: req.UserInput,
		UserEmail: req.UserEmail,
		UserName:  req.UserName,
	})
	if err != nil {
		h.writeServiceError(c, err, "interact")
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Interaction stats
// @Description Aggregates interactions of the last 30 days
// @Tags agent
// @Produce json
// @Param X-Admin-Key header string false "Admin key"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /agent/stats [post]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.Agents.Stats(c.Request.Context(), time.Now())
	if err != nil {
		h.writeServiceError(c, err, "stats")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
		"period":  service.StatsPeriod,
	})
}

type ChatRequest struct {
	Message  string `json:"message" validate:"required,max=2000"`
	PageType string `json:"pageType" validate:"omitempty,max=32"`
}

// @Summary Widget chat
// @Description Answers a free-text widget message with the keyword intent rules
// @Tags agent
// @Accept json
// @Produce json
// @Param body body ChatRequest true "Message"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /agent/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if !h.bindJSON(c, &req) {
		return
	}
	m, err := h.Agents.Chat(req.Message, req.PageType)
	if err != nil {
		h.writeServiceError(c, err, "chat")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"intent":   m.Intent,
		"response": m.ResponseText,
		"payload":  m.StructuredPayload,
	})
}

// @Summary Agent profiles
// @Tags agent
// @Produce json
// @Success 200 {object} map[string]any
// @Router /agent/profiles [get]
func (h *Handler) Profiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "profiles": h.Registry.All()})
}

// @Summary Agent bootstrap
// @Description Profile of the page agent plus a signed session URL when the platform is configured
// @Tags agent
// @Produce json
// @Param pageType path string true "Page type"
// @Success 200 {object} service.Bootstrap
// @Failure 400 {object} map[string]any
// @Router /agent/profiles/{pageType} [get]
func (h *Handler) Profile(c *gin.Context) {
	b, err := h.Agents.Bootstrap(c.Request.Context(), c.Param("pageType"))
	if err != nil {
		h.writeServiceError(c, err, "bootstrap")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"profile":    b.Profile,
		"sessionUrl": b.SessionURL,
	})
}

type SpeakRequest struct {
	Text     string `json:"text" validate:"required,max=20000"`
	PageType string `json:"pageType" validate:"omitempty,max=32"`
	VoiceID  string `json:"voiceId" validate:"omitempty,max=64"`
}

// @Summary Text to speech
// @Description Cleans and truncates the text, then synthesizes it with the page agent's voice. A 502 tells the client to use on-device synthesis.
// @Tags speech
// @Accept json
// @Produce audio/mpeg
// @Param body body SpeakRequest true "Text"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /agent/speak [post]
func (h *Handler) Speak(c *gin.Context) {
	var req SpeakRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if h.Synth == nil {
		writeError(c, http.StatusServiceUnavailable, "TTS_UNAVAILABLE", "Speech synthesis is not configured", nil)
		return
	}

	voice := strings.TrimSpace(req.VoiceID)
	if voice == "" {
		page := models.PageKey(strings.TrimSpace(req.PageType))
		if page == "" {
			page = models.PageHome
		}
		p, ok := h.Registry.Lookup(page)
		if !ok {
			writeError(c, http.StatusBadRequest, "UNKNOWN_PAGE", "unknown page type", gin.H{"pageType": req.PageType})
			return
		}
		voice = p.VoiceID
	}

	text := speech.PrepareText(req.Text, h.MaxTTSChars)
	if text == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "text is empty after cleanup", gin.H{"field": "text"})
		return
	}

	ctx, cancel := h.vendorContext(c)
	defer cancel()
	audio, err := h.Synth.Synthesize(ctx, text, voice)
	metrics.VendorResult("tts", err)
	if err != nil {
		h.Logger.Warn().Err(err).Str("voice_id", voice).Msg("tts failed")
		writeError(c, http.StatusBadGateway, "VENDOR_ERROR", "Speech synthesis failed", err.Error())
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

// @Summary Speech to text
// @Tags speech
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Recorded audio"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /agent/transcribe [post]
func (h *Handler) Transcribe(c *gin.Context) {
	if h.Transcriber == nil {
		writeError(c, http.StatusServiceUnavailable, "STT_UNAVAILABLE", "Speech recognition is not configured", nil)
		return
	}
	fh, err := c.FormFile("audio")
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "audio is required", gin.H{"field": "audio"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unreadable upload", err.Error())
		return
	}
	defer f.Close()

	ctx, cancel := h.vendorContext(c)
	defer cancel()
	text, err := h.Transcriber.Transcribe(ctx, f, fh.Filename)
	metrics.VendorResult("stt", err)
	if err != nil {
		h.Logger.Warn().Err(err).Str("filename", fh.Filename).Msg("transcription failed")
		writeError(c, http.StatusBadGateway, "VENDOR_ERROR", "Speech recognition failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transcript": text})
}
