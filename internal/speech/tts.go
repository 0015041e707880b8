// Package speech adapts the hosted text-to-speech and speech-to-text vendor and
// provides the speaking queue and recognition event stream used by the widget.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/apperr"
)

const vendorName = "tts"

type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

type HTTPSynthesizer struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id,omitempty"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

func (h HTTPSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if h.Client == nil {
		h.Client = &http.Client{Timeout: 10 * time.Second}
	}

	b, err := json.Marshal(synthesizeRequest{
		Text:          text,
		ModelID:       h.Model,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	})
	if err != nil {
		return nil, apperr.Vendor(vendorName, "synthesize", err)
	}

	endpoint := strings.TrimRight(h.BaseURL, "/") + "/v1/text-to-speech/" + url.PathEscape(voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, apperr.Vendor(vendorName, "synthesize", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", h.APIKey)

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, apperr.Vendor(vendorName, "synthesize", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.VendorStatus(vendorName, "synthesize", resp.StatusCode)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Vendor(vendorName, "synthesize", err)
	}
	return audio, nil
}

// MockSynthesizer returns the text itself as the audio payload, or Err when set.
type MockSynthesizer struct {
	Err error
}

func (m MockSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(text), nil
}
