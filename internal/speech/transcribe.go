package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/apperr"
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

type HTTPTranscriber struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

type transcribeResponse struct {
	Text string `json:"text"`
}

func (h HTTPTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if h.Client == nil {
		h.Client = &http.Client{Timeout: 10 * time.Second}
	}
	model := h.Model
	if model == "" {
		model = "scribe_v1"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("model_id", model); err != nil {
		return "", apperr.Vendor("stt", "transcribe", err)
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", apperr.Vendor("stt", "transcribe", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", apperr.Vendor("stt", "transcribe", err)
	}
	if err := w.Close(); err != nil {
		return "", apperr.Vendor("stt", "transcribe", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(h.BaseURL, "/")+"/v1/speech-to-text", &buf)
	if err != nil {
		return "", apperr.Vendor("stt", "transcribe", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("xi-api-key", h.APIKey)

	resp, err := h.Client.Do(req)
	if err != nil {
		return "", apperr.Vendor("stt", "transcribe", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.VendorStatus("stt", "transcribe", resp.StatusCode)
	}
	var r transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", apperr.Vendor("stt", "transcribe", err)
	}
	return strings.TrimSpace(r.Text), nil
}

// MockTranscriber returns Text for any audio.
type MockTranscriber struct {
	Text string
	Err  error
}

func (m MockTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
