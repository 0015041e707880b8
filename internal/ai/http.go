package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/apperr"
)

const vendorName = "convai"

type HTTPAdapter struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type signedURLResponse struct {
	SignedURL string `json:"signed_url"`
}

func (h HTTPAdapter) SessionURL(ctx context.Context, agentID string) (string, error) {
	if h.Client == nil {
		h.Client = &http.Client{Timeout: 10 * time.Second}
	}

	endpoint := strings.TrimRight(h.BaseURL, "/") + "/v1/convai/conversation/get-signed-url?agent_id=" + url.QueryEscape(agentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", apperr.Vendor(vendorName, "signed url", err)
	}
	req.Header.Set("xi-api-key", h.APIKey)

	resp, err := h.Client.Do(req)
	if err != nil {
		return "", apperr.Vendor(vendorName, "signed url", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.VendorStatus(vendorName, "signed url", resp.StatusCode)
	}

	var r signedURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", apperr.Vendor(vendorName, "signed url", err)
	}
	return r.SignedURL, nil
}
