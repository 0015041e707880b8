package crm

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

const vendorName = "crm"

type HTTPClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type subscriber struct {
	ID string `json:"id"`
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// FindOrCreateSubscriber looks the contact up by email and creates it when the
// vendor has no match.
func (h HTTPClient) FindOrCreateSubscriber(ctx context.Context, c Contact) (string, error) {
	var found []subscriber
	q := url.Values{"field_name": {"email"}, "field_value": {c.Email}}
	if err := h.do(ctx, http.MethodGet, "/fb/subscriber/findBySystemField?"+q.Encode(), nil, &found, "find subscriber"); err != nil {
		return "", err
	}
	if len(found) > 0 && found[0].ID != "" {
		return found[0].ID, nil
	}

	body := map[string]any{
		"first_name":       c.FirstName,
		"last_name":        c.LastName,
		"email":            c.Email,
		"has_opt_in_email": true,
	}
	if c.Phone != "" {
		body["phone"] = c.Phone
		body["has_opt_in_sms"] = true
	}
	var created subscriber
	if err := h.do(ctx, http.MethodPost, "/fb/subscriber/createSubscriber", body, &created, "create subscriber"); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (h HTTPClient) AddTag(ctx context.Context, subscriberID, tag string) error {
	body := map[string]any{"subscriber_id": subscriberID, "tag_name": tag}
	return h.do(ctx, http.MethodPost, "/fb/subscriber/addTagByName", body, nil, "add tag")
}

func (h HTTPClient) SetField(ctx context.Context, subscriberID, field string, value any) error {
	body := map[string]any{"subscriber_id": subscriberID, "field_name": field, "field_value": value}
	return h.do(ctx, http.MethodPost, "/fb/subscriber/setCustomFieldByName", body, nil, "set field")
}

func (h HTTPClient) do(ctx context.Context, method, path string, in, out any, op string) error {
	if h.Client == nil {
		h.Client = &http.Client{Timeout: 10 * time.Second}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apperr.Vendor(vendorName, op, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(h.BaseURL, "/")+path, body)
	if err != nil {
		return apperr.Vendor(vendorName, op, err)
	}
	req.Header.Set("Authorization", "Bearer "+h.APIKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return apperr.Vendor(vendorName, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperr.VendorStatus(vendorName, op, resp.StatusCode)
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return apperr.Vendor(vendorName, op, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperr.Vendor(vendorName, op, err)
	}
	return nil
}
