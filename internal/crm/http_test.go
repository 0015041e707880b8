package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFindOrCreateSubscriber(t *testing.T) {
	var created, tagged int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/fb/subscriber/findBySystemField":
			if r.URL.Query().Get("field_value") == "known@example.com" {
				_, _ = w.Write([]byte(`{"status":"success","data":[{"id":"sub-1"}]}`))
				return
			}
			_, _ = w.Write([]byte(`{"status":"success","data":[]}`))
		case "/fb/subscriber/createSubscriber":
			created++
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["email"] != "new@example.com" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"status":"success","data":{"id":"sub-2"}}`))
		case "/fb/subscriber/addTagByName":
			tagged++
			_, _ = w.Write([]byte(`{"status":"success"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := HTTPClient{BaseURL: srv.URL, APIKey: "key", Client: srv.Client()}
	ctx := context.Background()

	id, err := c.FindOrCreateSubscriber(ctx, Contact{Email: "known@example.com"})
	if err != nil || id != "sub-1" {
		t.Fatalf("expected sub-1, got %q, %v", id, err)
	}
	if created != 0 {
		t.Fatalf("expected no create for existing subscriber")
	}

	id, err = c.FindOrCreateSubscriber(ctx, Contact{FirstName: "New", Email: "new@example.com"})
	if err != nil || id != "sub-2" {
		t.Fatalf("expected sub-2, got %q, %v", id, err)
	}
	if err := c.AddTag(ctx, id, "insurance-lead"); err != nil {
		t.Fatalf("add tag: %v", err)
	}
	if created != 1 || tagged != 1 {
		t.Fatalf("unexpected call counts: created=%d tagged=%d", created, tagged)
	}
}

func TestHTTPClientPropagatesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := HTTPClient{BaseURL: srv.URL, Client: srv.Client()}
	if err := c.SetField(context.Background(), "sub", "score", 8); err == nil {
		t.Fatalf("expected error")
	}
}
