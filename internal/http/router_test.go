package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/agents"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/config"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/db"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/http/handlers"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/intent"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/mail"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/ratelimit"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/service"
)

func newTestEngine(t *testing.T, limiters Limiters) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := db.NewMemoryStore()
	registry := agents.NewRegistry(agents.Defaults())
	logger := zerolog.Nop()
	h := &handlers.Handler{
		Agents: &service.AgentService{
			Store:    store,
			Registry: registry,
			Engine:   intent.NewEngine(nil),
			Logger:   logger,
		},
		Intake: &service.IntakeService{
			Store:     store,
			Mailer:    mail.LogMailer{Logger: logger},
			Mailboxes: service.Mailboxes{Default: "info@test"},
			Logger:    logger,
		},
		Contact:   &service.ContactService{Store: store, Logger: logger},
		Store:     store,
		Registry:  registry,
		Validator: validator.New(),
		Logger:    logger,
	}
	cfg := config.Config{CORSAllowed: "*", AdminKey: "secret", MaxUploadSizeMB: 1}
	return Router(cfg, h, limiters, logger)
}

func post(r http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterMethodNotAllowed(t *testing.T) {
	r := newTestEngine(t, Limiters{})
	req, _ := http.NewRequest(http.MethodGet, "/agent/interact", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouterStatsRequiresAdminKey(t *testing.T) {
	r := newTestEngine(t, Limiters{})
	if w := post(r, "/agent/stats", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w := post(r, "/agent/stats", "", map[string]string{"X-Admin-Key": "secret"}); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRouterRateLimitsForms(t *testing.T) {
	r := newTestEngine(t, Limiters{Forms: ratelimit.NewMemoryLimiter(1, time.Minute)})
	body := `{"email":"ana@example.com","message":"hi"}`

	if w := post(r, "/contact", body, nil); w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}
	w := post(r, "/contact", body, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	if w := post(r, "/agent/interact", `{"pageType":"home","userInput":"hi"}`, nil); w.Code != http.StatusOK {
		t.Fatalf("agent routes use their own limiter, got %d", w.Code)
	}
}

func TestRouterMetrics(t *testing.T) {
	r := newTestEngine(t, Limiters{})
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("go_goroutines")) {
		t.Fatalf("expected default collectors in output")
	}
}

func TestSplitOrigins(t *testing.T) {
	got := splitOrigins("https://a.example, https://b.example,,")
	if len(got) != 2 || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", got)
	}
}
