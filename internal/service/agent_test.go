package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/agents"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/ai"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/apperr"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/crm"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/db"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/intent"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

// countingGateway records every write that reaches the underlying store.
type countingGateway struct {
	*db.MemoryStore
	txs          int
	creates      int
	completes    int
	leads        int
	failComplete bool
}

func (g *countingGateway) WithTx(ctx context.Context, fn func(tx db.Tx) error) error {
	g.txs++
	return g.MemoryStore.WithTx(ctx, func(tx db.Tx) error {
		return fn(&countingTx{Tx: tx, g: g})
	})
}

type countingTx struct {
	db.Tx
	g *countingGateway
}

func (t *countingTx) CreateInteraction(ctx context.Context, rec *models.InteractionRecord) error {
	t.g.creates++
	return t.Tx.CreateInteraction(ctx, rec)
}

func (t *countingTx) CompleteInteraction(ctx context.Context, id string, resp models.ResponsePayload) error {
	t.g.completes++
	if t.g.failComplete {
		return errors.New("write failed")
	}
	return t.Tx.CompleteInteraction(ctx, id, resp)
}

func (t *countingTx) CreateLead(ctx context.Context, lead *models.LeadRecord) error {
	t.g.leads++
	return t.Tx.CreateLead(ctx, lead)
}

type recordingCRM struct {
	subscribers []crm.Contact
	tags        []string
}

func (r *recordingCRM) FindOrCreateSubscriber(ctx context.Context, c crm.Contact) (string, error) {
	r.subscribers = append(r.subscribers, c)
	return "sub-1", nil
}

func (r *recordingCRM) AddTag(ctx context.Context, id, tag string) error {
	r.tags = append(r.tags, tag)
	return nil
}

func (r *recordingCRM) SetField(ctx context.Context, id, field string, value any) error {
	return nil
}

func newAgentService(g db.Gateway, c crm.Client) *AgentService {
	return &AgentService{
		Store:          g,
		Registry:       agents.NewRegistry(agents.Defaults()),
		Engine:         intent.NewEngine(nil),
		AI:             ai.MockAdapter{URL: "wss://example.test/s"},
		Leads:          &LeadSync{CRM: c, Logger: zerolog.Nop()},
		Logger:         zerolog.Nop(),
		PersistTimeout: 5 * time.Second,
		VendorTimeout:  time.Second,
	}
}

func TestInteractRejectsBeforeWriting(t *testing.T) {
	g := &countingGateway{MemoryStore: db.NewMemoryStore()}
	svc := newAgentService(g, crm.Noop{})

	cases := []struct {
		req     InteractRequest
		unknown bool
	}{
		{InteractRequest{UserInput: "hi"}, false},
		{InteractRequest{PageType: "home", UserInput: "   "}, false},
		{InteractRequest{PageType: "pricing", UserInput: "hi"}, true},
		{InteractRequest{PageType: "Home", UserInput: "hi"}, true},
	}
	for _, tc := range cases {
		_, err := svc.Interact(context.Background(), tc.req)
		if !apperr.IsClientError(err) {
			t.Fatalf("%+v: expected client error, got %v", tc.req, err)
		}
		var unknown apperr.UnknownPageError
		if errors.As(err, &unknown) != tc.unknown {
			t.Fatalf("%+v: unexpected error type %T", tc.req, err)
		}
	}
	if g.txs != 0 || g.creates != 0 {
		t.Fatalf("expected no persistence calls, got txs=%d creates=%d", g.txs, g.creates)
	}
}

func TestInteractEveryPage(t *testing.T) {
	registry := agents.NewRegistry(agents.Defaults())
	for _, profile := range registry.All() {
		g := &countingGateway{MemoryStore: db.NewMemoryStore()}
		svc := newAgentService(g, crm.Noop{})

		res, err := svc.Interact(context.Background(), InteractRequest{PageType: string(profile.PageKey), UserInput: "tell me more"})
		if err != nil {
			t.Fatalf("%s: interact: %v", profile.PageKey, err)
		}
		if !res.Success || res.PageType != profile.PageKey || res.Agent != profile.DisplayName {
			t.Fatalf("%s: unexpected result %+v", profile.PageKey, res)
		}
		if g.creates != 1 || g.completes != 1 {
			t.Fatalf("%s: expected one create and one update, got %d/%d", profile.PageKey, g.creates, g.completes)
		}

		rec, err := g.GetInteraction(context.Background(), res.InteractionID)
		if err != nil {
			t.Fatalf("%s: get: %v", profile.PageKey, err)
		}
		if rec.Status != models.InteractionCompleted || rec.Response == nil {
			t.Fatalf("%s: record not completed: %+v", profile.PageKey, rec)
		}
		if rec.UserEmail != models.AnonymousEmail || rec.UserName != models.AnonymousName {
			t.Fatalf("%s: expected anonymous defaults, got %q/%q", profile.PageKey, rec.UserEmail, rec.UserName)
		}

		wantLeads := 0
		if profile.PageKey == models.PageContact {
			wantLeads = 1
		}
		if g.leads != wantLeads {
			t.Fatalf("%s: expected %d leads, got %d", profile.PageKey, wantLeads, g.leads)
		}
	}
}

func TestInteractContactCreatesScoredLead(t *testing.T) {
	g := &countingGateway{MemoryStore: db.NewMemoryStore()}
	rc := &recordingCRM{}
	svc := newAgentService(g, rc)

	input := "I need an insurance quote for my business"
	res, err := svc.Interact(context.Background(), InteractRequest{
		PageType:  "contact",
		UserInput: input,
		UserEmail: "ana@example.com",
		UserName:  "Ana",
	})
	if err != nil {
		t.Fatalf("interact: %v", err)
	}

	leads := g.Leads()
	if len(leads) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(leads))
	}
	lead := leads[0]
	if lead.QualificationScore != 8 || lead.QualificationScore != intent.ScoreLead(input) {
		t.Fatalf("unexpected score %d", lead.QualificationScore)
	}
	if lead.PageOrigin != models.PageContact || lead.Status != models.LeadStatusNew || lead.Email != "ana@example.com" {
		t.Fatalf("unexpected lead %+v", lead)
	}
	if res.Response.LeadID != lead.ID {
		t.Fatalf("expected response to echo lead id %q, got %q", lead.ID, res.Response.LeadID)
	}
	if len(rc.subscribers) != 1 || rc.subscribers[0].Email != "ana@example.com" {
		t.Fatalf("expected lead synced to crm, got %+v", rc.subscribers)
	}
}

func TestInteractAnonymousLeadSkipsCRM(t *testing.T) {
	g := &countingGateway{MemoryStore: db.NewMemoryStore()}
	rc := &recordingCRM{}
	svc := newAgentService(g, rc)

	if _, err := svc.Interact(context.Background(), InteractRequest{PageType: "contact", UserInput: "help"}); err != nil {
		t.Fatalf("interact: %v", err)
	}
	if len(rc.subscribers) != 0 {
		t.Fatalf("expected anonymous lead not to reach crm")
	}
}

func TestInteractFailedCompletionLeavesNothing(t *testing.T) {
	g := &countingGateway{MemoryStore: db.NewMemoryStore(), failComplete: true}
	svc := newAgentService(g, crm.Noop{})

	_, err := svc.Interact(context.Background(), InteractRequest{PageType: "contact", UserInput: "quote please"})
	var verr *apperr.VendorError
	if !errors.As(err, &verr) {
		t.Fatalf("expected vendor error, got %v", err)
	}
	all, _ := g.ListInteractionsSince(context.Background(), time.Time{})
	if len(all) != 0 || len(g.Leads()) != 0 {
		t.Fatalf("expected no committed records, got %d interactions, %d leads", len(all), len(g.Leads()))
	}
}

func TestStats(t *testing.T) {
	g := &countingGateway{MemoryStore: db.NewMemoryStore()}
	svc := newAgentService(g, crm.Noop{})
	ctx := context.Background()

	for _, page := range []string{"home", "home", "insurance"} {
		if _, err := svc.Interact(ctx, InteractRequest{PageType: page, UserInput: "hello"}); err != nil {
			t.Fatalf("interact: %v", err)
		}
	}

	stats, err := svc.Stats(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalInteractions != 3 || stats.CompletedCount != 3 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.ByPageType["home"] != 2 || stats.ByAgent["Grace"] != 1 {
		t.Fatalf("unexpected breakdown %+v", stats)
	}

	old, _ := svc.Stats(ctx, time.Now().AddDate(0, 0, 31))
	if old.TotalInteractions != 0 {
		t.Fatalf("expected interactions outside the window to be excluded")
	}
}

func TestAggregateInteractions(t *testing.T) {
	stats := AggregateInteractions([]models.InteractionRecord{
		{PageKey: models.PageHome, AgentName: "Flo", Status: models.InteractionCompleted},
		{PageKey: models.PageHome, AgentName: "Flo", Status: models.InteractionInitiated},
		{PageKey: models.PageContact, AgentName: "Jordan", Status: models.InteractionCompleted},
	})
	if stats.TotalInteractions != 3 || stats.CompletedCount != 2 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.ByAgent["Flo"] != 2 || stats.ByPageType["contact"] != 1 {
		t.Fatalf("unexpected breakdown %+v", stats)
	}
}

func TestChat(t *testing.T) {
	svc := newAgentService(db.NewMemoryStore(), crm.Noop{})

	m, err := svc.Chat("I'd like a quote", "")
	if err != nil || m.Intent != models.IntentQuote {
		t.Fatalf("expected quote intent, got %+v, %v", m, err)
	}
	if _, err := svc.Chat("hi", "pricing"); !apperr.IsClientError(err) {
		t.Fatalf("expected unknown page error, got %v", err)
	}
	if _, err := svc.Chat("  ", "home"); !apperr.IsClientError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type failingAdapter struct{}

func (failingAdapter) SessionURL(ctx context.Context, agentID string) (string, error) {
	return "", errors.New("platform down")
}

func TestBootstrap(t *testing.T) {
	svc := newAgentService(db.NewMemoryStore(), crm.Noop{})

	b, err := svc.Bootstrap(context.Background(), "insurance")
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if b.Profile.DisplayName != "Grace" || b.SessionURL != "wss://example.test/s" {
		t.Fatalf("unexpected bootstrap %+v", b)
	}

	svc.AI = failingAdapter{}
	b, err = svc.Bootstrap(context.Background(), "insurance")
	if err != nil || b.SessionURL != "" {
		t.Fatalf("expected degraded bootstrap, got %+v, %v", b, err)
	}

	if _, err := svc.Bootstrap(context.Background(), "about"); !apperr.IsClientError(err) {
		t.Fatalf("expected unknown page error, got %v", err)
	}
}
