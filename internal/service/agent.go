package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/agents"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/ai"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/apperr"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/db"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/intent"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/metrics"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/telemetry"
)

const StatsPeriod = "30 days"

type AgentService struct {
	Store          db.Gateway
	Registry       *agents.Registry
	Engine         *intent.Engine
	AI             ai.Adapter
	Leads          *LeadSync
	Logger         zerolog.Logger
	PersistTimeout time.Duration
	VendorTimeout  time.Duration
}

type InteractRequest struct {
	PageType  string
	UserInput string
	UserEmail string
	UserName  string
}

type InteractResult struct {
	Success       bool                   `json:"success"`
	Agent         string                 `json:"agent"`
	PageType      models.PageKey         `json:"pageType"`
	Response      models.ResponsePayload `json:"response"`
	InteractionID string                 `json:"interactionId"`
}

// Interact runs one user turn through the page agent. The interaction record, the
// optional lead and the completion are written in one transaction, so a failed turn
// leaves nothing behind.
func (s *AgentService) Interact(ctx context.Context, req InteractRequest) (InteractResult, error) {
	pageType := strings.TrimSpace(req.PageType)
	input := strings.TrimSpace(req.UserInput)
	if pageType == "" {
		return InteractResult{}, apperr.ValidationError{Field: "pageType"}
	}
	if input == "" {
		return InteractResult{}, apperr.ValidationError{Field: "userInput"}
	}
	profile, ok := s.Registry.Lookup(models.PageKey(pageType))
	if !ok {
		return InteractResult{}, apperr.UnknownPageError{Page: pageType}
	}

	ctx, span := telemetry.Tracer().Start(ctx, "agent.interact")
	defer span.End()
	span.SetAttributes(
		attribute.String("agent.page", pageType),
		attribute.String("agent.id", profile.AgentID),
	)

	rec := &models.InteractionRecord{
		PageKey:   profile.PageKey,
		AgentID:   profile.AgentID,
		AgentName: profile.DisplayName,
		UserInput: input,
		UserEmail: orDefault(req.UserEmail, models.AnonymousEmail),
		UserName:  orDefault(req.UserName, models.AnonymousName),
		Status:    models.InteractionInitiated,
	}

	var reply intent.Reply
	pctx, cancel := withTimeout(ctx, s.PersistTimeout)
	defer cancel()
	err := s.Store.WithTx(pctx, func(tx db.Tx) error {
		if err := tx.CreateInteraction(pctx, rec); err != nil {
			return fmt.Errorf("create interaction: %w", err)
		}
		r, err := s.Engine.HandlePage(intent.Turn{
			Input:     input,
			Profile:   profile,
			UserName:  rec.UserName,
			UserEmail: rec.UserEmail,
		})
		if err != nil {
			return err
		}
		if r.Lead != nil {
			if err := tx.CreateLead(pctx, r.Lead); err != nil {
				return fmt.Errorf("create lead: %w", err)
			}
			r.Payload.LeadID = r.Lead.ID
		}
		if err := tx.CompleteInteraction(pctx, rec.ID, r.Payload); err != nil {
			return fmt.Errorf("complete interaction: %w", err)
		}
		reply = r
		return nil
	})
	if err != nil {
		metrics.Interactions.WithLabelValues(pageType, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "interaction failed")
		s.Logger.Error().Err(err).
			Str("page", pageType).
			Str("agent_id", profile.AgentID).
			Msg("agent interaction failed")
		return InteractResult{}, apperr.Vendor("storage", "interaction", err)
	}

	metrics.Interactions.WithLabelValues(pageType, "completed").Inc()
	span.SetAttributes(attribute.String("interaction.id", rec.ID))
	if reply.Lead != nil {
		metrics.Leads.Inc()
		metrics.LeadScore.Observe(float64(reply.Lead.QualificationScore))
		if s.Leads != nil {
			s.Leads.SyncLead(ctx, *reply.Lead)
		}
	}

	return InteractResult{
		Success:       true,
		Agent:         profile.DisplayName,
		PageType:      profile.PageKey,
		Response:      reply.Payload,
		InteractionID: rec.ID,
	}, nil
}

// Stats aggregates the interactions recorded in the 30 days before now.
func (s *AgentService) Stats(ctx context.Context, now time.Time) (models.InteractionStats, error) {
	pctx, cancel := withTimeout(ctx, s.PersistTimeout)
	defer cancel()
	records, err := s.Store.ListInteractionsSince(pctx, now.AddDate(0, 0, -30))
	if err != nil {
		s.Logger.Error().Err(err).Msg("list interactions failed")
		return models.InteractionStats{}, apperr.Vendor("storage", "list interactions", err)
	}
	return AggregateInteractions(records), nil
}

// Chat answers a free-text widget message with the ordered chat rules. An empty
// page defaults to home.
func (s *AgentService) Chat(message, pageType string) (models.IntentMatch, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.IntentMatch{}, apperr.ValidationError{Field: "message"}
	}
	page := models.PageHome
	if pageType = strings.TrimSpace(pageType); pageType != "" {
		if _, ok := s.Registry.Lookup(models.PageKey(pageType)); !ok {
			return models.IntentMatch{}, apperr.UnknownPageError{Page: pageType}
		}
		page = models.PageKey(pageType)
	}
	m := s.Engine.Chat(message, page)
	metrics.ChatIntents.WithLabelValues(string(m.Intent)).Inc()
	return m, nil
}

type Bootstrap struct {
	Profile    models.AgentProfile `json:"profile"`
	SessionURL string              `json:"sessionUrl,omitempty"`
}

// Bootstrap returns what the browser needs to start the page agent. A failing
// platform call is logged and the client connects with the public agent id.
func (s *AgentService) Bootstrap(ctx context.Context, pageType string) (Bootstrap, error) {
	profile, ok := s.Registry.Lookup(models.PageKey(strings.TrimSpace(pageType)))
	if !ok {
		return Bootstrap{}, apperr.UnknownPageError{Page: pageType}
	}
	out := Bootstrap{Profile: profile}
	if s.AI == nil {
		return out, nil
	}

	vctx, cancel := withTimeout(ctx, s.VendorTimeout)
	defer cancel()
	url, err := s.AI.SessionURL(vctx, profile.AgentID)
	metrics.VendorResult("convai", err)
	if err != nil {
		s.Logger.Warn().Err(err).Str("agent_id", profile.AgentID).Msg("signed session url unavailable")
		return out, nil
	}
	out.SessionURL = url
	return out, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
