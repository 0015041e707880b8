package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/apperr"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/db"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

type ContactRequest struct {
	Name    string
	Email   string
	Message string
}

type ContactResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

type ContactService struct {
	Store          db.Gateway
	Leads          *LeadSync
	Logger         zerolog.Logger
	PersistTimeout time.Duration
}

func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (ContactResult, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Email == "" {
		return ContactResult{}, apperr.ValidationError{Field: "email"}
	}
	if msg.Message == "" {
		return ContactResult{}, apperr.ValidationError{Field: "message"}
	}

	pctx, cancel := withTimeout(ctx, s.PersistTimeout)
	defer cancel()
	if err := s.Store.CreateContact(pctx, msg); err != nil {
		s.Logger.Error().Err(err).Msg("store contact failed")
		return ContactResult{}, apperr.Vendor("storage", "create contact", err)
	}
	s.Leads.SyncContact(ctx, *msg)

	return ContactResult{
		Success: true,
		Message: "Thanks for reaching out! We'll get back to you soon.",
		ID:      msg.ID,
	}, nil
}
