package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/apperr"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/db"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/mail"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/metrics"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

type MailboxKind string

const (
	MailboxInsurance MailboxKind = "insurance"
	MailboxBusiness  MailboxKind = "business"
	MailboxMusic     MailboxKind = "music"
	MailboxDefault   MailboxKind = "default"
)

var mailboxByService = map[string]MailboxKind{
	"insurance":           MailboxInsurance,
	"life-insurance":      MailboxInsurance,
	"health-insurance":    MailboxInsurance,
	"auto-insurance":      MailboxInsurance,
	"medicare":            MailboxInsurance,
	"annuities":           MailboxInsurance,
	"wealth-management":   MailboxBusiness,
	"financial-planning":  MailboxBusiness,
	"business-consulting": MailboxBusiness,
	"estate-planning":     MailboxBusiness,
	"dynasty-trust":       MailboxBusiness,
	"waterfall-strategy":  MailboxBusiness,
	"tax-planning":        MailboxBusiness,
	"music-production":    MailboxMusic,
	"artist-development":  MailboxMusic,
	"beats":               MailboxMusic,
	"mixing-mastering":    MailboxMusic,
}

// RouteMailbox picks the team that handles serviceType. Unknown types go to the
// default mailbox.
func RouteMailbox(serviceType string) MailboxKind {
	key := strings.ToLower(strings.TrimSpace(serviceType))
	key = strings.Join(strings.Fields(strings.ReplaceAll(key, "_", " ")), "-")
	if kind, ok := mailboxByService[key]; ok {
		return kind
	}
	return MailboxDefault
}

type Mailboxes struct {
	Insurance string
	Business  string
	Music     string
	Default   string
}

func (m Mailboxes) Address(kind MailboxKind) string {
	switch kind {
	case MailboxInsurance:
		return m.Insurance
	case MailboxBusiness:
		return m.Business
	case MailboxMusic:
		return m.Music
	default:
		return m.Default
	}
}

type IntakeRequest struct {
	ServiceType       string
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	ContactPreference string
	Message           string
	SubmittedFrom     string
}

type IntakeResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	RecipientEmail string `json:"recipientEmail"`
}

type IntakeService struct {
	Store          db.Gateway
	Mailer         mail.Mailer
	Mailboxes      Mailboxes
	Leads          *LeadSync
	Logger         zerolog.Logger
	PersistTimeout time.Duration
	VendorTimeout  time.Duration
}

// Submit emails the routed team and stores the submission. The record is stored
// even when delivery fails, with EmailSent false, and the delivery error is
// returned.
func (s *IntakeService) Submit(ctx context.Context, req IntakeRequest) (IntakeResult, error) {
	req = trimIntake(req)
	switch {
	case req.ServiceType == "":
		return IntakeResult{}, apperr.ValidationError{Field: "serviceType"}
	case req.FirstName == "":
		return IntakeResult{}, apperr.ValidationError{Field: "firstName"}
	case req.Email == "":
		return IntakeResult{}, apperr.ValidationError{Field: "email"}
	}

	kind := RouteMailbox(req.ServiceType)
	to := s.Mailboxes.Address(kind)

	vctx, cancel := withTimeout(ctx, s.VendorTimeout)
	sendErr := s.Mailer.Send(vctx, intakeEmail(req, to))
	cancel()
	metrics.VendorResult("smtp", sendErr)

	sub := &models.Submission{
		ServiceType:       req.ServiceType,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		ContactPreference: req.ContactPreference,
		Message:           req.Message,
		SubmittedFrom:     req.SubmittedFrom,
		RecipientEmail:    to,
		EmailSent:         sendErr == nil,
		Status:            models.SubmissionStatusNew,
	}
	pctx, cancel := withTimeout(ctx, s.PersistTimeout)
	defer cancel()
	if err := s.Store.CreateSubmission(pctx, sub); err != nil {
		s.Logger.Error().Err(err).Str("service_type", req.ServiceType).Msg("store submission failed")
		return IntakeResult{}, apperr.Vendor("storage", "create submission", err)
	}
	metrics.Submissions.WithLabelValues(string(kind), fmt.Sprint(sub.EmailSent)).Inc()

	if sendErr != nil {
		s.Logger.Error().Err(sendErr).
			Str("submission_id", sub.ID).
			Str("mailbox", string(kind)).
			Msg("intake email failed")
		return IntakeResult{}, sendErr
	}

	s.Leads.SyncSubmission(ctx, *sub, kind)
	s.Logger.Info().
		Str("submission_id", sub.ID).
		Str("mailbox", string(kind)).
		Msg("intake submitted")

	return IntakeResult{
		Success:        true,
		Message:        "Thank you! Your request has been sent to our team. We'll be in touch within one business day.",
		RecipientEmail: to,
	}, nil
}

func trimIntake(r IntakeRequest) IntakeRequest {
	r.ServiceType = strings.TrimSpace(r.ServiceType)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.ContactPreference = strings.TrimSpace(r.ContactPreference)
	r.Message = strings.TrimSpace(r.Message)
	r.SubmittedFrom = strings.TrimSpace(r.SubmittedFrom)
	return r
}

func intakeEmail(r IntakeRequest, to string) mail.Message {
	name := strings.TrimSpace(r.FirstName + " " + r.LastName)
	var b strings.Builder
	fmt.Fprintf(&b, "New %s inquiry\n\n", r.ServiceType)
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "Email: %s\n", r.Email)
	if r.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", r.Phone)
	}
	if r.ContactPreference != "" {
		fmt.Fprintf(&b, "Preferred contact: %s\n", r.ContactPreference)
	}
	if r.SubmittedFrom != "" {
		fmt.Fprintf(&b, "Submitted from: %s\n", r.SubmittedFrom)
	}
	if r.Message != "" {
		fmt.Fprintf(&b, "\nMessage:\n%s\n", r.Message)
	}
	return mail.Message{
		To:      to,
		ReplyTo: r.Email,
		Subject: fmt.Sprintf("New %s inquiry from %s", r.ServiceType, name),
		Body:    b.String(),
	}
}
