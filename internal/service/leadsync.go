package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/crm"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/metrics"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

// LeadSync pushes captured leads to the CRM. Failures are logged and never reach
// the caller.
type LeadSync struct {
	CRM     crm.Client
	Logger  zerolog.Logger
	Timeout time.Duration
}

func (l *LeadSync) SyncLead(ctx context.Context, lead models.LeadRecord) {
	l.sync(ctx, crm.Contact{FirstName: lead.Name, Email: lead.Email},
		[]string{"website-lead", "page-" + string(lead.PageOrigin)},
		map[string]any{
			"lead_score":   lead.QualificationScore,
			"last_inquiry": lead.Inquiry,
		})
}

func (l *LeadSync) SyncSubmission(ctx context.Context, sub models.Submission, mailbox MailboxKind) {
	l.sync(ctx, crm.Contact{FirstName: sub.FirstName, LastName: sub.LastName, Email: sub.Email, Phone: sub.Phone},
		[]string{"intake-" + string(mailbox), "service-" + sub.ServiceType},
		map[string]any{
			"service_type":       sub.ServiceType,
			"contact_preference": sub.ContactPreference,
			"email_sent":         strconv.FormatBool(sub.EmailSent),
		})
}

func (l *LeadSync) SyncContact(ctx context.Context, msg models.ContactMessage) {
	l.sync(ctx, crm.Contact{FirstName: msg.Name, Email: msg.Email}, []string{"contact-form"}, nil)
}

func (l *LeadSync) sync(ctx context.Context, c crm.Contact, tags []string, fields map[string]any) {
	if l == nil || l.CRM == nil || c.Email == "" || c.Email == models.AnonymousEmail {
		return
	}
	ctx, cancel := withTimeout(ctx, l.Timeout)
	defer cancel()

	id, err := l.CRM.FindOrCreateSubscriber(ctx, c)
	metrics.VendorResult("crm", err)
	if err != nil {
		l.Logger.Warn().Err(err).Str("email", c.Email).Msg("crm subscriber sync failed")
		return
	}
	if id == "" {
		return
	}
	for _, tag := range tags {
		if err := l.CRM.AddTag(ctx, id, tag); err != nil {
			l.Logger.Warn().Err(err).Str("tag", tag).Msg("crm tag failed")
		}
	}
	for field, value := range fields {
		if err := l.CRM.SetField(ctx, id, field, value); err != nil {
			l.Logger.Warn().Err(err).Str("field", field).Msg("crm field failed")
		}
	}
}
