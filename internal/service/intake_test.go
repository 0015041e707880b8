package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/apperr"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/db"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/mail"
)

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

var testMailboxes = Mailboxes{
	Insurance: "insurance@example.com",
	Business:  "business@example.com",
	Music:     "music@example.com",
	Default:   "info@example.com",
}

func TestRouteMailbox(t *testing.T) {
	cases := map[string]MailboxKind{
		"life-insurance":    MailboxInsurance,
		"Medicare":          MailboxInsurance,
		" auto_insurance ":  MailboxInsurance,
		"dynasty-trust":     MailboxBusiness,
		"Wealth Management": MailboxBusiness,
		"mixing-mastering":  MailboxMusic,
		"beats":             MailboxMusic,
		"pet-grooming":      MailboxDefault,
		"":                  MailboxDefault,
	}
	for in, want := range cases {
		if got := RouteMailbox(in); got != want {
			t.Fatalf("RouteMailbox(%q) = %s, want %s", in, got, want)
		}
	}
}

func newIntakeService(store db.Gateway, m mail.Mailer) *IntakeService {
	return &IntakeService{
		Store:     store,
		Mailer:    m,
		Mailboxes: testMailboxes,
		Logger:    zerolog.Nop(),
	}
}

func TestIntakeSubmitRoutesLifeInsurance(t *testing.T) {
	store := db.NewMemoryStore()
	mailer := &fakeMailer{}
	svc := newIntakeService(store, mailer)

	res, err := svc.Submit(context.Background(), IntakeRequest{
		ServiceType: "life-insurance",
		FirstName:   "Ana",
		LastName:    "Lopez",
		Email:       "ana@example.com",
		Message:     "Term policy for my family",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.RecipientEmail != testMailboxes.Insurance {
		t.Fatalf("expected insurance mailbox, got %s", res.RecipientEmail)
	}

	subs := store.Submissions()
	if len(subs) != 1 || !subs[0].EmailSent || subs[0].RecipientEmail != testMailboxes.Insurance {
		t.Fatalf("unexpected submissions %+v", subs)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != testMailboxes.Insurance || mailer.sent[0].ReplyTo != "ana@example.com" {
		t.Fatalf("unexpected email %+v", mailer.sent)
	}
	if !strings.Contains(mailer.sent[0].Body, "Term policy") {
		t.Fatalf("expected message in email body")
	}
}

func TestIntakeSubmitValidation(t *testing.T) {
	svc := newIntakeService(db.NewMemoryStore(), &fakeMailer{})
	cases := []IntakeRequest{
		{FirstName: "Ana", Email: "a@example.com"},
		{ServiceType: "beats", Email: "a@example.com"},
		{ServiceType: "beats", FirstName: "Ana", Email: "  "},
	}
	for _, req := range cases {
		if _, err := svc.Submit(context.Background(), req); !apperr.IsClientError(err) {
			t.Fatalf("%+v: expected validation error, got %v", req, err)
		}
	}
}

func TestIntakeEmailFailureStillStores(t *testing.T) {
	store := db.NewMemoryStore()
	mailer := &fakeMailer{err: apperr.Vendor("smtp", "send", errors.New("connection refused"))}
	svc := newIntakeService(store, mailer)

	_, err := svc.Submit(context.Background(), IntakeRequest{ServiceType: "beats", FirstName: "Kai", Email: "kai@example.com"})
	var verr *apperr.VendorError
	if !errors.As(err, &verr) {
		t.Fatalf("expected vendor error, got %v", err)
	}
	subs := store.Submissions()
	if len(subs) != 1 || subs[0].EmailSent || subs[0].RecipientEmail != testMailboxes.Music {
		t.Fatalf("expected stored submission with emailSent=false, got %+v", subs)
	}
}

func TestContactSubmit(t *testing.T) {
	store := db.NewMemoryStore()
	rc := &recordingCRM{}
	svc := &ContactService{Store: store, Leads: &LeadSync{CRM: rc, Logger: zerolog.Nop()}, Logger: zerolog.Nop()}

	res, err := svc.Submit(context.Background(), ContactRequest{Email: "jo@example.com", Message: "Call me"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Success || res.ID == "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(store.Contacts()) != 1 || len(rc.tags) != 1 || rc.tags[0] != "contact-form" {
		t.Fatalf("expected stored and synced contact")
	}

	if _, err := svc.Submit(context.Background(), ContactRequest{Email: "jo@example.com"}); !apperr.IsClientError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
