package db

import (
	"context"
	"errors"
	"time"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

var ErrNotFound = errors.New("record not found")

// ErrInvalidTransition is returned when an interaction that is not initiated is
// completed again.
var ErrInvalidTransition = errors.New("interaction is not in initiated state")

// Tx is the write surface available inside Gateway.WithTx. Nothing written through
// it is visible until the surrounding function returns nil.
type Tx interface {
	CreateInteraction(ctx context.Context, rec *models.InteractionRecord) error
	CompleteInteraction(ctx context.Context, id string, resp models.ResponsePayload) error
	CreateLead(ctx context.Context, lead *models.LeadRecord) error
}

type Gateway interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	CreateSubmission(ctx context.Context, s *models.Submission) error
	CreateContact(ctx context.Context, m *models.ContactMessage) error
	ListInteractionsSince(ctx context.Context, since time.Time) ([]models.InteractionRecord, error)
	Ping(ctx context.Context) error
	Close()
}
