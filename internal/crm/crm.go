// Package crm wraps the chat/SMS vendor used to follow up with leads. Only the
// capabilities the backend needs are exposed: find-or-create a subscriber by email,
// tag it and set custom fields.
package crm

import "context"

type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

type Client interface {
	FindOrCreateSubscriber(ctx context.Context, c Contact) (string, error)
	AddTag(ctx context.Context, subscriberID, tag string) error
	SetField(ctx context.Context, subscriberID, field string, value any) error
}

// Noop is used when no vendor is configured.
type Noop struct{}

func (Noop) FindOrCreateSubscriber(ctx context.Context, c Contact) (string, error) {
	return "", nil
}

func (Noop) AddTag(ctx context.Context, subscriberID, tag string) error {
	return nil
}

func (Noop) SetField(ctx context.Context, subscriberID, field string, value any) error {
	return nil
}
