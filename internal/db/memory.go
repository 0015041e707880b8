package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

// MemoryStore is a process-local Gateway used when no DATABASE_URL is configured
// and in tests. Transactions stage their writes and apply them on commit.
type MemoryStore struct {
	mu           sync.RWMutex
	interactions map[string]models.InteractionRecord
	leads        map[string]models.LeadRecord
	submissions  map[string]models.Submission
	contacts     map[string]models.ContactMessage
	now          func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		interactions: map[string]models.InteractionRecord{},
		leads:        map[string]models.LeadRecord{},
		submissions:  map[string]models.Submission{},
		contacts:     map[string]models.ContactMessage{},
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Close() {}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx := &memTx{store: m, interactions: map[string]models.InteractionRecord{}}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rec := range tx.interactions {
		m.interactions[id] = rec
	}
	for _, lead := range tx.leads {
		m.leads[lead.ID] = lead
	}
	return nil
}

type memTx struct {
	store        *MemoryStore
	interactions map[string]models.InteractionRecord
	leads        []models.LeadRecord
}

func (t *memTx) CreateInteraction(ctx context.Context, rec *models.InteractionRecord) error {
	rec.ID = uuid.NewString()
	rec.CreatedAt = t.store.now()
	t.interactions[rec.ID] = *rec
	return nil
}

func (t *memTx) CompleteInteraction(ctx context.Context, id string, resp models.ResponsePayload) error {
	rec, ok := t.interactions[id]
	if !ok {
		t.store.mu.RLock()
		rec, ok = t.store.interactions[id]
		t.store.mu.RUnlock()
	}
	if !ok {
		return ErrNotFound
	}
	if rec.Status != models.InteractionInitiated {
		return ErrInvalidTransition
	}
	rec.Status = models.InteractionCompleted
	rec.Response = &resp
	t.interactions[id] = rec
	return nil
}

func (t *memTx) CreateLead(ctx context.Context, lead *models.LeadRecord) error {
	lead.ID = uuid.NewString()
	lead.CreatedAt = t.store.now()
	t.leads = append(t.leads, *lead)
	return nil
}

func (m *MemoryStore) CreateSubmission(ctx context.Context, s *models.Submission) error {
	s.ID = uuid.NewString()
	s.CreatedAt = m.now()
	m.mu.Lock()
	m.submissions[s.ID] = *s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) CreateContact(ctx context.Context, c *models.ContactMessage) error {
	c.ID = uuid.NewString()
	c.CreatedAt = m.now()
	m.mu.Lock()
	m.contacts[c.ID] = *c
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ListInteractionsSince(ctx context.Context, since time.Time) ([]models.InteractionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.InteractionRecord, 0, len(m.interactions))
	for _, r := range m.interactions {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) GetInteraction(ctx context.Context, id string) (models.InteractionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.interactions[id]
	if !ok {
		return r, ErrNotFound
	}
	return r, nil
}

// Leads returns every committed lead, oldest first.
func (m *MemoryStore) Leads() []models.LeadRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.LeadRecord, 0, len(m.leads))
	for _, l := range m.leads {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *MemoryStore) Submissions() []models.Submission {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Submission, 0, len(m.submissions))
	for _, s := range m.submissions {
		out = append(out, s)
	}
	return out
}

func (m *MemoryStore) Contacts() []models.ContactMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ContactMessage, 0, len(m.contacts))
	for _, c := range m.contacts {
		out = append(out, c)
	}
	return out
}

var (
	_ Gateway = (*Store)(nil)
	_ Gateway = (*MemoryStore)(nil)
)
