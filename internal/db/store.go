package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS interactions (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	page_key TEXT NOT NULL,
	agent_id TEXT NOT NULL,
	agent_name TEXT NOT NULL,
	user_input TEXT NOT NULL,
	user_email TEXT NOT NULL,
	user_name TEXT NOT NULL,
	status TEXT NOT NULL,
	response JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS interactions_created_at_idx ON interactions (created_at);

CREATE TABLE IF NOT EXISTS leads (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	inquiry TEXT NOT NULL,
	page_origin TEXT NOT NULL,
	status TEXT NOT NULL,
	qualification_score INT NOT NULL CHECK (qualification_score BETWEEN 0 AND 10),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS submissions (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	service_type TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	contact_preference TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL DEFAULT '',
	submitted_from TEXT NOT NULL DEFAULT '',
	recipient_email TEXT NOT NULL,
	email_sent BOOLEAN NOT NULL DEFAULT FALSE,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS contacts (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL,
	message TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schema)
	return err
}

func (s *Store) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgTx struct {
	tx pgx.Tx
}

func (t pgTx) CreateInteraction(ctx context.Context, rec *models.InteractionRecord) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO interactions (page_key, agent_id, agent_name, user_input, user_email, user_name, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id::text, created_at
	`, rec.PageKey, rec.AgentID, rec.AgentName, rec.UserInput, rec.UserEmail, rec.UserName, rec.Status).Scan(&rec.ID, &rec.CreatedAt)
}

func (t pgTx) CompleteInteraction(ctx context.Context, id string, resp models.ResponsePayload) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, `
		UPDATE interactions SET status = $1, response = $2
		WHERE id = $3 AND status = $4
	`, models.InteractionCompleted, body, id, models.InteractionInitiated)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (t pgTx) CreateLead(ctx context.Context, lead *models.LeadRecord) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO leads (name, email, inquiry, page_origin, status, qualification_score)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id::text, created_at
	`, lead.Name, lead.Email, lead.Inquiry, lead.PageOrigin, lead.Status, lead.QualificationScore).Scan(&lead.ID, &lead.CreatedAt)
}

func (s *Store) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO submissions (service_type, first_name, last_name, email, phone, contact_preference, message, submitted_from, recipient_email, email_sent, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id::text, created_at
	`, sub.ServiceType, sub.FirstName, sub.LastName, sub.Email, sub.Phone, sub.ContactPreference, sub.Message, sub.SubmittedFrom, sub.RecipientEmail, sub.EmailSent, sub.Status).Scan(&sub.ID, &sub.CreatedAt)
}

func (s *Store) CreateContact(ctx context.Context, m *models.ContactMessage) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO contacts (name, email, message) VALUES ($1,$2,$3)
		RETURNING id::text, created_at
	`, m.Name, m.Email, m.Message).Scan(&m.ID, &m.CreatedAt)
}

func (s *Store) ListInteractionsSince(ctx context.Context, since time.Time) ([]models.InteractionRecord, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id::text, page_key, agent_id, agent_name, user_input, user_email, user_name, status, response, created_at
		FROM interactions WHERE created_at >= $1 ORDER BY created_at ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.InteractionRecord
	for rows.Next() {
		var (
			r    models.InteractionRecord
			body []byte
		)
		if err := rows.Scan(&r.ID, &r.PageKey, &r.AgentID, &r.AgentName, &r.UserInput, &r.UserEmail, &r.UserName, &r.Status, &body, &r.CreatedAt); err != nil {
			return nil, err
		}
		if len(body) > 0 {
			var resp models.ResponsePayload
			if err := json.Unmarshal(body, &resp); err != nil {
				return nil, err
			}
			r.Response = &resp
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetInteraction(ctx context.Context, id string) (models.InteractionRecord, error) {
	var (
		r    models.InteractionRecord
		body []byte
	)
	err := s.Pool.QueryRow(ctx, `
		SELECT id::text, page_key, agent_id, agent_name, user_input, user_email, user_name, status, response, created_at
		FROM interactions WHERE id = $1
	`, id).Scan(&r.ID, &r.PageKey, &r.AgentID, &r.AgentName, &r.UserInput, &r.UserEmail, &r.UserName, &r.Status, &body, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return r, ErrNotFound
	}
	if err != nil {
		return r, err
	}
	if len(body) > 0 {
		var resp models.ResponsePayload
		if err := json.Unmarshal(body, &resp); err != nil {
			return r, err
		}
		r.Response = &resp
	}
	return r, nil
}
