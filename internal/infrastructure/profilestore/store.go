package profilestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mrowtown/cali-votes/internal/domain"
)

// Record keys per profile. These mirror the storage keys of the first
// release one-to-one (session, prefs, checkout draft, last submission).
const (
	recSession    = "session"
	recPrefs      = "prefs"
	recDraft      = "checkout_draft"
	recSubmission = "last_submission"
)

// KV is the pluggable backing store: a durable per-profile key-value
// namespace. Get returns domain.ErrNotFound for absent records; Delete on
// an absent record is a no-op; Take atomically reads and deletes.
type KV interface {
	Put(ctx context.Context, profileID, record string, payload []byte) error
	Get(ctx context.Context, profileID, record string) ([]byte, error)
	Delete(ctx context.Context, profileID, record string) error
	Take(ctx context.Context, profileID, record string) ([]byte, error)
}

// Store persists per-profile flow state on top of a KV backing.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) SaveSession(ctx context.Context, profileID string, sess domain.Session) error {
	return s.put(ctx, profileID, recSession, sess)
}

// Session returns the stored session, or the empty-field zero value when
// none exists. Absence is not an error.
func (s *Store) Session(ctx context.Context, profileID string) (domain.Session, error) {
	var sess domain.Session
	err := s.get(ctx, profileID, recSession, &sess)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, nil
	}
	return sess, err
}

// ClearSession removes the session and the identity prefs. Clearing an
// already-clear profile is a no-op.
func (s *Store) ClearSession(ctx context.Context, profileID string) error {
	if err := s.kv.Delete(ctx, profileID, recSession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := s.kv.Delete(ctx, profileID, recPrefs); err != nil {
		return fmt.Errorf("clear prefs: %w", err)
	}
	return nil
}

func (s *Store) SavePrefs(ctx context.Context, profileID string, p domain.Prefs) error {
	return s.put(ctx, profileID, recPrefs, p)
}

func (s *Store) Prefs(ctx context.Context, profileID string) (domain.Prefs, error) {
	var p domain.Prefs
	err := s.get(ctx, profileID, recPrefs, &p)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Prefs{}, nil
	}
	return p, err
}

func (s *Store) SaveDraft(ctx context.Context, profileID string, d domain.CheckoutDraft) error {
	return s.put(ctx, profileID, recDraft, d)
}

// Draft returns the pending checkout draft; domain.ErrNotFound when none.
func (s *Store) Draft(ctx context.Context, profileID string) (domain.CheckoutDraft, error) {
	var d domain.CheckoutDraft
	err := s.get(ctx, profileID, recDraft, &d)
	return d, err
}

// ConsumeDraft removes and returns the pending draft in one step, so a
// confirm action can run at most once per draft. domain.ErrNotFound when
// there is nothing to consume.
func (s *Store) ConsumeDraft(ctx context.Context, profileID string) (domain.CheckoutDraft, error) {
	raw, err := s.kv.Take(ctx, profileID, recDraft)
	if err != nil {
		return domain.CheckoutDraft{}, err
	}
	var d domain.CheckoutDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return domain.CheckoutDraft{}, fmt.Errorf("decode %s: %w", recDraft, err)
	}
	return d, nil
}

func (s *Store) SaveSubmission(ctx context.Context, profileID string, sub domain.Submission) error {
	return s.put(ctx, profileID, recSubmission, sub)
}

// Submission returns the last submission receipt, or the zero value when
// none exists.
func (s *Store) Submission(ctx context.Context, profileID string) (domain.Submission, error) {
	var sub domain.Submission
	err := s.get(ctx, profileID, recSubmission, &sub)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Submission{}, nil
	}
	return sub, err
}

func (s *Store) put(ctx context.Context, profileID, record string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", record, err)
	}
	return s.kv.Put(ctx, profileID, record, raw)
}

func (s *Store) get(ctx context.Context, profileID, record string, out any) error {
	raw, err := s.kv.Get(ctx, profileID, record)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", record, err)
	}
	return nil
}
