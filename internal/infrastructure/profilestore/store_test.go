package profilestore

import (
	"context"
	"errors"
	"testing"

	"github.com/mrowtown/cali-votes/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() *Store {
	return New(NewMemoryKV())
}

func TestSessionRoundTrip(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	in := domain.Session{
		Token:         "tok_123",
		Email:         "a@b.com",
		Name:          "Ada",
		DiscordHandle: "ada#1234",
		ExpiresAt:     1900000000,
	}
	require.NoError(t, s.SaveSession(ctx, "p1", in))

	out, err := s.Session(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSession_AbsentReturnsEmptyFields(t *testing.T) {
	s := newStore()
	out, err := s.Session(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, domain.Session{}, out)
	assert.False(t, out.Active())
}

func TestClearSession_Idempotent(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	require.NoError(t, s.ClearSession(ctx, "p1"))

	require.NoError(t, s.SaveSession(ctx, "p1", domain.Session{Token: "tok", Email: "a@b.com"}))
	require.NoError(t, s.SavePrefs(ctx, "p1", domain.Prefs{Name: "Ada"}))
	require.NoError(t, s.ClearSession(ctx, "p1"))
	require.NoError(t, s.ClearSession(ctx, "p1"))

	sess, err := s.Session(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.Session{}, sess)

	prefs, err := s.Prefs(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.Prefs{}, prefs)
}

func TestDraft_AbsentIsNotFound(t *testing.T) {
	s := newStore()
	_, err := s.Draft(context.Background(), "p1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConsumeDraft_RemovesRecord(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	draft := domain.CheckoutDraft{City: "Fresno", VotesClaimed: 3, PaymentMethod: domain.MethodVenmo}
	require.NoError(t, s.SaveDraft(ctx, "p1", draft))

	got, err := s.ConsumeDraft(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, draft, got)

	_, err = s.ConsumeDraft(ctx, "p1")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "second consume must find nothing")
}

func TestDraft_OverwrittenByNextVote(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, "p1", domain.CheckoutDraft{City: "Fresno", VotesClaimed: 1, PaymentMethod: domain.MethodBTC}))
	require.NoError(t, s.SaveDraft(ctx, "p1", domain.CheckoutDraft{City: "Oakland", VotesClaimed: 2, PaymentMethod: domain.MethodSOL}))

	d, err := s.Draft(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Oakland", d.City)
}

func TestSubmissionRoundTrip(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	require.NoError(t, s.SaveSubmission(ctx, "p1", domain.Submission{SubmissionID: "sub1", UploadURL: "https://u.example.com/t/x"}))
	sub, err := s.Submission(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "sub1", sub.SubmissionID)

	empty, err := s.Submission(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, domain.Submission{}, empty)
}

func TestProfilesAreIsolated(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, "p1", domain.Session{Token: "tok1", Email: "one@x.com"}))
	sess, err := s.Session(ctx, "p2")
	require.NoError(t, err)
	assert.False(t, sess.Active())
}
