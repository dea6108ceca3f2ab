package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mrowtown/cali-votes/internal/domain"
	"github.com/mrowtown/cali-votes/internal/pkg/validate"
)

// DraftInput is the vote-form input before validation.
type DraftInput struct {
	City          string `validate:"required"`
	VotesClaimed  int    `validate:"required,min=1"`
	PaymentMethod string `validate:"required,oneof=CashApp Venmo SOL ETH BTC"`
}

// ValidationError carries the inline message for the field that failed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Inline messages per field, in the order fields are checked.
var fieldMessages = map[string]string{
	"City":          "City is required.",
	"VotesClaimed":  "Enter a valid vote amount.",
	"PaymentMethod": "Choose a payment method.",
}

// Dispatcher is the minimal remote-transport interface the service needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, action string, payload map[string]any, out any) error
}

// ProfileStore is the minimal per-profile state interface the service needs.
type ProfileStore interface {
	Session(ctx context.Context, profileID string) (domain.Session, error)
	ClearSession(ctx context.Context, profileID string) error
	Prefs(ctx context.Context, profileID string) (domain.Prefs, error)
	SaveDraft(ctx context.Context, profileID string, d domain.CheckoutDraft) error
	ConsumeDraft(ctx context.Context, profileID string) (domain.CheckoutDraft, error)
	SaveSubmission(ctx context.Context, profileID string, s domain.Submission) error
}

// Service holds the vote step: validate and park a checkout draft, then
// submit it to the remote endpoint once the payment page confirms it.
type Service interface {
	PrepareDraft(ctx context.Context, profileID string, in DraftInput) (domain.CheckoutDraft, error)
	Confirm(ctx context.Context, profileID string) (domain.Submission, error)
}

type service struct {
	remote Dispatcher
	store  ProfileStore
}

func NewService(remote Dispatcher, store ProfileStore) Service {
	return &service{remote: remote, store: store}
}

// PrepareDraft validates the form input and stores it as the pending
// checkout draft. Any violation returns its inline message and performs no
// remote call; the submission itself is deferred to Confirm so the amount
// due is shown before anything is created remotely.
func (s *service) PrepareDraft(ctx context.Context, profileID string, in DraftInput) (domain.CheckoutDraft, error) {
	sess, err := s.store.Session(ctx, profileID)
	if err != nil {
		return domain.CheckoutDraft{}, err
	}
	if !sess.Active() {
		return domain.CheckoutDraft{}, fmt.Errorf("no active session: %w", domain.ErrUnauthorized)
	}

	in.City = strings.TrimSpace(in.City)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	if ve := validate.Struct(in); ve != nil {
		fe := ve[0]
		msg, ok := fieldMessages[fe.StructField()]
		if !ok {
			msg = "Check the form and try again."
		}
		return domain.CheckoutDraft{}, &ValidationError{Message: msg}
	}

	draft := domain.CheckoutDraft{
		City:          in.City,
		VotesClaimed:  in.VotesClaimed,
		PaymentMethod: in.PaymentMethod,
	}
	if err := s.store.SaveDraft(ctx, profileID, draft); err != nil {
		return domain.CheckoutDraft{}, err
	}
	return draft, nil
}

// Confirm consumes the pending draft and dispatches the submitVote action
// exactly once for it. The draft is put back on failure so the user can
// retry; a second confirm after success finds no draft and submits nothing.
func (s *service) Confirm(ctx context.Context, profileID string) (domain.Submission, error) {
	sess, err := s.store.Session(ctx, profileID)
	if err != nil {
		return domain.Submission{}, err
	}
	if !sess.Active() {
		return domain.Submission{}, fmt.Errorf("no active session: %w", domain.ErrUnauthorized)
	}

	draft, err := s.store.ConsumeDraft(ctx, profileID)
	if err != nil {
		return domain.Submission{}, err
	}

	name, discord := sess.Name, sess.DiscordHandle
	if name == "" || discord == "" {
		if prefs, err := s.store.Prefs(ctx, profileID); err == nil {
			if name == "" {
				name = prefs.Name
			}
			if discord == "" {
				discord = prefs.DiscordHandle
			}
		}
	}

	var out struct {
		SubmissionID string `json:"submissionId"`
		UploadURL    string `json:"upload_url"`
	}
	err = s.remote.Dispatch(ctx, "submitVote", map[string]any{
		"session":                 sess.Token,
		"city":                    draft.City,
		"votes_claimed":           draft.VotesClaimed,
		"payment_method_selected": draft.PaymentMethod,
		"name_optional":           name,
		"discord_handle_optional": discord,
	}, &out)
	if err != nil {
		// The draft survives a failed dispatch; otherwise the user would
		// have to refill the vote form after a transient error.
		if saveErr := s.store.SaveDraft(ctx, profileID, draft); saveErr != nil {
			slog.Warn("failed to restore draft after submit error", "profile_id", profileID, "err", saveErr)
		}

		var re *domain.RemoteError
		if errors.As(err, &re) && domain.ClassifyRemoteError(re) == domain.RemoteErrSession {
			if clearErr := s.store.ClearSession(ctx, profileID); clearErr != nil {
				slog.Warn("failed to clear rejected session", "profile_id", profileID, "err", clearErr)
			}
			return domain.Submission{}, fmt.Errorf("%s: %w", re.Message, domain.ErrUnauthorized)
		}
		return domain.Submission{}, err
	}

	sub := domain.Submission{SubmissionID: out.SubmissionID, UploadURL: out.UploadURL}
	if err := s.store.SaveSubmission(ctx, profileID, sub); err != nil {
		return domain.Submission{}, err
	}
	return sub, nil
}
