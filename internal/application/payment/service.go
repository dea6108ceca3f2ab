package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrowtown/cali-votes/internal/domain"
)

// qrFiles maps each payment method to its QR image filename under the
// asset base.
var qrFiles = map[string]string{
	domain.MethodCashApp: "cashapp-qr.png",
	domain.MethodVenmo:   "venmo-qr.png",
	domain.MethodSOL:     "sol-qr.png",
	domain.MethodETH:     "eth-qr.png",
	domain.MethodBTC:     "btc-qr.png",
}

// Checkout is everything the payment page renders.
type Checkout struct {
	Draft       domain.CheckoutDraft
	HasDraft    bool
	AmountLabel string // "" when there is nothing to pay
	QRImageURL  string // "" when the method is unknown or missing
	UploadURL   string // remote one-time upload link, when already issued
}

// ProfileStore is the minimal per-profile state interface the service needs.
type ProfileStore interface {
	Draft(ctx context.Context, profileID string) (domain.CheckoutDraft, error)
	Submission(ctx context.Context, profileID string) (domain.Submission, error)
}

// Service assembles the payment page view: amount due, QR image, and the
// upload link of an already-created submission.
type Service struct {
	assetBase string
	store     ProfileStore
}

func NewService(assetBase string, store ProfileStore) *Service {
	return &Service{assetBase: assetBase, store: store}
}

func (s *Service) Checkout(ctx context.Context, profileID string) (Checkout, error) {
	draft, err := s.store.Draft(ctx, profileID)
	if err != nil {
		return Checkout{}, err
	}

	c := Checkout{
		Draft:       draft,
		HasDraft:    true,
		AmountLabel: AmountLabel(draft.VotesClaimed),
		QRImageURL:  QRImageURL(s.assetBase, draft.PaymentMethod),
	}

	if sub, err := s.store.Submission(ctx, profileID); err == nil {
		c.UploadURL = sub.UploadURL
	}
	return c, nil
}

// AmountLabel renders the amount due. Zero votes render as an empty
// placeholder, never as a zero currency amount.
func AmountLabel(votes int) string {
	if votes <= 0 {
		return ""
	}
	return fmt.Sprintf("$%d", votes*domain.UnitPriceUSD)
}

// QRImageURL resolves the QR image for a payment method, or "" when the
// method is unknown. The version query forces a cache refresh when an image
// is replaced in place.
func QRImageURL(assetBase, method string) string {
	file, ok := qrFiles[method]
	if !ok {
		return ""
	}
	return strings.TrimRight(assetBase, "/") + "/" + file + "?v=1"
}
