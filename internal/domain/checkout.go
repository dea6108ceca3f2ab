package domain

// UnitPriceUSD is the fixed price of a single vote.
const UnitPriceUSD = 5

// Payment methods accepted on the vote form. The values double as the
// remote endpoint's payment_method_selected wire strings.
const (
	MethodCashApp = "CashApp"
	MethodVenmo   = "Venmo"
	MethodSOL     = "SOL"
	MethodETH     = "ETH"
	MethodBTC     = "BTC"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []string{MethodCashApp, MethodVenmo, MethodSOL, MethodETH, MethodBTC}

// CheckoutDraft is the transient record of a vote-form submission. It is
// meaningful only between the vote step and the payment step of one flow
// and is overwritten by the next vote.
type CheckoutDraft struct {
	City          string `json:"city"`
	VotesClaimed  int    `json:"votes_claimed"`
	PaymentMethod string `json:"payment_method"`
}

// Valid reports whether the draft satisfies the checkout invariant:
// non-empty city, at least one vote claimed, and a chosen payment method.
func (d CheckoutDraft) Valid() bool {
	return d.City != "" && d.VotesClaimed >= 1 && d.PaymentMethod != ""
}

// AmountDueUSD is VotesClaimed times the unit price.
func (d CheckoutDraft) AmountDueUSD() int {
	return d.VotesClaimed * UnitPriceUSD
}
