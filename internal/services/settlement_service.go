// internal/services/settlement_service.go
package services

import (
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/verdanthq/cultivar-backend/internal/config"
)

// SettlementService is the read-only bridge to the external
// ledger-of-value. Royalty payments may carry a settlement reference (a
// PaymentIntent id); when verification is enabled the service checks that
// the referenced fund movement exists and succeeded. The registry never
// creates, captures, or refunds payments.
type SettlementService struct {
	cfg *config.Config
}

func NewSettlementService(cfg *config.Config) *SettlementService {
	if cfg.Settlement.StripeSecretKey != "" {
		stripe.Key = cfg.Settlement.StripeSecretKey
	}

	return &SettlementService{cfg: cfg}
}

func (s *SettlementService) Enabled() bool {
	return s.cfg.Settlement.VerifyEnabled && s.cfg.Settlement.StripeSecretKey != ""
}

// VerifyReference looks the reference up in the settlement system and
// reports whether the fund movement completed.
func (s *SettlementService) VerifyReference(reference string) (bool, error) {
	pi, err := paymentintent.Get(reference, nil)
	if err != nil {
		return false, fmt.Errorf("failed to look up settlement reference: %w", err)
	}

	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}
