package core

import (
	"github.com/shopspring/decimal"

	"github.com/joefazee/foresight/internal/sanitizer"
	"github.com/joefazee/foresight/internal/validator"
	"github.com/joefazee/foresight/models"
)

// SanitizeFreeText strips HTML markup from a free-form user-supplied field
// (market questions, dispute reasons) before it reaches ValidateXxx or
// persistence.
func SanitizeFreeText(stripper sanitizer.HTMLStripperer, s string) string {
	return stripper.StripHTML(s)
}

// ValidateMarketMetadata checks a candidate question/outcome set against the
// length and cardinality bounds every market must satisfy, independent of
// any particular market instance.
func ValidateMarketMetadata(question string, outcomes []string) error {
	if !validator.MinRunes(question, 10) || !validator.MaxRunes(question, 500) {
		return models.ErrInvalidMarketQuestion
	}
	if len(outcomes) < 2 || len(outcomes) > 10 {
		return models.ErrInvalidMarketOutcomes
	}
	if !validator.NoDuplicates(outcomes) {
		return models.ErrInvalidMarketOutcomes
	}
	for _, o := range outcomes {
		if !validator.MinRunes(o, 2) || !validator.MaxRunes(o, 100) {
			return models.ErrInvalidOutcome
		}
	}
	return nil
}

// ValidateOutcomeInMarket checks that outcome is one of market's outcomes.
func ValidateOutcomeInMarket(market *models.Market, outcome string) error {
	if !validator.NotBlank(outcome) {
		return models.ErrInvalidOutcome
	}
	if !market.Outcomes.Contains(outcome) {
		return models.ErrOutcomeNotInMarket
	}
	return nil
}

// ValidateBet checks a stake amount against the configured bounds.
func ValidateBet(cfg *Config, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return models.ErrInvalidBetAmount
	}
	if amount.LessThan(cfg.MinStake) {
		return models.ErrBetTooSmall
	}
	if amount.GreaterThan(cfg.MaxStake) {
		return models.ErrBetTooLarge
	}
	return nil
}

// ValidateDisputeReason bounds a free-form dispute reason.
func ValidateDisputeReason(reason string) error {
	if !validator.MaxRunes(reason, 1000) {
		return models.ErrInvalidDisputeReason
	}
	return nil
}

// ValidateThreshold checks a dynamic dispute threshold stake against the
// market's current dynamic threshold.
func ValidateThreshold(stake, threshold decimal.Decimal) error {
	if stake.LessThan(threshold) {
		return models.ErrInsufficientStake
	}
	return nil
}
