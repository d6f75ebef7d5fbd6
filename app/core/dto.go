package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joefazee/foresight/models"
)

// CreateMarketRequest is the request body for creating a prediction market.
type CreateMarketRequest struct {
	Question                 string               `json:"question" binding:"required"`
	Outcomes                 []string             `json:"outcomes" binding:"required,min=2"`
	EndTime                  time.Time            `json:"end_time" binding:"required"`
	OracleConfig             models.OracleConfig  `json:"oracle_config" binding:"required"`
	FallbackOracleConfig     *models.OracleConfig `json:"fallback_oracle_config,omitempty"`
	DisputeWindowSeconds     int64                `json:"dispute_window_seconds"`
	ResolutionTimeoutSeconds int64                `json:"resolution_timeout_seconds"`
	FeeBps                   int                  `json:"fee_bps"`
}

// ExtendMarketRequest is the request body for extending a market's deadline.
type ExtendMarketRequest struct {
	Days   int    `json:"days" binding:"required,min=1"`
	Reason string `json:"reason" binding:"required"`
}

// CancelMarketRequest is the request body for administratively cancelling a
// market.
type CancelMarketRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PlaceBetRequest is the request body for staking on a single outcome.
type PlaceBetRequest struct {
	Outcome string          `json:"outcome" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
}

// PlaceBetsRequest is the request body for a batched multi-market stake.
type PlaceBetsRequest struct {
	Items []BetItemRequest `json:"items" binding:"required,min=1"`
}

// BetItemRequest is a single leg of a PlaceBetsRequest.
type BetItemRequest struct {
	MarketID string          `json:"market_id" binding:"required"`
	Outcome  string          `json:"outcome" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// DisputeRequest is the request body for opening or voting on a dispute.
type DisputeRequest struct {
	Outcome string          `json:"outcome" binding:"required"`
	Stake   decimal.Decimal `json:"stake" binding:"required"`
	Reason  string          `json:"reason" binding:"required"`
}

// AdjustThresholdRequest is the request body for a manual dispute-threshold
// override.
type AdjustThresholdRequest struct {
	Threshold decimal.Decimal `json:"threshold" binding:"required"`
}

// AddAdminRequest is the request body for registering a new admin.
type AddAdminRequest struct {
	UserID uuid.UUID        `json:"user_id" binding:"required"`
	Role   models.AdminRole `json:"role" binding:"required"`
}

// UpdateRoleRequest is the request body for changing an admin's role.
type UpdateRoleRequest struct {
	Role models.AdminRole `json:"role" binding:"required"`
}

// SetThresholdRequest is the request body for updating the multisig
// threshold.
type SetThresholdRequest struct {
	Threshold int `json:"threshold" binding:"required,min=1"`
}

// CreatePendingActionRequest is the request body for opening an M-of-N
// approval workflow.
type CreatePendingActionRequest struct {
	ActionType models.PendingActionType `json:"action_type" binding:"required"`
	Target     *uuid.UUID               `json:"target,omitempty"`
	Data       models.ActionData        `json:"data,omitempty"`
}

// MarketResponse is the API-facing rendering of a market.
type MarketResponse struct {
	ID                  string               `json:"id"`
	Question            string               `json:"question"`
	Outcomes            []string             `json:"outcomes"`
	State               models.MarketState   `json:"state"`
	EndTime             time.Time            `json:"end_time"`
	TotalStaked         decimal.Decimal      `json:"total_staked"`
	PerOutcomeTotal     models.OutcomeTotals `json:"per_outcome_total"`
	WinningOutcome      *string              `json:"winning_outcome,omitempty"`
	WinningOutcomesTied []string             `json:"winning_outcomes_tied,omitempty"`
	FeeBps              int                  `json:"fee_bps"`
	ResolvedAt          *time.Time           `json:"resolved_at,omitempty"`
	FinalizedAt         *time.Time           `json:"finalized_at,omitempty"`
}

// ToMarketResponse renders a market model for the API surface.
func ToMarketResponse(m *models.Market) *MarketResponse {
	return &MarketResponse{
		ID:                  m.ID,
		Question:            m.Question,
		Outcomes:            m.Outcomes,
		State:               m.State,
		EndTime:             m.EndTime,
		TotalStaked:         m.TotalStaked,
		PerOutcomeTotal:     m.PerOutcomeTotal,
		WinningOutcome:      m.WinningOutcome,
		WinningOutcomesTied: m.WinningOutcomesTied,
		FeeBps:              m.FeeBps,
		ResolvedAt:          m.ResolvedAt,
		FinalizedAt:         m.FinalizedAt,
	}
}

// BetResponse is the API-facing rendering of a bet.
type BetResponse struct {
	ID       uuid.UUID        `json:"id"`
	MarketID string           `json:"market_id"`
	Outcome  string           `json:"outcome"`
	Amount   decimal.Decimal  `json:"amount"`
	Status   models.BetStatus `json:"status"`
	Payout   *decimal.Decimal `json:"payout,omitempty"`
}

// ToBetResponse renders a bet model for the API surface.
func ToBetResponse(b *models.Bet) *BetResponse {
	return &BetResponse{
		ID:       b.ID,
		MarketID: b.MarketID,
		Outcome:  b.Outcome,
		Amount:   b.Amount,
		Status:   b.Status,
		Payout:   b.PayoutAmount,
	}
}
