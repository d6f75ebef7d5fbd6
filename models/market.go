package models

import (
	"database/sql/driver"
	"encoding/base32"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MarketID is the short opaque symbol identifying a market: a random UUID
// rendered as a lowercase unpadded base32 code (26 chars, well under the
// 32-byte identifier bound). An alias of string so repositories, event
// payloads and HTTP path parameters carry it directly.
type MarketID = string

var marketIDEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewMarketID mints a fresh MarketID. IDs are UUID-derived, not sequential,
// so one market ID reveals nothing about any other.
func NewMarketID() MarketID {
	id := uuid.New()
	return strings.ToLower(marketIDEncoding.EncodeToString(id[:]))
}

// MarketState is the lifecycle state of a market.
type MarketState string

const (
	MarketStateActive            MarketState = "active"
	MarketStateEnded             MarketState = "ended"
	MarketStatePendingResolution MarketState = "pending_resolution"
	MarketStateResolved          MarketState = "resolved"
	MarketStateDisputed          MarketState = "disputed"
	MarketStateDisputeVoting     MarketState = "dispute_voting"
	MarketStateFinalized         MarketState = "finalized"
	MarketStateCancelled         MarketState = "cancelled"
)

// OracleComparison is the comparator applied between an oracle reading and
// its configured threshold to derive a binary outcome label.
type OracleComparison string

const (
	OracleComparisonGT OracleComparison = "gt"
	OracleComparisonLT OracleComparison = "lt"
	OracleComparisonEQ OracleComparison = "eq"
)

// OracleConfig describes a single price-feed provider bound to a market.
type OracleConfig struct {
	Provider   string           `json:"provider"` // "reflector" | "pyth" | "custom"
	Asset      string           `json:"asset"`
	Threshold  decimal.Decimal  `json:"threshold"`
	Comparison OracleComparison `json:"comparison"`
	// Mapping maps an arbitrary feed-specific result tag to one of the
	// market's outcome labels, for markets with more than two outcomes.
	Mapping map[string]string `json:"mapping,omitempty"`
}

// Value implements driver.Valuer interface
func (c OracleConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner interface
func (c *OracleConfig) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	}
	return nil
}

// StringList is a generic JSONB-backed string slice, used for outcomes and
// tied-winner sets.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return nil
}

// Contains reports whether outcome o is present in the list.
func (l StringList) Contains(o string) bool {
	for _, v := range l {
		if v == o {
			return true
		}
	}
	return false
}

// OutcomeTotals is the per-outcome stake accumulator, keyed by outcome label.
type OutcomeTotals map[string]decimal.Decimal

func (t OutcomeTotals) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *OutcomeTotals) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}
	*t = OutcomeTotals{}
	return json.Unmarshal(raw, t)
}

// Sum returns the sum of all per-outcome totals.
func (t OutcomeTotals) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range t {
		total = total.Add(v)
	}
	return total
}

// ExtensionEntry records a single deadline extension applied to a market.
type ExtensionEntry struct {
	DaysAdded int       `json:"days_added"`
	Reason    string    `json:"reason"`
	Actor     uuid.UUID `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

// ExtensionHistory is the append-only log of deadline extensions.
type ExtensionHistory []ExtensionEntry

func (h ExtensionHistory) Value() (driver.Value, error) {
	return json.Marshal(h)
}

func (h *ExtensionHistory) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	}
	return nil
}

// TotalDaysAdded sums all extension entries applied so far.
func (h ExtensionHistory) TotalDaysAdded() int {
	total := 0
	for _, e := range h {
		total += e.DaysAdded
	}
	return total
}

// Market is a single prediction event with a bounded outcome set, a
// deadline, and a hybrid oracle/community resolution strategy.
type Market struct {
	ID                       MarketID         `gorm:"type:varchar(32);primary_key" json:"id"`
	AdminID                  uuid.UUID        `gorm:"type:uuid;not null;index" json:"admin_id"`
	Question                 string           `gorm:"type:varchar(500);not null" json:"question"`
	Outcomes                 StringList       `gorm:"type:jsonb;not null" json:"outcomes"`
	State                    MarketState      `gorm:"type:varchar(20);not null;default:'active';index" json:"state"`
	EndTime                  time.Time        `gorm:"type:timestamptz;not null;index" json:"end_time"`
	DisputeWindowSeconds     int64            `gorm:"not null" json:"dispute_window_seconds"`
	ResolutionTimeoutSeconds int64            `gorm:"not null" json:"resolution_timeout_seconds"`
	OracleConfig             OracleConfig     `gorm:"type:jsonb;not null" json:"oracle_config"`
	FallbackOracleConfig     *OracleConfig    `gorm:"type:jsonb" json:"fallback_oracle_config,omitempty"`
	TotalStaked              decimal.Decimal  `gorm:"type:decimal(38,0);not null;default:0" json:"total_staked"`
	PerOutcomeTotal          OutcomeTotals    `gorm:"type:jsonb;not null;default:'{}'" json:"per_outcome_total"`
	DisputeStakesTotal       decimal.Decimal  `gorm:"type:decimal(38,0);not null;default:0" json:"dispute_stakes_total"`
	OracleResult             *string          `gorm:"type:varchar(100)" json:"oracle_result,omitempty"`
	CommunityWinner          *string          `gorm:"type:varchar(100)" json:"community_winner,omitempty"`
	WinningOutcome           *string          `gorm:"type:varchar(100)" json:"winning_outcome,omitempty"`
	WinningOutcomesTied      StringList       `gorm:"type:jsonb" json:"winning_outcomes_tied,omitempty"`
	FeeBps                   int              `gorm:"not null;default:200" json:"fee_bps"`
	FeeCollected             bool             `gorm:"not null;default:false" json:"fee_collected"`
	ExtensionHistory         ExtensionHistory `gorm:"type:jsonb;not null;default:'[]'" json:"extension_history"`
	MaxExtensionDays         int              `gorm:"not null;default:30" json:"max_extension_days"`
	ThresholdHistory         ThresholdHistory `gorm:"type:jsonb;not null;default:'[]'" json:"threshold_history"`
	ResolvedAt               *time.Time       `gorm:"type:timestamptz" json:"resolved_at,omitempty"`
	FinalizedAt              *time.Time       `gorm:"type:timestamptz" json:"finalized_at,omitempty"`
	CreatedAt                time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	Admin *User `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Bets  []Bet `gorm:"foreignKey:MarketID" json:"-"`
}

// TableName specifies the table name for Market model
func (*Market) TableName() string {
	return "markets"
}

// BeforeCreate sets up the model before creation
func (m *Market) BeforeCreate(_ *gorm.DB) error {
	if m.PerOutcomeTotal == nil {
		m.PerOutcomeTotal = OutcomeTotals{}
	}
	return nil
}

// IsActive reports whether the market is still accepting bets, taking the
// implicit Active -> Ended transition into account.
func (m *Market) IsActive(now time.Time) bool {
	return m.State == MarketStateActive && now.Before(m.EndTime)
}

// HasEnded reports the lazily-inferred Ended state.
func (m *Market) HasEnded(now time.Time) bool {
	return !now.Before(m.EndTime)
}

// CanBet reports whether a new bet may be placed at time now.
func (m *Market) CanBet(now time.Time) bool {
	return m.State == MarketStateActive && now.Before(m.EndTime)
}

// IsTerminal reports whether the market can no longer transition.
func (m *Market) IsTerminal() bool {
	return m.State == MarketStateFinalized || m.State == MarketStateCancelled
}

// IsDisputeWindowOpen reports whether a dispute may still be submitted.
func (m *Market) IsDisputeWindowOpen(now time.Time) bool {
	if m.State != MarketStateResolved || m.ResolvedAt == nil {
		return false
	}
	deadline := m.ResolvedAt.Add(time.Duration(m.DisputeWindowSeconds) * time.Second)
	return now.Before(deadline)
}

// GetRakeAmount returns the platform fee for a given losing pool.
func (m *Market) GetRakeAmount(losingPool decimal.Decimal) decimal.Decimal {
	return losingPool.Mul(decimal.NewFromInt(int64(m.FeeBps))).Div(decimal.NewFromInt(10000)).Floor()
}

// Validate performs structural validation on the market model.
func (m *Market) Validate() error {
	if n := utf8.RuneCountInString(m.Question); n < 10 || n > 500 {
		return ErrInvalidMarketQuestion
	}
	if len(m.Outcomes) < 2 || len(m.Outcomes) > 10 {
		return ErrInvalidMarketOutcomes
	}
	seen := make(map[string]struct{}, len(m.Outcomes))
	for _, o := range m.Outcomes {
		if n := utf8.RuneCountInString(o); n < 2 || n > 100 {
			return ErrInvalidOutcome
		}
		if _, dup := seen[o]; dup {
			return ErrInvalidMarketOutcomes
		}
		seen[o] = struct{}{}
	}
	if !m.EndTime.After(m.CreatedAt) {
		return ErrInvalidEndTime
	}
	if m.DisputeWindowSeconds <= 0 {
		return ErrInvalidDisputeWindow
	}
	if m.ResolutionTimeoutSeconds <= 0 {
		return ErrInvalidResolutionTimeout
	}
	return nil
}
