package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validBet() Bet {
	return Bet{
		UserID:        uuid.New(),
		MarketID:      "M-000001",
		Outcome:       "yes",
		Amount:        decimal.NewFromInt(100),
		TransactionID: uuid.New(),
		Status:        BetStatusActive,
	}
}

func TestBetMetadata(t *testing.T) {
	t.Run("Value and Scan", func(t *testing.T) {
		md := BetMetadata{IPAddress: "10.0.0.1", UserAgent: "test-agent"}

		value, err := md.Value()
		assert.NoError(t, err)

		var result BetMetadata
		err = result.Scan(value)
		assert.NoError(t, err)
		assert.Equal(t, md.IPAddress, result.IPAddress)

		err = result.Scan(nil)
		assert.NoError(t, err)
	})
}

func TestBet(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		b := Bet{}
		assert.Equal(t, "bets", b.TableName())
	})

	t.Run("BeforeCreate", func(t *testing.T) {
		b := Bet{}
		assert.Equal(t, uuid.Nil, b.ID)

		err := b.BeforeCreate(nil)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, b.ID)
	})

	t.Run("IsActive", func(t *testing.T) {
		b := validBet()
		assert.True(t, b.IsActive())
		b.Status = BetStatusClaimed
		assert.False(t, b.IsActive())
	})

	t.Run("Cancel", func(t *testing.T) {
		b := validBet()
		err := b.Cancel()
		assert.NoError(t, err)
		assert.Equal(t, BetStatusCancelled, b.Status)
		assert.NotNil(t, b.SettledAt)

		err = b.Cancel()
		assert.Equal(t, ErrBetNotActive, err)
	})

	t.Run("Claim", func(t *testing.T) {
		b := validBet()
		payout := decimal.NewFromInt(198)
		err := b.Claim(payout)
		assert.NoError(t, err)
		assert.Equal(t, BetStatusClaimed, b.Status)
		assert.True(t, payout.Equal(*b.PayoutAmount))

		err = b.Claim(payout)
		assert.Equal(t, ErrAlreadyClaimed, err)
	})

	t.Run("Claim on cancelled bet", func(t *testing.T) {
		b := validBet()
		assert.NoError(t, b.Cancel())
		err := b.Claim(decimal.NewFromInt(100))
		assert.Equal(t, ErrBetNotActive, err)
	})

	t.Run("Refund", func(t *testing.T) {
		b := validBet()
		err := b.Refund()
		assert.NoError(t, err)
		assert.Equal(t, BetStatusRefunded, b.Status)
		assert.True(t, b.Amount.Equal(*b.PayoutAmount))

		err = b.Refund()
		assert.Equal(t, ErrBetNotActive, err)
	})

	t.Run("Validate", func(t *testing.T) {
		b := validBet()
		assert.NoError(t, b.Validate())

		tests := []struct {
			name   string
			modify func(*Bet)
			err    error
		}{
			{"Invalid UserID", func(b *Bet) { b.UserID = uuid.Nil }, ErrInvalidUserID},
			{"Invalid MarketID", func(b *Bet) { b.MarketID = "" }, ErrInvalidMarketID},
			{"Invalid Outcome", func(b *Bet) { b.Outcome = "" }, ErrInvalidOutcome},
			{"Invalid Amount", func(b *Bet) { b.Amount = decimal.Zero }, ErrInvalidBetAmount},
			{"Invalid TransactionID", func(b *Bet) { b.TransactionID = uuid.Nil }, ErrInvalidTransactionType},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				bet := validBet()
				tt.modify(&bet)
				assert.Equal(t, tt.err, bet.Validate())
			})
		}
	})
}
