package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/joefazee/foresight/internal/cache"
	"github.com/joefazee/foresight/internal/eventlog"
	"github.com/joefazee/foresight/internal/ledger"
	"github.com/joefazee/foresight/models"
)

// MockEventLog is a testify mock of eventlog.EventLog.
type MockEventLog struct {
	mock.Mock
}

func (m *MockEventLog) Emit(ctx context.Context, topic string, marketID *string, actorID *uuid.UUID, payload models.EventPayload) error {
	return m.Called(ctx, topic, marketID, actorID, payload).Error(0)
}

func (m *MockEventLog) GetByID(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, eventID)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *MockEventLog) WithTx(tx *gorm.DB) eventlog.EventLog {
	args := m.Called(tx)
	return args.Get(0).(eventlog.EventLog)
}

// MockInstance is a testify mock of ledger.Instance.
type MockInstance struct {
	mock.Mock
}

func (m *MockInstance) NextMarketSeq(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInstance) AcquireReentrancyGuard(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockInstance) ReleaseReentrancyGuard(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockInstance) GetState(ctx context.Context) (*models.InstanceState, error) {
	args := m.Called(ctx)
	state, _ := args.Get(0).(*models.InstanceState)
	return state, args.Error(1)
}

var _ ledger.Instance = (*MockInstance)(nil)

// MockMarketRepository is a testify mock of MarketRepository.
type MockMarketRepository struct {
	mock.Mock
}

func (m *MockMarketRepository) WithTx(tx *gorm.DB) MarketRepository {
	args := m.Called(tx)
	return args.Get(0).(MarketRepository)
}

func (m *MockMarketRepository) Create(ctx context.Context, market *models.Market) error {
	return m.Called(ctx, market).Error(0)
}

func (m *MockMarketRepository) GetByID(ctx context.Context, id string) (*models.Market, error) {
	args := m.Called(ctx, id)
	market, _ := args.Get(0).(*models.Market)
	return market, args.Error(1)
}

func (m *MockMarketRepository) GetForUpdate(ctx context.Context, id string) (*models.Market, error) {
	args := m.Called(ctx, id)
	market, _ := args.Get(0).(*models.Market)
	return market, args.Error(1)
}

func (m *MockMarketRepository) Update(ctx context.Context, market *models.Market) error {
	return m.Called(ctx, market).Error(0)
}

func (m *MockMarketRepository) ListActive(ctx context.Context, limit, offset int) ([]models.Market, error) {
	args := m.Called(ctx, limit, offset)
	markets, _ := args.Get(0).([]models.Market)
	return markets, args.Error(1)
}

func (m *MockMarketRepository) ListByState(ctx context.Context, state models.MarketState, limit, offset int) ([]models.Market, error) {
	args := m.Called(ctx, state, limit, offset)
	markets, _ := args.Get(0).([]models.Market)
	return markets, args.Error(1)
}

func (m *MockMarketRepository) ListEndedUnresolved(ctx context.Context, now time.Time) ([]models.Market, error) {
	args := m.Called(ctx, now)
	markets, _ := args.Get(0).([]models.Market)
	return markets, args.Error(1)
}

// MockBetRepository is a testify mock of BetRepository.
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) WithTx(tx *gorm.DB) BetRepository {
	args := m.Called(tx)
	return args.Get(0).(BetRepository)
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	return m.Called(ctx, bet).Error(0)
}

func (m *MockBetRepository) Update(ctx context.Context, bet *models.Bet) error {
	return m.Called(ctx, bet).Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, id)
	bet, _ := args.Get(0).(*models.Bet)
	return bet, args.Error(1)
}

func (m *MockBetRepository) GetActiveByUserMarket(ctx context.Context, userID uuid.UUID, marketID string) (*models.Bet, error) {
	args := m.Called(ctx, userID, marketID)
	bet, _ := args.Get(0).(*models.Bet)
	return bet, args.Error(1)
}

func (m *MockBetRepository) ListByUserMarket(ctx context.Context, userID uuid.UUID, marketID string) ([]models.Bet, error) {
	args := m.Called(ctx, userID, marketID)
	bets, _ := args.Get(0).([]models.Bet)
	return bets, args.Error(1)
}

func (m *MockBetRepository) ListByMarket(ctx context.Context, marketID string) ([]models.Bet, error) {
	args := m.Called(ctx, marketID)
	bets, _ := args.Get(0).([]models.Bet)
	return bets, args.Error(1)
}

func (m *MockBetRepository) ListActiveByMarket(ctx context.Context, marketID string) ([]models.Bet, error) {
	args := m.Called(ctx, marketID)
	bets, _ := args.Get(0).([]models.Bet)
	return bets, args.Error(1)
}

func (m *MockBetRepository) ListActiveByMarketOutcome(ctx context.Context, marketID, outcome string) ([]models.Bet, error) {
	args := m.Called(ctx, marketID, outcome)
	bets, _ := args.Get(0).([]models.Bet)
	return bets, args.Error(1)
}

func (m *MockBetRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Bet, error) {
	args := m.Called(ctx, userID, limit, offset)
	bets, _ := args.Get(0).([]models.Bet)
	return bets, args.Error(1)
}

// MockDisputeStakeRepository is a testify mock of DisputeStakeRepository.
type MockDisputeStakeRepository struct {
	mock.Mock
}

func (m *MockDisputeStakeRepository) WithTx(tx *gorm.DB) DisputeStakeRepository {
	args := m.Called(tx)
	return args.Get(0).(DisputeStakeRepository)
}

func (m *MockDisputeStakeRepository) Create(ctx context.Context, stake *models.DisputeStake) error {
	return m.Called(ctx, stake).Error(0)
}

func (m *MockDisputeStakeRepository) Update(ctx context.Context, stake *models.DisputeStake) error {
	return m.Called(ctx, stake).Error(0)
}

func (m *MockDisputeStakeRepository) ListByMarket(ctx context.Context, marketID string) ([]models.DisputeStake, error) {
	args := m.Called(ctx, marketID)
	stakes, _ := args.Get(0).([]models.DisputeStake)
	return stakes, args.Error(1)
}

func (m *MockDisputeStakeRepository) ListByMarketOutcome(ctx context.Context, marketID, outcome string) ([]models.DisputeStake, error) {
	args := m.Called(ctx, marketID, outcome)
	stakes, _ := args.Get(0).([]models.DisputeStake)
	return stakes, args.Error(1)
}

func (m *MockDisputeStakeRepository) SumByMarket(ctx context.Context, marketID string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, marketID)
	sums, _ := args.Get(0).(map[string]decimal.Decimal)
	return sums, args.Error(1)
}

// MockSettlementRepository is a testify mock of SettlementRepository.
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) WithTx(tx *gorm.DB) SettlementRepository {
	args := m.Called(tx)
	return args.Get(0).(SettlementRepository)
}

func (m *MockSettlementRepository) Create(ctx context.Context, settlement *models.Settlement) error {
	return m.Called(ctx, settlement).Error(0)
}

func (m *MockSettlementRepository) ListByMarket(ctx context.Context, marketID string) ([]models.Settlement, error) {
	args := m.Called(ctx, marketID)
	settlements, _ := args.Get(0).([]models.Settlement)
	return settlements, args.Error(1)
}

func (m *MockSettlementRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Settlement, error) {
	args := m.Called(ctx, userID, limit, offset)
	settlements, _ := args.Get(0).([]models.Settlement)
	return settlements, args.Error(1)
}

// MockValueTransferer is a testify mock of ValueTransferer.
type MockValueTransferer struct {
	mock.Mock
}

func (m *MockValueTransferer) Debit(ctx context.Context, identity uuid.UUID, amount decimal.Decimal, currency string) error {
	return m.Called(ctx, identity, amount, currency).Error(0)
}

func (m *MockValueTransferer) Credit(ctx context.Context, identity uuid.UUID, amount decimal.Decimal, currency string) error {
	return m.Called(ctx, identity, amount, currency).Error(0)
}

// MockBalanceReader is a testify mock of BalanceReader.
type MockBalanceReader struct {
	mock.Mock
}

func (m *MockBalanceReader) Balance(ctx context.Context, identity uuid.UUID, currency string) (decimal.Decimal, error) {
	args := m.Called(ctx, identity, currency)
	bal, _ := args.Get(0).(decimal.Decimal)
	return bal, args.Error(1)
}

// MockAuthenticator is a testify mock of Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, identity uuid.UUID) error {
	return m.Called(ctx, identity).Error(0)
}

// fixedClock is a Clock that always returns the same instant, for
// deterministic lifecycle-timing tests.
type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }

// newTestTemporary returns a Temporary namespace over the in-memory cache
// backend, so tests exercise the real dedupe/cache paths without Redis.
func newTestTemporary() ledger.Temporary {
	return ledger.NewTemporary(cache.NewCache[string](cache.MemoryBackend, nil))
}
