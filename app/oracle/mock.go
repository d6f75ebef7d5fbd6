package oracle

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/joefazee/foresight/models"
)

// MockInvoker is a testify mock of Invoker.
type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, provider ProviderKind, asset string, now time.Time) (PricePoint, error) {
	args := m.Called(ctx, provider, asset, now)
	return args.Get(0).(PricePoint), args.Error(1)
}

// MockAdapter is a testify mock of Adapter.
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) ResolveOutcome(ctx context.Context, cfg models.OracleConfig, fallback *models.OracleConfig, now time.Time) (string, error) {
	args := m.Called(ctx, cfg, fallback, now)
	return args.String(0), args.Error(1)
}
