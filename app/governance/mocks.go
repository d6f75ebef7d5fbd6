package governance

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/joefazee/foresight/internal/eventlog"
	"github.com/joefazee/foresight/models"
)

// MockAdminRepository is a testify mock of AdminRepository.
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) WithTx(tx *gorm.DB) AdminRepository {
	args := m.Called(tx)
	return args.Get(0).(AdminRepository)
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *models.AdminRecord) error {
	return m.Called(ctx, admin).Error(0)
}

func (m *MockAdminRepository) Update(ctx context.Context, admin *models.AdminRecord) error {
	return m.Called(ctx, admin).Error(0)
}

func (m *MockAdminRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.AdminRecord, error) {
	args := m.Called(ctx, userID)
	admin, _ := args.Get(0).(*models.AdminRecord)
	return admin, args.Error(1)
}

func (m *MockAdminRepository) ListActive(ctx context.Context) ([]models.AdminRecord, error) {
	args := m.Called(ctx)
	admins, _ := args.Get(0).([]models.AdminRecord)
	return admins, args.Error(1)
}

func (m *MockAdminRepository) CountActiveSuperAdmins(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAdminRepository) GetMultisigConfig(ctx context.Context) (*models.MultisigConfig, error) {
	args := m.Called(ctx)
	cfg, _ := args.Get(0).(*models.MultisigConfig)
	return cfg, args.Error(1)
}

func (m *MockAdminRepository) SaveMultisigConfig(ctx context.Context, cfg *models.MultisigConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

// MockPendingActionRepository is a testify mock of PendingActionRepository.
type MockPendingActionRepository struct {
	mock.Mock
}

func (m *MockPendingActionRepository) WithTx(tx *gorm.DB) PendingActionRepository {
	args := m.Called(tx)
	return args.Get(0).(PendingActionRepository)
}

func (m *MockPendingActionRepository) Create(ctx context.Context, action *models.PendingAdminAction) error {
	return m.Called(ctx, action).Error(0)
}

func (m *MockPendingActionRepository) Update(ctx context.Context, action *models.PendingAdminAction) error {
	return m.Called(ctx, action).Error(0)
}

func (m *MockPendingActionRepository) GetByID(ctx context.Context, actionID int64) (*models.PendingAdminAction, error) {
	args := m.Called(ctx, actionID)
	action, _ := args.Get(0).(*models.PendingAdminAction)
	return action, args.Error(1)
}

func (m *MockPendingActionRepository) ListPending(ctx context.Context) ([]models.PendingAdminAction, error) {
	args := m.Called(ctx)
	actions, _ := args.Get(0).([]models.PendingAdminAction)
	return actions, args.Error(1)
}

// MockEventLog is a testify mock of eventlog.EventLog, local to this package
// since app/core already imports app/governance and cannot be imported back.
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
