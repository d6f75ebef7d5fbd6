package governance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/foresight/models"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func newTestService(admins *MockAdminRepository, actions *MockPendingActionRepository, events *MockEventLog) *Service {
	return NewService(admins, actions, events, GetDefaultConfig(), fixedClock{now: time.Now()})
}

func superAdminRecord(userID uuid.UUID) *models.AdminRecord {
	return &models.AdminRecord{UserID: userID, Role: models.AdminRoleSuperAdmin, IsActive: true}
}

func TestAddAdmin_RequiresSuperAdminCaller(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	caller := uuid.New()
	admins.On("GetByUserID", mock.Anything, caller).Return(&models.AdminRecord{Role: models.AdminRoleAdmin, IsActive: true}, nil)

	err := svc.AddAdmin(context.Background(), caller, uuid.New(), models.AdminRoleAdmin)
	require.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAddAdmin_RejectsDuplicateTarget(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	caller := uuid.New()
	target := uuid.New()
	admins.On("GetByUserID", mock.Anything, caller).Return(superAdminRecord(caller), nil)
	admins.On("GetByUserID", mock.Anything, target).Return(superAdminRecord(target), nil)

	err := svc.AddAdmin(context.Background(), caller, target, models.AdminRoleAdmin)
	require.ErrorIs(t, err, models.ErrAdminAlreadyExists)
}

func TestRemoveAdmin_ProtectsLastSuperAdmin(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	caller := uuid.New()
	target := uuid.New()
	admins.On("GetByUserID", mock.Anything, caller).Return(superAdminRecord(caller), nil)
	admins.On("GetByUserID", mock.Anything, target).Return(superAdminRecord(target), nil)
	admins.On("CountActiveSuperAdmins", mock.Anything).Return(1, nil)

	err := svc.RemoveAdmin(context.Background(), caller, target)
	require.ErrorIs(t, err, models.ErrLastSuperAdmin)
	admins.AssertNotCalled(t, "Update")
}

func TestRemoveAdmin_DeactivatesWhenMoreThanOneSuperAdminRemains(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	caller := uuid.New()
	target := uuid.New()
	targetRecord := superAdminRecord(target)
	admins.On("GetByUserID", mock.Anything, caller).Return(superAdminRecord(caller), nil)
	admins.On("GetByUserID", mock.Anything, target).Return(targetRecord, nil)
	admins.On("CountActiveSuperAdmins", mock.Anything).Return(2, nil)
	admins.On("Update", mock.Anything, targetRecord).Return(nil)
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := svc.RemoveAdmin(context.Background(), caller, target)
	require.NoError(t, err)
	require.False(t, targetRecord.IsActive)
}

func TestSetThreshold_RequiresSuperAdmin(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	caller := uuid.New()
	admins.On("GetByUserID", mock.Anything, caller).Return(&models.AdminRecord{Role: models.AdminRoleAdmin, IsActive: true}, nil)

	err := svc.SetThreshold(context.Background(), caller, 2)
	require.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestSetThreshold_EnablesMultisigAboveOne(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	caller := uuid.New()
	admins.On("GetByUserID", mock.Anything, caller).Return(superAdminRecord(caller), nil)
	admins.On("ListActive", mock.Anything).Return([]models.AdminRecord{{}, {}, {}}, nil)
	cfg := &models.MultisigConfig{Threshold: 1, TotalAdmins: 3, Enabled: false}
	admins.On("GetMultisigConfig", mock.Anything).Return(cfg, nil)
	admins.On("SaveMultisigConfig", mock.Anything, cfg).Return(nil)
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := svc.SetThreshold(context.Background(), caller, 2)
	require.NoError(t, err)
	require.True(t, cfg.Enabled)
}

func TestRequiresMultisig_ReflectsConfig(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	admins.On("GetMultisigConfig", mock.Anything).Return(&models.MultisigConfig{Enabled: true}, nil)
	ok, err := svc.RequiresMultisig(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCreatePendingAction_RequiresActiveAdmin(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	initiator := uuid.New()
	admins.On("GetByUserID", mock.Anything, initiator).Return(nil, models.ErrAdminNotFound)

	_, err := svc.CreatePendingAction(context.Background(), initiator, models.PendingActionSetThreshold, nil, models.ActionData{})
	require.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestCreatePendingAction_AutoApprovesInitiator(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	initiator := uuid.New()
	admins.On("GetByUserID", mock.Anything, initiator).Return(superAdminRecord(initiator), nil)
	actions.On("Create", mock.Anything, mock.AnythingOfType("*models.PendingAdminAction")).Return(nil)
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	action, err := svc.CreatePendingAction(context.Background(), initiator, models.PendingActionSetThreshold, nil, models.ActionData{"threshold": float64(2)})
	require.NoError(t, err)
	require.Len(t, action.Approvals, 1)
}

func TestApprove_RejectsExpiredAction(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	admin := uuid.New()
	admins.On("GetByUserID", mock.Anything, admin).Return(superAdminRecord(admin), nil)
	action := &models.PendingAdminAction{ActionID: 1, ExpiresAt: time.Now().Add(-time.Hour)}
	actions.On("GetByID", mock.Anything, int64(1)).Return(action, nil)

	_, err := svc.Approve(context.Background(), admin, 1)
	require.ErrorIs(t, err, models.ErrActionExpired)
}

func TestApprove_ReportsThresholdMet(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	initiator := uuid.New()
	approver := uuid.New()
	admins.On("GetByUserID", mock.Anything, approver).Return(superAdminRecord(approver), nil)

	action := &models.PendingAdminAction{ActionID: 1, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, action.Approve(initiator, time.Now()))
	actions.On("GetByID", mock.Anything, int64(1)).Return(action, nil)
	actions.On("Update", mock.Anything, action).Return(nil)
	admins.On("GetMultisigConfig", mock.Anything).Return(&models.MultisigConfig{Threshold: 2}, nil)
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	met, err := svc.Approve(context.Background(), approver, 1)
	require.NoError(t, err)
	require.True(t, met)
}

func TestBootstrap_SeedsFirstSuperAdmin(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	admin := uuid.New()
	admins.On("ListActive", mock.Anything).Return([]models.AdminRecord{}, nil)
	admins.On("Create", mock.Anything, mock.AnythingOfType("*models.AdminRecord")).Return(nil)
	admins.On("SaveMultisigConfig", mock.Anything, mock.AnythingOfType("*models.MultisigConfig")).Return(nil)
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := svc.Bootstrap(context.Background(), admin)
	require.NoError(t, err)
}

func TestBootstrap_RefusesWhenAdminsAlreadyExist(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	admins.On("ListActive", mock.Anything).Return([]models.AdminRecord{{}}, nil)

	err := svc.Bootstrap(context.Background(), uuid.New())
	require.ErrorIs(t, err, models.ErrAlreadyInitialized)
	admins.AssertNotCalled(t, "Create")
}

func TestApprove_RejectsDuplicateApproval(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	approver := uuid.New()
	admins.On("GetByUserID", mock.Anything, approver).Return(superAdminRecord(approver), nil)

	action := &models.PendingAdminAction{ActionID: 1, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, action.Approve(approver, time.Now()))
	actions.On("GetByID", mock.Anything, int64(1)).Return(action, nil)

	_, err := svc.Approve(context.Background(), approver, 1)
	require.ErrorIs(t, err, models.ErrAlreadyApproved)
}

func TestExecute_RejectsBelowThreshold(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	initiator := uuid.New()
	action := &models.PendingAdminAction{
		ActionID:   1,
		ActionType: models.PendingActionSetThreshold,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	require.NoError(t, action.Approve(initiator, time.Now()))

	actions.On("GetByID", mock.Anything, int64(1)).Return(action, nil)
	admins.On("GetMultisigConfig", mock.Anything).Return(&models.MultisigConfig{Threshold: 2}, nil)

	err := svc.Execute(context.Background(), initiator, 1)
	require.ErrorIs(t, err, models.ErrThresholdNotMet)
	require.False(t, action.Executed)
}

func TestExecute_RejectsAlreadyExecuted(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	action := &models.PendingAdminAction{
		ActionID:   1,
		ActionType: models.PendingActionSetThreshold,
		ExpiresAt:  time.Now().Add(time.Hour),
		Executed:   true,
	}
	actions.On("GetByID", mock.Anything, int64(1)).Return(action, nil)
	admins.On("GetMultisigConfig", mock.Anything).Return(&models.MultisigConfig{Threshold: 1}, nil)

	err := svc.Execute(context.Background(), uuid.New(), 1)
	require.ErrorIs(t, err, models.ErrActionAlreadyExecuted)
}

func TestExecuteExternal_MarksExecutedAndReturnsAction(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	initiator := uuid.New()
	action := &models.PendingAdminAction{
		ActionID:   9,
		ActionType: models.PendingActionCancelMarket,
		Data:       models.ActionData{"market_id": "m1"},
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	require.NoError(t, action.Approve(initiator, time.Now()))
	require.NoError(t, action.Approve(uuid.New(), time.Now()))

	actions.On("GetByID", mock.Anything, int64(9)).Return(action, nil)
	admins.On("GetMultisigConfig", mock.Anything).Return(&models.MultisigConfig{Threshold: 2}, nil)
	actions.On("Update", mock.Anything, action).Return(nil)
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	executed, err := svc.ExecuteExternal(context.Background(), initiator, 9)
	require.NoError(t, err)
	require.True(t, executed.Executed)

	_, err = svc.ExecuteExternal(context.Background(), initiator, 9)
	require.ErrorIs(t, err, models.ErrActionAlreadyExecuted)
}

func TestExecute_DispatchesSetThreshold(t *testing.T) {
	admins := &MockAdminRepository{}
	actions := &MockPendingActionRepository{}
	events := &MockEventLog{}
	svc := newTestService(admins, actions, events)

	initiator := uuid.New()
	action := &models.PendingAdminAction{
		ActionID:   1,
		ActionType: models.PendingActionSetThreshold,
		Data:       models.ActionData{"threshold": float64(2)},
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	require.NoError(t, action.Approve(initiator, time.Now()))
	require.NoError(t, action.Approve(uuid.New(), time.Now()))

	actions.On("GetByID", mock.Anything, int64(1)).Return(action, nil)
	cfg := &models.MultisigConfig{Threshold: 2}
	admins.On("GetMultisigConfig", mock.Anything).Return(cfg, nil)
	admins.On("GetByUserID", mock.Anything, initiator).Return(superAdminRecord(initiator), nil)
	active := []models.AdminRecord{{}, {}}
	admins.On("ListActive", mock.Anything).Return(active, nil)
	admins.On("SaveMultisigConfig", mock.Anything, cfg).Return(nil)
	actions.On("Update", mock.Anything, action).Return(nil)
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := svc.Execute(context.Background(), initiator, 1)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Threshold)
}
