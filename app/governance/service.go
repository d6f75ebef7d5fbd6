package governance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joefazee/foresight/internal/eventlog"
	"github.com/joefazee/foresight/models"
)

// Service is the admin & multisig module: role operations and
// the M-of-N pending-action workflow that guards them once multisig is
// enabled. Every method assumes its repositories are already bound to the
// enclosing transaction, matching the rest of `app/core`.
type Service struct {
	admins  AdminRepository
	actions PendingActionRepository
	events  eventlog.EventLog
	cfg     *Config
	clock   interface{ Now() time.Time }
}

// NewService builds the governance module over transaction-scoped
// repositories.
func NewService(admins AdminRepository, actions PendingActionRepository, events eventlog.EventLog, cfg *Config, clock interface{ Now() time.Time }) *Service {
	return &Service{admins: admins, actions: actions, events: events, cfg: cfg, clock: clock}
}

// IsActiveAdmin reports whether userID holds any active admin role.
func (s *Service) IsActiveAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	admin, err := s.admins.GetByUserID(ctx, userID)
	if err != nil {
		return false, nil
	}
	return admin.IsActive, nil
}

// IsSuperAdmin reports whether userID holds active SuperAdmin privilege.
func (s *Service) IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	admin, err := s.admins.GetByUserID(ctx, userID)
	if err != nil {
		return false, nil
	}
	return admin.IsSuperAdmin(), nil
}

// RequiresMultisig reports whether sensitive operations must go through the
// pending-action approval workflow.
func (s *Service) RequiresMultisig(ctx context.Context) (bool, error) {
	cfg, err := s.admins.GetMultisigConfig(ctx)
	if err != nil {
		return false, err
	}
	return cfg.Enabled, nil
}

func (s *Service) requireSuperAdmin(ctx context.Context, caller uuid.UUID) error {
	ok, err := s.IsSuperAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrUnauthorized
	}
	return nil
}

// AddAdmin registers a new admin record. Requires SuperAdmin privilege.
func (s *Service) AddAdmin(ctx context.Context, caller, target uuid.UUID, role models.AdminRole) error {
	if err := s.requireSuperAdmin(ctx, caller); err != nil {
		return err
	}
	if existing, err := s.admins.GetByUserID(ctx, target); err == nil && existing != nil {
		return models.ErrAdminAlreadyExists
	}
	admin := &models.AdminRecord{UserID: target, Role: role, IsActive: true}
	if err := admin.Validate(); err != nil {
		return err
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return err
	}
	return s.events.Emit(ctx, eventlog.TopicAdminAdded, nil, &caller, models.EventPayload{
		"target": target.String(),
		"role":   string(role),
	})
}

// RemoveAdmin deactivates an admin record. At least one active SuperAdmin
// must always remain.
func (s *Service) RemoveAdmin(ctx context.Context, caller, target uuid.UUID) error {
	if err := s.requireSuperAdmin(ctx, caller); err != nil {
		return err
	}
	admin, err := s.admins.GetByUserID(ctx, target)
	if err != nil {
		return models.ErrAdminNotFound
	}
	if admin.IsSuperAdmin() {
		count, err := s.admins.CountActiveSuperAdmins(ctx)
		if err != nil {
			return err
		}
		if count <= 1 {
			return models.ErrLastSuperAdmin
		}
	}
	admin.IsActive = false
	if err := s.admins.Update(ctx, admin); err != nil {
		return err
	}
	return s.events.Emit(ctx, eventlog.TopicAdminRemoved, nil, &caller, models.EventPayload{
		"target": target.String(),
	})
}

// UpdateRole changes an admin's role, subject to the same last-super-admin
// protection as RemoveAdmin when demoting the last active SuperAdmin.
func (s *Service) UpdateRole(ctx context.Context, caller, target uuid.UUID, role models.AdminRole) error {
	if err := s.requireSuperAdmin(ctx, caller); err != nil {
		return err
	}
	if !role.IsValid() {
		return models.ErrInvalidAdminRole
	}
	admin, err := s.admins.GetByUserID(ctx, target)
	if err != nil {
		return models.ErrAdminNotFound
	}
	if admin.IsSuperAdmin() && role != models.AdminRoleSuperAdmin {
		count, err := s.admins.CountActiveSuperAdmins(ctx)
		if err != nil {
			return err
		}
		if count <= 1 {
			return models.ErrLastSuperAdmin
		}
	}
	admin.Role = role
	if err := s.admins.Update(ctx, admin); err != nil {
		return err
	}
	return s.events.Emit(ctx, eventlog.TopicRoleUpdated, nil, &caller, models.EventPayload{
		"target": target.String(),
		"role":   string(role),
	})
}

// Deactivate flips an admin record inactive. It reuses RemoveAdmin's
// last-super-admin safeguard so the protection cannot be bypassed.
func (s *Service) Deactivate(ctx context.Context, caller, target uuid.UUID) error {
	return s.RemoveAdmin(ctx, caller, target)
}

// Reactivate flips a previously deactivated admin record active again.
func (s *Service) Reactivate(ctx context.Context, caller, target uuid.UUID) error {
	if err := s.requireSuperAdmin(ctx, caller); err != nil {
		return err
	}
	admin, err := s.admins.GetByUserID(ctx, target)
	if err != nil {
		return models.ErrAdminNotFound
	}
	admin.IsActive = true
	if err := s.admins.Update(ctx, admin); err != nil {
		return err
	}
	return s.events.Emit(ctx, eventlog.TopicAdminAdded, nil, &caller, models.EventPayload{
		"target":      target.String(),
		"reactivated": true,
	})
}

// SetThreshold updates the M-of-N multisig threshold, requiring 1 <= n <=
// count(active admins). n == 1 disables multisig.
func (s *Service) SetThreshold(ctx context.Context, caller uuid.UUID, n int) error {
	if err := s.requireSuperAdmin(ctx, caller); err != nil {
		return err
	}
	active, err := s.admins.ListActive(ctx)
	if err != nil {
		return err
	}
	cfg, err := s.admins.GetMultisigConfig(ctx)
	if err != nil {
		return err
	}
	cfg.Threshold = n
	cfg.TotalAdmins = len(active)
	if err := cfg.Validate(len(active)); err != nil {
		return err
	}
	cfg.Enabled = n > 1
	if err := s.admins.SaveMultisigConfig(ctx, cfg); err != nil {
		return err
	}
	return s.events.Emit(ctx, eventlog.TopicThresholdChanged, nil, &caller, models.EventPayload{
		"threshold": n,
	})
}

// GetMultisigConfig returns the current multisig configuration.
func (s *Service) GetMultisigConfig(ctx context.Context) (*models.MultisigConfig, error) {
	return s.admins.GetMultisigConfig(ctx)
}

// CreatePendingAction opens a new M-of-N approval workflow for a sensitive
// operation. The initiator is auto-approved.
func (s *Service) CreatePendingAction(ctx context.Context, initiator uuid.UUID, actionType models.PendingActionType, target *uuid.UUID, data models.ActionData) (*models.PendingAdminAction, error) {
	if ok, err := s.IsActiveAdmin(ctx, initiator); err != nil || !ok {
		return nil, models.ErrUnauthorized
	}
	now := s.clock.Now()
	action := &models.PendingAdminAction{
		ActionType: actionType,
		Target:     target,
		Initiator:  initiator,
		Data:       data,
		ExpiresAt:  now.Add(s.cfg.ActionTTL),
	}
	if err := action.Approve(initiator, now); err != nil {
		return nil, err
	}
	if err := s.actions.Create(ctx, action); err != nil {
		return nil, err
	}
	if err := s.events.Emit(ctx, eventlog.TopicPendingActionCreated, nil, &initiator, models.EventPayload{
		"action_id":   action.ActionID,
		"action_type": string(actionType),
	}); err != nil {
		return nil, err
	}
	return action, nil
}

// Approve records an admin's approval of a pending action, returning
// whether the threshold has now been met.
func (s *Service) Approve(ctx context.Context, admin uuid.UUID, actionID int64) (bool, error) {
	if ok, err := s.IsActiveAdmin(ctx, admin); err != nil || !ok {
		return false, models.ErrUnauthorized
	}
	action, err := s.actions.GetByID(ctx, actionID)
	if err != nil {
		return false, models.ErrActionNotFound
	}
	if action.IsExpired(s.clock.Now()) {
		return false, models.ErrActionExpired
	}
	if err := action.Approve(admin, s.clock.Now()); err != nil {
		return false, err
	}
	if err := s.actions.Update(ctx, action); err != nil {
		return false, err
	}

	cfg, err := s.admins.GetMultisigConfig(ctx)
	if err != nil {
		return false, err
	}
	met := action.ThresholdMet(cfg.Threshold)

	if err := s.events.Emit(ctx, eventlog.TopicPendingActionApproved, nil, &admin, models.EventPayload{
		"action_id":     actionID,
		"threshold_met": met,
	}); err != nil {
		return false, err
	}
	return met, nil
}

// Execute dispatches a pending action once its approval threshold has been
// met, applying its effect and marking it executed.
func (s *Service) Execute(ctx context.Context, executor uuid.UUID, actionID int64) error {
	action, err := s.actions.GetByID(ctx, actionID)
	if err != nil {
		return models.ErrActionNotFound
	}
	cfg, err := s.admins.GetMultisigConfig(ctx)
	if err != nil {
		return err
	}
	if err := action.Execute(cfg.Threshold, s.clock.Now()); err != nil {
		return err
	}
	if err := s.dispatch(ctx, executor, action); err != nil {
		return err
	}
	if err := s.actions.Update(ctx, action); err != nil {
		return err
	}
	return s.events.Emit(ctx, eventlog.TopicPendingActionExecuted, nil, &executor, models.EventPayload{
		"action_id":   actionID,
		"action_type": string(action.ActionType),
	})
}

// ExecuteExternal marks a market-scoped pending action executed and emits
// the executed event, leaving the action's effect to the caller: the
// lifecycle controller owns the market repositories those action types
// mutate.
func (s *Service) ExecuteExternal(ctx context.Context, executor uuid.UUID, actionID int64) (*models.PendingAdminAction, error) {
	action, err := s.actions.GetByID(ctx, actionID)
	if err != nil {
		return nil, models.ErrActionNotFound
	}
	cfg, err := s.admins.GetMultisigConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := action.Execute(cfg.Threshold, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.actions.Update(ctx, action); err != nil {
		return nil, err
	}
	if err := s.events.Emit(ctx, eventlog.TopicPendingActionExecuted, nil, &executor, models.EventPayload{
		"action_id":   actionID,
		"action_type": string(action.ActionType),
	}); err != nil {
		return nil, err
	}
	return action, nil
}

// dispatch applies a pending action's effect for the action types owned
// entirely by this package. Action types that mutate a market (cancel,
// oracle config update, fee withdrawal, threshold adjustment) are dispatched
// by the lifecycle controller instead, since they need the market
// repository this package does not depend on.
func (s *Service) dispatch(ctx context.Context, executor uuid.UUID, action *models.PendingAdminAction) error {
	switch action.ActionType {
	case models.PendingActionAddAdmin:
		role, _ := action.Data["role"].(string)
		if action.Target == nil {
			return models.ErrInvalidAdminRole
		}
		return s.AddAdmin(ctx, executor, *action.Target, models.AdminRole(role))
	case models.PendingActionRemoveAdmin:
		if action.Target == nil {
			return models.ErrAdminNotFound
		}
		return s.RemoveAdmin(ctx, executor, *action.Target)
	case models.PendingActionUpdateRole:
		role, _ := action.Data["role"].(string)
		if action.Target == nil {
			return models.ErrInvalidAdminRole
		}
		return s.UpdateRole(ctx, executor, *action.Target, models.AdminRole(role))
	case models.PendingActionSetThreshold:
		n, _ := action.Data["threshold"].(float64)
		return s.SetThreshold(ctx, executor, int(n))
	default:
		// Market-scoped action types are dispatched by the controller.
		return nil
	}
}

// Bootstrap seeds the first SuperAdmin record, the only way an admin set may
// go from empty to non-empty without an existing SuperAdmin caller. Refuses
// once any admin record exists.
func (s *Service) Bootstrap(ctx context.Context, admin uuid.UUID) error {
	active, err := s.admins.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return models.ErrAlreadyInitialized
	}
	record := &models.AdminRecord{UserID: admin, Role: models.AdminRoleSuperAdmin, IsActive: true}
	if err := record.Validate(); err != nil {
		return err
	}
	if err := s.admins.Create(ctx, record); err != nil {
		return err
	}
	cfg := &models.MultisigConfig{Threshold: 1, TotalAdmins: 1, Enabled: false}
	if err := s.admins.SaveMultisigConfig(ctx, cfg); err != nil {
		return err
	}
	return s.events.Emit(ctx, eventlog.TopicAdminAdded, nil, &admin, models.EventPayload{
		"target":    admin.String(),
		"role":      string(models.AdminRoleSuperAdmin),
		"bootstrap": true,
	})
}

// GetPendingAction fetches a pending action by ID.
func (s *Service) GetPendingAction(ctx context.Context, actionID int64) (*models.PendingAdminAction, error) {
	return s.actions.GetByID(ctx, actionID)
}
