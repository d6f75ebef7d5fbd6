package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRole is the privilege level held by an admin record.
type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "super_admin"
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleReadOnly   AdminRole = "read_only"
)

// IsValid reports whether r is one of the known admin roles.
func (r AdminRole) IsValid() bool {
	switch r {
	case AdminRoleSuperAdmin, AdminRoleAdmin, AdminRoleReadOnly:
		return true
	}
	return false
}

// AdminRecord is a single entry in the admin set: an identity with a role
// and an active flag.
type AdminRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;unique;index" json:"user_id"`
	Role      AdminRole `gorm:"type:varchar(20);not null" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for AdminRecord model
func (*AdminRecord) TableName() string {
	return "admin_records"
}

// BeforeCreate sets up the model before creation
func (a *AdminRecord) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsSuperAdmin reports whether the record holds super-admin privilege.
func (a *AdminRecord) IsSuperAdmin() bool {
	return a.IsActive && a.Role == AdminRoleSuperAdmin
}

// Validate performs validation on the admin record model.
func (a *AdminRecord) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if !a.Role.IsValid() {
		return ErrInvalidAdminRole
	}
	return nil
}

// MultisigConfig is the process-wide singleton describing the M-of-N
// approval threshold for sensitive admin operations.
type MultisigConfig struct {
	ID          int       `gorm:"primary_key;default:1" json:"-"`
	Threshold   int       `gorm:"not null;default:1" json:"threshold"`
	TotalAdmins int       `gorm:"not null;default:1" json:"total_admins"`
	Enabled     bool      `gorm:"not null;default:false" json:"enabled"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for MultisigConfig model
func (*MultisigConfig) TableName() string {
	return "multisig_configs"
}

// Validate performs validation on the multisig config, given the current
// number of active admins.
func (c *MultisigConfig) Validate(activeAdmins int) error {
	if c.Threshold < 1 || c.Threshold > activeAdmins {
		return ErrInvalidThreshold
	}
	return nil
}

// PendingActionType is the stable tag identifying what a pending admin
// action will dispatch to on execution.
type PendingActionType string

const (
	PendingActionAddAdmin           PendingActionType = "add_admin"
	PendingActionRemoveAdmin        PendingActionType = "remove_admin"
	PendingActionUpdateRole         PendingActionType = "update_role"
	PendingActionSetThreshold       PendingActionType = "set_threshold"
	PendingActionUpdateOracleConfig PendingActionType = "update_oracle_config"
	PendingActionCancelMarket       PendingActionType = "cancel_market"
	PendingActionCollectFees        PendingActionType = "collect_fees"
	PendingActionAdjustThreshold    PendingActionType = "adjust_dispute_threshold"
)

// ApprovalSet is a JSONB-backed set of admin identities that have approved
// a pending action.
type ApprovalSet map[uuid.UUID]time.Time

func (s ApprovalSet) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ApprovalSet) Scan(value interface{}) error {
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
	*s = ApprovalSet{}
	return json.Unmarshal(raw, s)
}

// ActionData is an opaque JSONB payload carried by a pending action, shaped
// differently per action type.
type ActionData map[string]interface{}

func (d ActionData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *ActionData) Scan(value interface{}) error {
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
	*d = ActionData{}
	return json.Unmarshal(raw, d)
}

// PendingAdminAction is a sensitive operation awaiting M-of-N approval.
type PendingAdminAction struct {
	ActionID   int64             `gorm:"primary_key;autoIncrement" json:"action_id"`
	ActionType PendingActionType `gorm:"type:varchar(40);not null" json:"action_type"`
	Target     *uuid.UUID        `gorm:"type:uuid" json:"target,omitempty"`
	Initiator  uuid.UUID         `gorm:"type:uuid;not null" json:"initiator"`
	Approvals  ApprovalSet       `gorm:"type:jsonb;not null;default:'{}'" json:"approvals"`
	Data       ActionData        `gorm:"type:jsonb;not null;default:'{}'" json:"data"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt  time.Time         `gorm:"type:timestamptz;not null" json:"expires_at"`
	Executed   bool              `gorm:"not null;default:false" json:"executed"`

	InitiatorUser *User `gorm:"foreignKey:Initiator" json:"-"`
}

// TableName specifies the table name for PendingAdminAction model
func (*PendingAdminAction) TableName() string {
	return "pending_admin_actions"
}

// IsExpired reports whether the action's TTL has elapsed.
func (p *PendingAdminAction) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// HasApproved reports whether admin has already approved this action.
func (p *PendingAdminAction) HasApproved(admin uuid.UUID) bool {
	_, ok := p.Approvals[admin]
	return ok
}

// Approve records an approval from admin, rejecting duplicates.
func (p *PendingAdminAction) Approve(admin uuid.UUID, now time.Time) error {
	if p.HasApproved(admin) {
		return ErrAlreadyApproved
	}
	if p.Approvals == nil {
		p.Approvals = ApprovalSet{}
	}
	p.Approvals[admin] = now
	return nil
}

// ThresholdMet reports whether enough approvals have accrued.
func (p *PendingAdminAction) ThresholdMet(threshold int) bool {
	return len(p.Approvals) >= threshold
}

// Execute marks the action executed, enforcing the threshold, expiry and
// idempotence rules of the governance module.
func (p *PendingAdminAction) Execute(threshold int, now time.Time) error {
	if p.Executed {
		return ErrActionAlreadyExecuted
	}
	if p.IsExpired(now) {
		return ErrActionExpired
	}
	if !p.ThresholdMet(threshold) {
		return ErrThresholdNotMet
	}
	p.Executed = true
	return nil
}
