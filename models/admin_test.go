package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAdminRole(t *testing.T) {
	assert.True(t, AdminRoleSuperAdmin.IsValid())
	assert.True(t, AdminRoleAdmin.IsValid())
	assert.True(t, AdminRoleReadOnly.IsValid())
	assert.False(t, AdminRole("bogus").IsValid())
}

func TestAdminRecord(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		assert.Equal(t, "admin_records", (&AdminRecord{}).TableName())
	})

	t.Run("BeforeCreate", func(t *testing.T) {
		a := AdminRecord{}
		err := a.BeforeCreate(nil)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, a.ID)
	})

	t.Run("IsSuperAdmin", func(t *testing.T) {
		a := AdminRecord{Role: AdminRoleSuperAdmin, IsActive: true}
		assert.True(t, a.IsSuperAdmin())
		a.IsActive = false
		assert.False(t, a.IsSuperAdmin())
	})

	t.Run("Validate", func(t *testing.T) {
		a := AdminRecord{UserID: uuid.New(), Role: AdminRoleAdmin}
		assert.NoError(t, a.Validate())

		a.UserID = uuid.Nil
		assert.Equal(t, ErrInvalidUserID, a.Validate())

		a.UserID = uuid.New()
		a.Role = "bogus"
		assert.Equal(t, ErrInvalidAdminRole, a.Validate())
	})
}

func TestMultisigConfig(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		c := MultisigConfig{Threshold: 2}
		assert.NoError(t, c.Validate(3))
		assert.Equal(t, ErrInvalidThreshold, c.Validate(1))

		c.Threshold = 0
		assert.Equal(t, ErrInvalidThreshold, c.Validate(3))
	})
}

func TestPendingAdminAction(t *testing.T) {
	t.Run("Approve rejects duplicates", func(t *testing.T) {
		admin := uuid.New()
		p := PendingAdminAction{ActionType: PendingActionAddAdmin, Initiator: admin}
		err := p.Approve(admin, time.Now())
		assert.NoError(t, err)
		assert.True(t, p.HasApproved(admin))

		err = p.Approve(admin, time.Now())
		assert.Equal(t, ErrAlreadyApproved, err)
	})

	t.Run("ThresholdMet", func(t *testing.T) {
		p := PendingAdminAction{}
		a1, a2 := uuid.New(), uuid.New()
		assert.NoError(t, p.Approve(a1, time.Now()))
		assert.False(t, p.ThresholdMet(2))
		assert.NoError(t, p.Approve(a2, time.Now()))
		assert.True(t, p.ThresholdMet(2))
	})

	t.Run("Execute enforces threshold, expiry and idempotence", func(t *testing.T) {
		now := time.Now()
		a1, a2 := uuid.New(), uuid.New()
		p := PendingAdminAction{ExpiresAt: now.Add(time.Hour)}
		assert.NoError(t, p.Approve(a1, now))

		err := p.Execute(2, now)
		assert.Equal(t, ErrThresholdNotMet, err)

		assert.NoError(t, p.Approve(a2, now))
		err = p.Execute(2, now)
		assert.NoError(t, err)
		assert.True(t, p.Executed)

		err = p.Execute(2, now)
		assert.Equal(t, ErrActionAlreadyExecuted, err)
	})

	t.Run("Execute rejects expired actions", func(t *testing.T) {
		now := time.Now()
		p := PendingAdminAction{ExpiresAt: now.Add(-time.Minute)}
		assert.NoError(t, p.Approve(uuid.New(), now))
		err := p.Execute(1, now)
		assert.Equal(t, ErrActionExpired, err)
	})

	t.Run("IsExpired", func(t *testing.T) {
		now := time.Now()
		p := PendingAdminAction{ExpiresAt: now.Add(time.Minute)}
		assert.False(t, p.IsExpired(now))
		assert.True(t, p.IsExpired(now.Add(2*time.Minute)))
	})
}

func TestApprovalSetAndActionData(t *testing.T) {
	t.Run("ApprovalSet Value and Scan", func(t *testing.T) {
		s := ApprovalSet{uuid.New(): time.Now()}
		value, err := s.Value()
		assert.NoError(t, err)

		var result ApprovalSet
		err = result.Scan(value)
		assert.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("ActionData Value and Scan", func(t *testing.T) {
		d := ActionData{"role": "admin"}
		value, err := d.Value()
		assert.NoError(t, err)

		var result ActionData
		err = result.Scan(value)
		assert.NoError(t, err)
		assert.Equal(t, "admin", result["role"])
	})
}
