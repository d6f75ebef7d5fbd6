// Package governance implements the admin set and M-of-N multisig approval
// workflow for sensitive lifecycle operations.
package governance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/foresight/models"
)

// AdminRepository is the persistence port for the admin set.
type AdminRepository interface {
	WithTx(tx *gorm.DB) AdminRepository

	Create(ctx context.Context, admin *models.AdminRecord) error
	Update(ctx context.Context, admin *models.AdminRecord) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.AdminRecord, error)
	ListActive(ctx context.Context) ([]models.AdminRecord, error)
	CountActiveSuperAdmins(ctx context.Context) (int, error)

	GetMultisigConfig(ctx context.Context) (*models.MultisigConfig, error)
	SaveMultisigConfig(ctx context.Context, cfg *models.MultisigConfig) error
}

// PendingActionRepository is the persistence port for M-of-N pending
// admin actions.
type PendingActionRepository interface {
	WithTx(tx *gorm.DB) PendingActionRepository

	Create(ctx context.Context, action *models.PendingAdminAction) error
	Update(ctx context.Context, action *models.PendingAdminAction) error
	GetByID(ctx context.Context, actionID int64) (*models.PendingAdminAction, error)
	ListPending(ctx context.Context) ([]models.PendingAdminAction, error)
}
