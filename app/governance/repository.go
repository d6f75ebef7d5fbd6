package governance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/foresight/models"
)

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository builds a gorm-backed AdminRepository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) WithTx(tx *gorm.DB) AdminRepository {
	return &adminRepository{db: tx}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.AdminRecord) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) Update(ctx context.Context, admin *models.AdminRecord) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

func (r *adminRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.AdminRecord, error) {
	var admin models.AdminRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) ListActive(ctx context.Context) ([]models.AdminRecord, error) {
	var admins []models.AdminRecord
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&admins).Error
	return admins, err
}

func (r *adminRepository) CountActiveSuperAdmins(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AdminRecord{}).
		Where("is_active = ? AND role = ?", true, models.AdminRoleSuperAdmin).
		Count(&count).Error
	return int(count), err
}

func (r *adminRepository) GetMultisigConfig(ctx context.Context) (*models.MultisigConfig, error) {
	var cfg models.MultisigConfig
	err := r.db.WithContext(ctx).FirstOrCreate(&cfg, models.MultisigConfig{ID: 1, Threshold: 1, TotalAdmins: 1}).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *adminRepository) SaveMultisigConfig(ctx context.Context, cfg *models.MultisigConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

type pendingActionRepository struct {
	db *gorm.DB
}

// NewPendingActionRepository builds a gorm-backed PendingActionRepository.
func NewPendingActionRepository(db *gorm.DB) PendingActionRepository {
	return &pendingActionRepository{db: db}
}

func (r *pendingActionRepository) WithTx(tx *gorm.DB) PendingActionRepository {
	return &pendingActionRepository{db: tx}
}

func (r *pendingActionRepository) Create(ctx context.Context, action *models.PendingAdminAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *pendingActionRepository) Update(ctx context.Context, action *models.PendingAdminAction) error {
	return r.db.WithContext(ctx).Save(action).Error
}

func (r *pendingActionRepository) GetByID(ctx context.Context, actionID int64) (*models.PendingAdminAction, error) {
	var action models.PendingAdminAction
	if err := r.db.WithContext(ctx).Where("action_id = ?", actionID).First(&action).Error; err != nil {
		return nil, err
	}
	return &action, nil
}

func (r *pendingActionRepository) ListPending(ctx context.Context) ([]models.PendingAdminAction, error) {
	var actions []models.PendingAdminAction
	err := r.db.WithContext(ctx).Where("executed = ?", false).Find(&actions).Error
	return actions, err
}
