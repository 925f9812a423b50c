package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	domainRepo "github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

type chargeRepository struct {
	db *gorm.DB
}

// NewChargeRepository creates a new charge repository
func NewChargeRepository(db *gorm.DB) domainRepo.ChargeRepository {
	return &chargeRepository{db: db}
}

func (r *chargeRepository) Create(ctx context.Context, charge *entity.PixCharge) error {
	return r.db.WithContext(ctx).Create(charge).Error
}

func (r *chargeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PixCharge, error) {
	var charge entity.PixCharge
	err := r.db.WithContext(ctx).First(&charge, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &charge, err
}

func (r *chargeRepository) GetByTxID(ctx context.Context, txID string) (*entity.PixCharge, error) {
	var charge entity.PixCharge
	err := r.db.WithContext(ctx).First(&charge, "tx_id = ?", txID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &charge, err
}

// FinishIfProcessing is the compare-and-set behind exactly-once
// reconciliation: the status predicate in the WHERE clause means only one
// caller per charge ever sees RowsAffected > 0.
func (r *chargeRepository) FinishIfProcessing(ctx context.Context, txID, endToEndID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.PixCharge{}).
		Where("tx_id = ? AND status = ?", txID, enum.ChargeStatusProcessing).
		Updates(map[string]interface{}{
			"status":        enum.ChargeStatusFinished,
			"end_to_end_id": endToEndID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *chargeRepository) RevertToProcessing(ctx context.Context, txID string) error {
	return r.db.WithContext(ctx).Model(&entity.PixCharge{}).
		Where("tx_id = ? AND status = ?", txID, enum.ChargeStatusFinished).
		Updates(map[string]interface{}{
			"status":        enum.ChargeStatusProcessing,
			"end_to_end_id": nil,
		}).Error
}

func (r *chargeRepository) CancelBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.PixCharge{}).
		Where("id IN ? AND status = ?", ids, enum.ChargeStatusProcessing).
		Update("status", enum.ChargeStatusCancelled).Error
}

func (r *chargeRepository) List(ctx context.Context, storeID uuid.UUID, status *enum.ChargeStatus, params *pagination.PaginationParams) ([]entity.PixCharge, int64, error) {
	var charges []entity.PixCharge
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PixCharge{}).Where("store_id = ?", storeID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&charges).Error

	return charges, total, err
}
