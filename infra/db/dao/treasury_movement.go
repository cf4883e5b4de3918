package dao

import (
	"fmt"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/model"
)

func (d *dao) CreateTreasuryMovement(payload *model.TreasuryMovement) error {
	if err := d.db.Create(payload).Error; err != nil {
		return fmt.Errorf("failed to save treasury movement: %w", err)
	}
	return nil
}

func (d *dao) GetTreasuryMovementByID(movementID int64) (model.TreasuryMovement, error) {
	var movement model.TreasuryMovement
	err := d.db.First(&movement, movementID).Error
	return movement, err
}

// GetUnclaimedTreasuryMovements is the movement index read. Adjustment entries
// are left out unless the filter asks for them by kind.
func (d *dao) GetUnclaimedTreasuryMovements(bankAccountID int64, filter entity.MovementFilter) ([]model.TreasuryMovement, error) {
	q := d.db.Where("bank_account_id = ? AND claimed_item_id IS NULL", bankAccountID)
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	if len(filter.Kinds) > 0 {
		q = q.Where("kind IN (?)", filter.Kinds)
	} else {
		q = q.Where("kind <> ?", consts.MovementKindAdjustment)
	}

	var movements []model.TreasuryMovement
	if err := q.Order("date ASC, id ASC").Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch unclaimed movements: %w", err)
	}
	return movements, nil
}

// ClaimTreasuryMovement sets the claim only if nobody holds it yet.
func (d *dao) ClaimTreasuryMovement(movementID, itemID int64, now int64) (bool, error) {
	res := d.db.Model(&model.TreasuryMovement{}).
		Where("id = ? AND claimed_item_id IS NULL", movementID).
		UpdateColumns(map[string]interface{}{
			"claimed_item_id": itemID,
			"claim_time":      now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim movement %d: %w", movementID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (d *dao) ReleaseTreasuryMovement(movementID, itemID int64) (bool, error) {
	res := d.db.Model(&model.TreasuryMovement{}).
		Where("id = ? AND claimed_item_id = ?", movementID, itemID).
		UpdateColumns(map[string]interface{}{
			"claimed_item_id": nil,
			"claim_time":      0,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to release movement %d: %w", movementID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
