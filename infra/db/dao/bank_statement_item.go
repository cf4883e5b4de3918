package dao

import (
	"fmt"

	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/model"
)

func (d *dao) CreateBankStatementItem(payload *model.BankStatementItem) error {
	if err := d.db.Create(payload).Error; err != nil {
		return fmt.Errorf("failed to save statement line %d: %w", payload.LineNumber, err)
	}
	return nil
}

func (d *dao) GetBankStatementItems(statementID int64) ([]model.BankStatementItem, error) {
	var items []model.BankStatementItem
	if err := d.db.Where("statement_id = ?", statementID).Order("line_number ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch statement items: %w", err)
	}
	return items, nil
}

func (d *dao) GetUnmatchedBankStatementItems(statementIDs []int64) ([]model.BankStatementItem, error) {
	var items []model.BankStatementItem
	if len(statementIDs) == 0 {
		return items, nil
	}
	if err := d.db.
		Where("statement_id IN (?) AND matched = ? AND is_suspense = ?", statementIDs, false, false).
		Order("statement_id ASC, line_number ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch unmatched statement items: %w", err)
	}
	return items, nil
}

func (d *dao) GetBankStatementItemByID(statementID, itemID int64) (model.BankStatementItem, error) {
	var item model.BankStatementItem
	err := d.db.Where("statement_id = ?", statementID).First(&item, itemID).Error
	return item, err
}

func (d *dao) CountBankStatementItems(statementID int64) (entity.ItemCounters, error) {
	var counters entity.ItemCounters
	base := d.db.Model(&model.BankStatementItem{}).Where("statement_id = ?", statementID)

	if err := base.Count(&counters.Total).Error; err != nil {
		return counters, fmt.Errorf("failed to count items: %w", err)
	}
	if err := base.Where("matched = ?", true).Count(&counters.Matched).Error; err != nil {
		return counters, fmt.Errorf("failed to count matched items: %w", err)
	}
	if err := base.Where("is_suspense = ?", true).Count(&counters.Suspense).Error; err != nil {
		return counters, fmt.Errorf("failed to count suspense items: %w", err)
	}
	if err := base.Where("is_suspense = ? AND suspense_resolved = ?", true, true).Count(&counters.SuspenseResolved).Error; err != nil {
		return counters, fmt.Errorf("failed to count resolved suspense items: %w", err)
	}
	return counters, nil
}

func (d *dao) GetMatchTypeBreakdown(statementID int64) (map[string]int64, error) {
	rows, err := d.db.Model(&model.BankStatementItem{}).
		Select("match_type, count(*)").
		Where("statement_id = ? AND matched = ?", statementID, true).
		Group("match_type").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to group matches: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]int64)
	for rows.Next() {
		var matchType string
		var count int64
		if err := rows.Scan(&matchType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan match breakdown: %w", err)
		}
		breakdown[matchType] = count
	}
	return breakdown, rows.Err()
}

// ClaimBankStatementItem links the item only while it is still unmatched.
// The boolean is false when another writer got there first.
func (d *dao) ClaimBankStatementItem(claim ItemClaim) (bool, error) {
	q := d.db.Model(&model.BankStatementItem{}).Where("id = ? AND matched = ?", claim.ItemID, false)
	if !claim.ClearSuspense {
		q = q.Where("is_suspense = ?", false)
	}

	columns := map[string]interface{}{
		"matched":            true,
		"match_type":         claim.MatchType,
		"match_confidence":   claim.Confidence,
		"linked_movement_id": claim.MovementID,
		"matched_time":       claim.Now,
		"matched_by":         claim.Operator,
		"update_time":        claim.Now,
	}
	if claim.ClearSuspense {
		columns["is_suspense"] = false
		columns["suspense_resolved"] = false
	}

	res := q.UpdateColumns(columns)
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim item %d: %w", claim.ItemID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (d *dao) ReleaseBankStatementItem(itemID, movementID int64, now int64) (bool, error) {
	res := d.db.Model(&model.BankStatementItem{}).
		Where("id = ? AND linked_movement_id = ?", itemID, movementID).
		UpdateColumns(map[string]interface{}{
			"matched":            false,
			"match_type":         "",
			"match_confidence":   nil,
			"linked_movement_id": nil,
			"matched_time":       0,
			"matched_by":         "",
			"update_time":        now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to release item %d: %w", itemID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (d *dao) MarkBankStatementItemSuspense(itemID int64, notes string, now int64) (bool, error) {
	res := d.db.Model(&model.BankStatementItem{}).
		Where("id = ? AND matched = ? AND is_suspense = ?", itemID, false, false).
		UpdateColumns(map[string]interface{}{
			"is_suspense":       true,
			"suspense_resolved": false,
			"suspense_notes":    notes,
			"update_time":       now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark item %d as suspense: %w", itemID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (d *dao) UpdateBankStatementItemSuspenseNotes(itemID int64, notes string, now int64) error {
	err := d.db.Model(&model.BankStatementItem{}).
		Where("id = ? AND is_suspense = ?", itemID, true).
		UpdateColumns(map[string]interface{}{
			"suspense_notes": notes,
			"update_time":    now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update suspense notes of item %d: %w", itemID, err)
	}
	return nil
}

func (d *dao) ResolveBankStatementItemSuspense(itemID int64, resolution, operator string, now int64) (bool, error) {
	res := d.db.Model(&model.BankStatementItem{}).
		Where("id = ? AND is_suspense = ?", itemID, true).
		UpdateColumns(map[string]interface{}{
			"suspense_resolved":      true,
			"suspense_resolution":    resolution,
			"suspense_resolved_time": now,
			"suspense_resolved_by":   operator,
			"update_time":            now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to resolve suspense of item %d: %w", itemID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
