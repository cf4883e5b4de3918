package dao

import (
	"fmt"
	"time"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/model"

	"github.com/jinzhu/gorm"
)

func (d *dao) CreateBankStatement(payload *model.BankStatement) error {
	if err := d.db.Create(payload).Error; err != nil {
		return fmt.Errorf("failed to save bank statement: %w", err)
	}
	return nil
}

func (d *dao) GetBankStatementByID(statementID int64) (model.BankStatement, error) {
	var statement model.BankStatement
	if err := d.db.First(&statement, statementID).Error; err != nil {
		return statement, err
	}
	return statement, nil
}

func (d *dao) GetBankStatementWithItems(statementID int64) (model.BankStatement, error) {
	var statement model.BankStatement
	err := d.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Preload("Justifications", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&statement, statementID).Error
	if err != nil {
		return statement, err
	}
	return statement, nil
}

// LockBankStatement reads the statement row and, where the dialect allows,
// holds a row lock until the surrounding transaction ends.
func (d *dao) LockBankStatement(statementID int64) (model.BankStatement, error) {
	var statement model.BankStatement
	q := d.db
	if d.supportsRowLocks() {
		q = q.Set("gorm:query_option", "FOR UPDATE")
	}
	if err := q.First(&statement, statementID).Error; err != nil {
		return statement, err
	}
	return statement, nil
}

func (d *dao) GetActiveBankStatementByPeriod(bankAccountID int64, periodStart, periodEnd time.Time) (model.BankStatement, error) {
	var statement model.BankStatement
	err := d.db.
		Where("bank_account_id = ? AND period_start = ? AND period_end = ? AND state <> ?",
			bankAccountID, periodStart, periodEnd, consts.StatementStateClosed).
		First(&statement).Error
	return statement, err
}

func (d *dao) GetBankStatementsByStateList(stateList []string) ([]model.BankStatement, error) {
	var statementList []model.BankStatement
	if err := d.db.
		Select("id").
		Where("state IN (?)", stateList).
		Order("create_time ASC, id ASC").
		Find(&statementList).Error; err != nil {
		return nil, err
	}
	return statementList, nil
}

func (d *dao) GetOpenBankStatementsByAccount(bankAccountID int64) ([]model.BankStatement, error) {
	var statementList []model.BankStatement
	if err := d.db.
		Where("bank_account_id = ? AND state <> ?", bankAccountID, consts.StatementStateClosed).
		Order("period_start ASC, id ASC").
		Find(&statementList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch open statements: %w", err)
	}
	return statementList, nil
}

func (d *dao) ListBankStatements(filter entity.StatementFilter, offset, limit int) ([]model.BankStatement, int64, error) {
	q := d.db.Model(&model.BankStatement{})
	if filter.BankAccountID != 0 {
		q = q.Where("bank_account_id = ?", filter.BankAccountID)
	}
	if filter.State != "" {
		q = q.Where("state = ?", filter.State)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count statements: %w", err)
	}

	var statementList []model.BankStatement
	if err := q.Order("period_start DESC, id DESC").Offset(offset).Limit(limit).Find(&statementList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list statements: %w", err)
	}
	return statementList, total, nil
}

func (d *dao) UpdateBankStatementColumns(statementID int64, columns map[string]interface{}) error {
	if err := d.db.Model(&model.BankStatement{}).Where("id = ?", statementID).UpdateColumns(columns).Error; err != nil {
		return fmt.Errorf("failed to update statement %d: %w", statementID, err)
	}
	return nil
}
