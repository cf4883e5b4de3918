package dao

import (
	"fmt"

	"github.com/radhian/bank-reconciliation/infra/db/model"
)

func (d *dao) CreateBankStatementJustification(payload *model.BankStatementJustification) error {
	if err := d.db.Create(payload).Error; err != nil {
		return fmt.Errorf("failed to save justification: %w", err)
	}
	return nil
}

func (d *dao) GetBankStatementJustifications(statementID int64) ([]model.BankStatementJustification, error) {
	var justifications []model.BankStatementJustification
	if err := d.db.Where("statement_id = ?", statementID).Order("id ASC").Find(&justifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch justifications: %w", err)
	}
	return justifications, nil
}

func (d *dao) CreateBankStatementHistory(payload *model.BankStatementHistory) error {
	if err := d.db.Create(payload).Error; err != nil {
		return fmt.Errorf("failed to save statement history: %w", err)
	}
	return nil
}

func (d *dao) GetBankStatementHistory(statementID int64) ([]model.BankStatementHistory, error) {
	var history []model.BankStatementHistory
	if err := d.db.Where("statement_id = ?", statementID).Order("id ASC").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch statement history: %w", err)
	}
	return history, nil
}
