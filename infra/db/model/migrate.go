package model

import (
	"fmt"

	"github.com/jinzhu/gorm"
)

// RegisterModels lists every table the engine owns, in creation order.
func RegisterModels() []interface{} {
	return []interface{}{
		&BankStatement{},
		&BankStatementItem{},
		&TreasuryMovement{},
		&BankStatementJustification{},
		&BankStatementHistory{},
	}
}

// activePeriodIndex keeps one non-closed statement per account and period.
// Partial indexes are understood by both Postgres and SQLite.
const activePeriodIndex = `CREATE UNIQUE INDEX IF NOT EXISTS uix_bank_statements_active_period
	ON bank_statements (bank_account_id, period_start, period_end)
	WHERE state <> 'CLOSED'`

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(RegisterModels()...).Error; err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	if err := db.Exec(activePeriodIndex).Error; err != nil {
		return fmt.Errorf("failed to create active period index: %w", err)
	}
	return nil
}
