package dao

import (
	"context"
	"database/sql"
	"time"

	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/model"

	"github.com/jinzhu/gorm"
)

type DaoMethod interface {
	// bank statements
	CreateBankStatement(payload *model.BankStatement) error
	GetBankStatementByID(statementID int64) (model.BankStatement, error)
	GetBankStatementWithItems(statementID int64) (model.BankStatement, error)
	LockBankStatement(statementID int64) (model.BankStatement, error)
	GetActiveBankStatementByPeriod(bankAccountID int64, periodStart, periodEnd time.Time) (model.BankStatement, error)
	GetBankStatementsByStateList(stateList []string) ([]model.BankStatement, error)
	GetOpenBankStatementsByAccount(bankAccountID int64) ([]model.BankStatement, error)
	ListBankStatements(filter entity.StatementFilter, offset, limit int) ([]model.BankStatement, int64, error)
	UpdateBankStatementColumns(statementID int64, columns map[string]interface{}) error

	// statement items
	CreateBankStatementItem(payload *model.BankStatementItem) error
	GetBankStatementItems(statementID int64) ([]model.BankStatementItem, error)
	GetUnmatchedBankStatementItems(statementIDs []int64) ([]model.BankStatementItem, error)
	GetBankStatementItemByID(statementID, itemID int64) (model.BankStatementItem, error)
	CountBankStatementItems(statementID int64) (entity.ItemCounters, error)
	GetMatchTypeBreakdown(statementID int64) (map[string]int64, error)
	ClaimBankStatementItem(claim ItemClaim) (bool, error)
	ReleaseBankStatementItem(itemID, movementID int64, now int64) (bool, error)
	MarkBankStatementItemSuspense(itemID int64, notes string, now int64) (bool, error)
	UpdateBankStatementItemSuspenseNotes(itemID int64, notes string, now int64) error
	ResolveBankStatementItemSuspense(itemID int64, resolution, operator string, now int64) (bool, error)

	// treasury movements
	CreateTreasuryMovement(payload *model.TreasuryMovement) error
	GetTreasuryMovementByID(movementID int64) (model.TreasuryMovement, error)
	GetUnclaimedTreasuryMovements(bankAccountID int64, filter entity.MovementFilter) ([]model.TreasuryMovement, error)
	ClaimTreasuryMovement(movementID, itemID int64, now int64) (bool, error)
	ReleaseTreasuryMovement(movementID, itemID int64) (bool, error)

	// justifications and history
	CreateBankStatementJustification(payload *model.BankStatementJustification) error
	GetBankStatementJustifications(statementID int64) ([]model.BankStatementJustification, error)
	CreateBankStatementHistory(payload *model.BankStatementHistory) error
	GetBankStatementHistory(statementID int64) ([]model.BankStatementHistory, error)

	// Transaction runs fn against a DaoMethod bound to one database transaction.
	// A non-nil error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(txDao DaoMethod) error) error
}

// ItemClaim is the compare-and-set payload for linking an item to a movement.
type ItemClaim struct {
	ItemID        int64
	MovementID    int64
	MatchType     string
	Confidence    float64
	Operator      string
	Now           int64
	ClearSuspense bool
}

type dao struct {
	db *gorm.DB
}

func NewDaoMethod(db *gorm.DB) DaoMethod {
	return &dao{db: db}
}

func (d *dao) Transaction(ctx context.Context, fn func(txDao DaoMethod) error) (err error) {
	tx := d.db.BeginTx(ctx, &sql.TxOptions{})
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&dao{db: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// supportsRowLocks is false for SQLite, which serialises writers on its own.
func (d *dao) supportsRowLocks() bool {
	return d.db.Dialect().GetName() != "sqlite3"
}
