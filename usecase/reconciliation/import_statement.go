package reconciliation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/dao"
	"github.com/radhian/bank-reconciliation/infra/db/model"
	"github.com/radhian/bank-reconciliation/utils"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

func (u *reconciliationUsecase) ImportStatement(ctx context.Context, req entity.ImportStatementRequest) (*model.BankStatement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	periodStart, periodEnd, _ := req.Period.Resolve()

	if u.validateRunningBalance {
		if err := checkRunningBalance(*req.OpeningBalance, req.Items); err != nil {
			return nil, err
		}
	}

	var statementID int64
	err := u.dao.Transaction(ctx, func(txDao dao.DaoMethod) error {
		existing, err := txDao.GetActiveBankStatementByPeriod(req.BankAccountID, periodStart, periodEnd)
		switch {
		case err == nil:
			if !req.Merge {
				return duplicatePeriod(existing)
			}
			statementID = existing.ID
			return u.mergeStatement(txDao, existing.ID, req)
		case !gorm.IsRecordNotFoundError(err):
			return fmt.Errorf("failed to look up active statement: %w", err)
		}

		statement, err := u.createStatement(txDao, req, periodStart, periodEnd)
		if err != nil {
			return err
		}
		statementID = statement.ID
		return nil
	})
	if err != nil {
		if entity.KindOf(err) == entity.KindInternal {
			// A concurrent import may have won the active-period index.
			if existing, lookupErr := u.dao.GetActiveBankStatementByPeriod(req.BankAccountID, periodStart, periodEnd); lookupErr == nil && !req.Merge {
				return nil, duplicatePeriod(existing)
			}
			log.Errorf("[Import] account %d: %v", req.BankAccountID, err)
		}
		return nil, err
	}

	statement, err := u.dao.GetBankStatementWithItems(statementID)
	if err != nil {
		return nil, notFoundOr(err, "bank statement", statementID)
	}
	log.Infof("[Import] statement %d for account %d: %d items, state %s",
		statement.ID, statement.BankAccountID, statement.TotalItems, statement.State)
	return &statement, nil
}

func (u *reconciliationUsecase) createStatement(txDao dao.DaoMethod, req entity.ImportStatementRequest, periodStart, periodEnd time.Time) (*model.BankStatement, error) {
	now := u.now().Unix()
	debits, credits := sumLines(req.Items)

	statement := &model.BankStatement{
		BankAccountID:     req.BankAccountID,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
		OpeningBalance:    *req.OpeningBalance,
		ClosingBalance:    *req.ClosingBalance,
		TotalDebits:       debits,
		TotalCredits:      credits,
		State:             consts.StatementStatePending,
		UnexplainedAmount: decimal.Zero,
		CreateTime:        now,
		CreateBy:          req.Operator,
		UpdateTime:        now,
		UpdateBy:          req.Operator,
	}
	if err := txDao.CreateBankStatement(statement); err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		if err := txDao.CreateBankStatementItem(buildItem(statement.ID, line, now)); err != nil {
			return nil, err
		}
	}

	if err := txDao.CreateBankStatementHistory(&model.BankStatementHistory{
		StatementID: statement.ID,
		Action:      consts.ActionImport,
		ToState:     consts.StatementStatePending,
		Note:        fmt.Sprintf("imported %d lines", len(req.Items)),
		CreateTime:  now,
		CreateBy:    req.Operator,
	}); err != nil {
		return nil, err
	}

	if err := u.refreshStatement(txDao, statement, consts.ActionImport, req.Operator, ""); err != nil {
		return nil, err
	}
	return statement, nil
}

// mergeStatement adds the lines whose numbers are not on the statement yet.
// Re-importing the same file is therefore a no-op.
func (u *reconciliationUsecase) mergeStatement(txDao dao.DaoMethod, statementID int64, req entity.ImportStatementRequest) error {
	statement, err := u.lockOpenStatement(txDao, statementID)
	if err != nil {
		return err
	}

	existing, err := txDao.GetBankStatementItems(statementID)
	if err != nil {
		return err
	}
	known := make(map[int]bool, len(existing))
	for _, item := range existing {
		known[item.LineNumber] = true
	}

	var added []entity.ImportItem
	for _, line := range req.Items {
		if !known[line.LineNumber] {
			added = append(added, line)
		}
	}
	if len(added) == 0 {
		log.Infof("[Import] statement %d: merge found no new lines", statementID)
		return nil
	}

	now := u.now().Unix()
	for _, line := range added {
		if err := txDao.CreateBankStatementItem(buildItem(statementID, line, now)); err != nil {
			return err
		}
	}

	debits, credits := sumLines(added)
	if err := txDao.UpdateBankStatementColumns(statementID, map[string]interface{}{
		"total_debits":    statement.TotalDebits.Add(debits),
		"total_credits":   statement.TotalCredits.Add(credits),
		"closing_balance": *req.ClosingBalance,
	}); err != nil {
		return err
	}

	note := fmt.Sprintf("merged %d new lines", len(added))
	if err := txDao.CreateBankStatementHistory(&model.BankStatementHistory{
		StatementID: statementID,
		Action:      consts.ActionMerge,
		FromState:   statement.State,
		ToState:     statement.State,
		Note:        note,
		CreateTime:  now,
		CreateBy:    req.Operator,
	}); err != nil {
		return err
	}
	return u.refreshStatement(txDao, &statement, consts.ActionMerge, req.Operator, note)
}

func buildItem(statementID int64, line entity.ImportItem, now int64) *model.BankStatementItem {
	date, _ := utils.ParseDate(line.Date)
	item := &model.BankStatementItem{
		StatementID:    statementID,
		LineNumber:     line.LineNumber,
		Date:           date,
		Description:    strings.TrimSpace(line.Description),
		Reference:      strings.TrimSpace(line.Reference),
		Debit:          line.Debit,
		Credit:         line.Credit,
		RunningBalance: *line.RunningBalance,
		CreateTime:     now,
		UpdateTime:     now,
	}
	if line.ValueDate != "" {
		valueDate, _ := utils.ParseDate(line.ValueDate)
		item.ValueDate = &valueDate
	}
	return item
}

func sumLines(lines []entity.ImportItem) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	return debits, credits
}

// checkRunningBalance verifies that every printed balance equals the previous
// one plus the line's credit minus its debit, in line order.
func checkRunningBalance(opening decimal.Decimal, lines []entity.ImportItem) error {
	ordered := make([]entity.ImportItem, len(lines))
	copy(ordered, lines)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].LineNumber < ordered[j].LineNumber
	})

	balance := opening
	for _, line := range ordered {
		balance = balance.Add(line.Credit).Sub(line.Debit)
		if !balance.Equal(*line.RunningBalance) {
			return entity.ErrRunningBalanceMismatch.WithMessage("line %d: expected running balance %s, statement shows %s",
				line.LineNumber, balance.StringFixed(2), line.RunningBalance.StringFixed(2))
		}
	}
	return nil
}

func duplicatePeriod(existing model.BankStatement) error {
	return entity.ErrDuplicatePeriod.WithDetail(entity.StatementStateDetail{
		StatementID: existing.ID,
		State:       existing.State,
	})
}
