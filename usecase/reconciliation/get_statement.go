package reconciliation

import (
	"context"

	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/model"
)

func (u *reconciliationUsecase) GetStatement(ctx context.Context, statementID int64) (*model.BankStatement, error) {
	statement, err := u.dao.GetBankStatementWithItems(statementID)
	if err != nil {
		return nil, notFoundOr(err, "bank statement", statementID)
	}
	return &statement, nil
}

func (u *reconciliationUsecase) GetSummary(ctx context.Context, statementID int64) (*entity.ReconciliationSummary, error) {
	statement, err := u.dao.GetBankStatementByID(statementID)
	if err != nil {
		return nil, notFoundOr(err, "bank statement", statementID)
	}

	counters, err := u.dao.CountBankStatementItems(statementID)
	if err != nil {
		return nil, err
	}
	breakdown, err := u.dao.GetMatchTypeBreakdown(statementID)
	if err != nil {
		return nil, err
	}

	return &entity.ReconciliationSummary{
		StatementID:      statement.ID,
		State:            statement.State,
		TotalItems:       counters.Total,
		Matched:          counters.Matched,
		Pending:          counters.Pending(),
		Suspense:         counters.Suspense,
		SuspenseResolved: counters.SuspenseResolved,
		MatchBreakdown:   breakdown,
	}, nil
}

func (u *reconciliationUsecase) GetStatementHistory(ctx context.Context, statementID int64) ([]model.BankStatementHistory, error) {
	if _, err := u.dao.GetBankStatementByID(statementID); err != nil {
		return nil, notFoundOr(err, "bank statement", statementID)
	}
	return u.dao.GetBankStatementHistory(statementID)
}
