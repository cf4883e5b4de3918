package reconciliation

import (
	"context"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/usecase/reconciliation/matcher"
)

// Suggest ranks candidate pairs of every tier without claiming anything.
func (u *reconciliationUsecase) Suggest(ctx context.Context, req entity.SuggestRequest) ([]entity.MatchCandidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	statementIDs, err := u.suggestionScope(req)
	if err != nil {
		return nil, err
	}
	if len(statementIDs) == 0 {
		return []entity.MatchCandidate{}, nil
	}

	items, err := u.dao.GetUnmatchedBankStatementItems(statementIDs)
	if err != nil {
		return nil, err
	}
	movements, err := u.dao.GetUnclaimedTreasuryMovements(req.BankAccountID, entity.MovementFilter{})
	if err != nil {
		return nil, err
	}

	candidates := matcher.Candidates(u.matcher, items, movements)
	if limit := req.EffectiveLimit(); len(candidates) > limit {
		candidates = candidates[:limit]
	}
	if candidates == nil {
		candidates = []entity.MatchCandidate{}
	}
	return candidates, nil
}

func (u *reconciliationUsecase) suggestionScope(req entity.SuggestRequest) ([]int64, error) {
	if req.StatementID != 0 {
		statement, err := u.dao.GetBankStatementByID(req.StatementID)
		if err != nil {
			return nil, notFoundOr(err, "bank statement", req.StatementID)
		}
		if statement.BankAccountID != req.BankAccountID {
			return nil, entity.Invalid("statement %d does not belong to bank account %d", req.StatementID, req.BankAccountID)
		}
		if statement.State == consts.StatementStateClosed {
			return nil, nil
		}
		return []int64{statement.ID}, nil
	}

	statements, err := u.dao.GetOpenBankStatementsByAccount(req.BankAccountID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(statements))
	for _, statement := range statements {
		ids = append(ids, statement.ID)
	}
	return ids, nil
}
