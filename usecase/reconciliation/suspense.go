package reconciliation

import (
	"context"

	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/dao"
	"github.com/radhian/bank-reconciliation/infra/db/model"
)

// MarkSuspense parks an unmatched line for investigation. Marking a line that
// is already in suspense only replaces its notes.
func (u *reconciliationUsecase) MarkSuspense(ctx context.Context, req entity.SuspenseRequest) (*model.BankStatementItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var item model.BankStatementItem
	err := u.dao.Transaction(ctx, func(txDao dao.DaoMethod) error {
		statement, current, err := u.lockOpenItem(txDao, req.StatementID, req.ItemID)
		if err != nil {
			return err
		}
		if current.Matched {
			return entity.ErrAlreadyMatched
		}

		now := u.now().Unix()
		if current.IsSuspense {
			if err := txDao.UpdateBankStatementItemSuspenseNotes(current.ID, req.Notes, now); err != nil {
				return err
			}
		} else {
			ok, err := txDao.MarkBankStatementItemSuspense(current.ID, req.Notes, now)
			if err != nil {
				return err
			}
			if !ok {
				return entity.ErrAlreadyMatched
			}
		}

		if err := u.refreshStatement(txDao, &statement, consts.ActionMarkSuspense, req.Operator, req.Notes); err != nil {
			return err
		}

		item, err = txDao.GetBankStatementItemByID(req.StatementID, req.ItemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[Suspense] statement %d line %d marked by %s", req.StatementID, item.LineNumber, req.Operator)
	return &item, nil
}

func (u *reconciliationUsecase) ResolveSuspense(ctx context.Context, req entity.ResolveSuspenseRequest) (*model.BankStatementItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var item model.BankStatementItem
	err := u.dao.Transaction(ctx, func(txDao dao.DaoMethod) error {
		statement, current, err := u.lockOpenItem(txDao, req.StatementID, req.ItemID)
		if err != nil {
			return err
		}
		if !current.IsSuspense {
			return entity.ErrNotSuspense
		}

		ok, err := txDao.ResolveBankStatementItemSuspense(current.ID, req.ResolutionNotes, req.Operator, u.now().Unix())
		if err != nil {
			return err
		}
		if !ok {
			return entity.ErrNotSuspense
		}

		if err := u.refreshStatement(txDao, &statement, consts.ActionResolveSuspense, req.Operator, req.ResolutionNotes); err != nil {
			return err
		}

		item, err = txDao.GetBankStatementItemByID(req.StatementID, req.ItemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[Suspense] statement %d line %d resolved by %s", req.StatementID, item.LineNumber, req.Operator)
	return &item, nil
}
