package reconciliation

import (
	"context"
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/dao"
	"github.com/radhian/bank-reconciliation/infra/db/model"
)

func (u *reconciliationUsecase) Match(ctx context.Context, req entity.MatchRequest) (*model.BankStatementItem, error) {
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
			return entity.ErrAlreadyMatched.WithDetail(entity.ClaimConflict{
				MovementID:    derefID(current.LinkedMovementID),
				ClaimedItemID: &current.ID,
			})
		}

		movement, err := txDao.GetTreasuryMovementByID(req.MovementID)
		if err != nil {
			return notFoundOr(err, "treasury movement", req.MovementID)
		}
		if movement.BankAccountID != statement.BankAccountID {
			return entity.ErrMovementAccountMismatch.WithMessage("movement %d belongs to bank account %d, statement %d to %d",
				movement.ID, movement.BankAccountID, statement.ID, statement.BankAccountID)
		}
		if movement.ClaimedItemID != nil {
			return movementClaimed(movement)
		}

		now := u.now().Unix()
		ok, err := txDao.ClaimTreasuryMovement(movement.ID, current.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			if latest, err := txDao.GetTreasuryMovementByID(movement.ID); err == nil {
				movement = latest
			}
			return movementClaimed(movement)
		}

		ok, err = txDao.ClaimBankStatementItem(dao.ItemClaim{
			ItemID:        current.ID,
			MovementID:    movement.ID,
			MatchType:     consts.MatchTypeManual,
			Confidence:    1,
			Operator:      req.Operator,
			Now:           now,
			ClearSuspense: true,
		})
		if err != nil {
			return err
		}
		if !ok {
			return entity.ErrAlreadyMatched
		}

		note := fmt.Sprintf("line %d matched to movement %d", current.LineNumber, movement.ID)
		if err := u.refreshStatement(txDao, &statement, consts.ActionMatch, req.Operator, note); err != nil {
			return err
		}

		item, err = txDao.GetBankStatementItemByID(req.StatementID, req.ItemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[Match] statement %d line %d -> movement %d by %s", req.StatementID, item.LineNumber, req.MovementID, req.Operator)
	return &item, nil
}

// Unmatch releases both sides of a link. The item goes back to pending, not
// to suspense.
func (u *reconciliationUsecase) Unmatch(ctx context.Context, req entity.UnmatchRequest) (*model.BankStatementItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var item model.BankStatementItem
	err := u.dao.Transaction(ctx, func(txDao dao.DaoMethod) error {
		statement, current, err := u.lockOpenItem(txDao, req.StatementID, req.ItemID)
		if err != nil {
			return err
		}
		if !current.Matched || current.LinkedMovementID == nil {
			return entity.ErrNotMatched
		}
		movementID := *current.LinkedMovementID

		now := u.now().Unix()
		released, err := txDao.ReleaseTreasuryMovement(movementID, current.ID)
		if err != nil {
			return err
		}
		if !released {
			log.Warnf("[Unmatch] movement %d was not held by item %d", movementID, current.ID)
		}

		ok, err := txDao.ReleaseBankStatementItem(current.ID, movementID, now)
		if err != nil {
			return err
		}
		if !ok {
			return entity.ErrNotMatched
		}

		note := fmt.Sprintf("line %d unlinked from movement %d", current.LineNumber, movementID)
		if err := u.refreshStatement(txDao, &statement, consts.ActionUnmatch, req.Operator, note); err != nil {
			return err
		}

		item, err = txDao.GetBankStatementItemByID(req.StatementID, req.ItemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[Unmatch] statement %d line %d by %s", req.StatementID, item.LineNumber, req.Operator)
	return &item, nil
}

func movementClaimed(movement model.TreasuryMovement) error {
	return entity.ErrMovementAlreadyClaimed.WithDetail(entity.ClaimConflict{
		MovementID:    movement.ID,
		ClaimedItemID: movement.ClaimedItemID,
	})
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
