package reconciliation

import (
	"context"

	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/model"
)

// UnmatchedMovements reads committed claims directly, so a movement claimed a
// moment ago is never offered again.
func (u *reconciliationUsecase) UnmatchedMovements(ctx context.Context, bankAccountID int64, filter entity.MovementFilter) ([]model.TreasuryMovement, error) {
	if bankAccountID <= 0 {
		return nil, entity.Invalid("bank_account_id is required")
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	movements, err := u.dao.GetUnclaimedTreasuryMovements(bankAccountID, filter)
	if err != nil {
		return nil, err
	}
	if movements == nil {
		movements = []model.TreasuryMovement{}
	}
	return movements, nil
}
