package reconciliation

import (
	"fmt"
	"time"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/dao"
	"github.com/radhian/bank-reconciliation/infra/db/model"

	"github.com/google/uuid"
)

// AdjustmentCreator books the entry that explains a forced close. It runs
// inside the closing transaction and must only write through txDao.
type AdjustmentCreator interface {
	CreateAdjustmentEntry(txDao dao.DaoMethod, req entity.AdjustmentEntryRequest) (int64, error)
}

type ledgerAdjustmentCreator struct{}

// NewLedgerAdjustmentCreator writes adjustments as treasury movements of kind
// ADJUSTMENT. The unexplained amount is money the bank moved out that the
// books never saw, so the movement carries it with a negative sign.
func NewLedgerAdjustmentCreator() AdjustmentCreator {
	return ledgerAdjustmentCreator{}
}

func (ledgerAdjustmentCreator) CreateAdjustmentEntry(txDao dao.DaoMethod, req entity.AdjustmentEntryRequest) (int64, error) {
	movement := &model.TreasuryMovement{
		BankAccountID: req.BankAccountID,
		Date:          req.Date,
		Amount:        req.Amount.Neg(),
		Kind:          consts.MovementKindAdjustment,
		Description:   req.Description,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		CreateTime:    time.Now().Unix(),
		CreateBy:      req.Operator,
	}
	if err := txDao.CreateTreasuryMovement(movement); err != nil {
		return 0, fmt.Errorf("failed to book adjustment: %w", err)
	}
	return movement.ID, nil
}

// adjustmentReference is unique per close so repeated closes of reopened
// periods never collide on the ledger side.
func adjustmentReference(statementID int64) string {
	return fmt.Sprintf("BSR-%d-%s", statementID, uuid.New().String()[:8])
}
