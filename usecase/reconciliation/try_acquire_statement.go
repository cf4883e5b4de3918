package reconciliation

import (
	"context"

	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
)

// TryAcquireStatement picks the oldest pending statement no other worker in
// this process is handling and marks it as processing.
func (u *reconciliationUsecase) TryAcquireStatement(ctx context.Context) (bool, int64, error) {
	statementList, err := u.dao.GetBankStatementsByStateList([]string{consts.StatementStatePending})
	if err != nil {
		return false, 0, err
	}

	for _, statement := range statementList {
		if u.locker.IsProcessing(statement.ID) {
			continue
		}
		if !u.locker.TryLock(statement.ID) {
			continue
		}
		log.Infof("[LOCK_PROCESS] statement_id:%d", statement.ID)
		return true, statement.ID, nil
	}

	return false, 0, nil
}

// ProcessAutoMatchJob runs auto-match for a statement already acquired through
// TryAcquireStatement.
func (u *reconciliationUsecase) ProcessAutoMatchJob(ctx context.Context, statementID int64) (*entity.AutoMatchResult, error) {
	return u.autoMatch(ctx, statementID, consts.SystemOperator)
}

func (u *reconciliationUsecase) UnlockStatement(ctx context.Context, statementID int64) {
	u.locker.Unlock(statementID)
	log.Infof("[UNLOCK_PROCESS] statement_id:%d", statementID)
}
