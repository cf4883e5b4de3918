package reconciliation

import (
	"fmt"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/dao"
	"github.com/radhian/bank-reconciliation/infra/db/model"

	"github.com/jinzhu/gorm"
)

// nextStates lists the legal single-step transitions, in the order they are
// preferred when a longer walk is needed.
var nextStates = map[string][]string{
	consts.StatementStatePending:         {consts.StatementStateInProgress},
	consts.StatementStateInProgress:      {consts.StatementStateCompleted, consts.StatementStateWithDifferences},
	consts.StatementStateCompleted:       {consts.StatementStateInProgress, consts.StatementStateClosed},
	consts.StatementStateWithDifferences: {consts.StatementStateCompleted, consts.StatementStateClosed},
}

// statePath returns the states visited going from one state to another,
// excluding the starting state.
func statePath(from, to string) ([]string, error) {
	if from == to {
		return nil, nil
	}

	prev := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == to {
			break
		}
		for _, next := range nextStates[current] {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = current
			queue = append(queue, next)
		}
	}

	if _, ok := prev[to]; !ok {
		return nil, fmt.Errorf("no transition from %s to %s", from, to)
	}

	var path []string
	for s := to; s != from; s = prev[s] {
		path = append([]string{s}, path...)
	}
	return path, nil
}

// deriveState picks the state implied by the item counters after a mutation.
func deriveState(current, action string, counters entity.ItemCounters) string {
	if current == consts.StatementStateClosed {
		return current
	}
	if current == consts.StatementStatePending && (action == consts.ActionImport || action == consts.ActionMerge) {
		return current
	}
	if counters.Total > 0 && counters.Complete() {
		return consts.StatementStateCompleted
	}
	if current == consts.StatementStateWithDifferences {
		return current
	}
	return consts.StatementStateInProgress
}

// transition walks the statement to target, writing one history row per step.
func (u *reconciliationUsecase) transition(txDao dao.DaoMethod, statement *model.BankStatement, target, action, operator, note string) error {
	path, err := statePath(statement.State, target)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return nil
	}

	now := u.now().Unix()
	from := statement.State
	for _, step := range path {
		if err := txDao.CreateBankStatementHistory(&model.BankStatementHistory{
			StatementID: statement.ID,
			Action:      action,
			FromState:   from,
			ToState:     step,
			Note:        note,
			CreateTime:  now,
			CreateBy:    operator,
		}); err != nil {
			return err
		}
		from = step
	}

	if err := txDao.UpdateBankStatementColumns(statement.ID, map[string]interface{}{
		"state":       target,
		"update_time": now,
		"update_by":   operator,
	}); err != nil {
		return err
	}
	statement.State = target
	statement.UpdateTime = now
	statement.UpdateBy = operator
	return nil
}

// refreshStatement recounts the items of a locked statement and persists the
// counters together with the state they imply.
func (u *reconciliationUsecase) refreshStatement(txDao dao.DaoMethod, statement *model.BankStatement, action, operator, note string) error {
	counters, err := txDao.CountBankStatementItems(statement.ID)
	if err != nil {
		return err
	}

	if err := u.transition(txDao, statement, deriveState(statement.State, action, counters), action, operator, note); err != nil {
		return err
	}

	now := u.now().Unix()
	if err := txDao.UpdateBankStatementColumns(statement.ID, map[string]interface{}{
		"total_items":    counters.Total,
		"matched_count":  counters.Matched,
		"pending_count":  counters.Pending(),
		"suspense_count": counters.Suspense,
		"update_time":    now,
		"update_by":      operator,
	}); err != nil {
		return err
	}
	statement.TotalItems = counters.Total
	statement.MatchedCount = counters.Matched
	statement.PendingCount = counters.Pending()
	statement.SuspenseCount = counters.Suspense
	statement.UpdateTime = now
	statement.UpdateBy = operator
	return nil
}

// lockOpenStatement takes the statement row lock and refuses closed statements.
func (u *reconciliationUsecase) lockOpenStatement(txDao dao.DaoMethod, statementID int64) (model.BankStatement, error) {
	statement, err := txDao.LockBankStatement(statementID)
	if err != nil {
		return statement, notFoundOr(err, "bank statement", statementID)
	}
	if statement.State == consts.StatementStateClosed {
		return statement, entity.ErrStatementClosed.WithDetail(entity.StatementStateDetail{
			StatementID: statement.ID,
			State:       statement.State,
		})
	}
	return statement, nil
}

func (u *reconciliationUsecase) lockOpenItem(txDao dao.DaoMethod, statementID, itemID int64) (model.BankStatement, model.BankStatementItem, error) {
	statement, err := u.lockOpenStatement(txDao, statementID)
	if err != nil {
		return statement, model.BankStatementItem{}, err
	}
	item, err := txDao.GetBankStatementItemByID(statementID, itemID)
	if err != nil {
		return statement, item, notFoundOr(err, "statement item", itemID)
	}
	return statement, item, nil
}

func notFoundOr(err error, resource string, id int64) error {
	if gorm.IsRecordNotFoundError(err) {
		return entity.NotFound(resource, id)
	}
	return fmt.Errorf("failed to load %s %d: %w", resource, id, err)
}
