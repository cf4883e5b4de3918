package reconciliation

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/dao"
	"github.com/radhian/bank-reconciliation/infra/db/model"

	"github.com/shopspring/decimal"
)

// Close ends a statement. A refused close still commits the move to
// WITH_DIFFERENCES and returns the result alongside ErrUnresolvedDifferences.
func (u *reconciliationUsecase) Close(ctx context.Context, req entity.CloseRequest) (*entity.CloseResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var result *entity.CloseResult
	var refused error
	err := u.dao.Transaction(ctx, func(txDao dao.DaoMethod) error {
		refused = nil

		statement, err := u.lockOpenStatement(txDao, req.StatementID)
		if err != nil {
			return err
		}
		items, err := txDao.GetBankStatementItems(statement.ID)
		if err != nil {
			return err
		}

		if req.BankAssertedClosingBalance != nil {
			if err := u.checkClosingBalance(statement, items, *req.BankAssertedClosingBalance); err != nil {
				return err
			}
		}

		blocking, unexplained := collectBlocking(items)
		result = &entity.CloseResult{
			StatementID:       statement.ID,
			BlockingItems:     blocking,
			UnexplainedAmount: unexplained,
		}

		var closeNote string
		switch {
		case len(blocking) == 0:
			if err := u.refreshStatement(txDao, &statement, consts.ActionClose, req.Operator, ""); err != nil {
				return err
			}
			result.Message = "statement reconciled and closed"
		case !req.ForceClose:
			note := fmt.Sprintf("close refused: %d unresolved item(s), unexplained %s", len(blocking), unexplained.StringFixed(2))
			if err := u.transition(txDao, &statement, consts.StatementStateWithDifferences, consts.ActionClose, req.Operator, note); err != nil {
				return err
			}
			if err := txDao.UpdateBankStatementColumns(statement.ID, map[string]interface{}{
				"unexplained_amount": unexplained,
			}); err != nil {
				return err
			}
			result.State = statement.State
			result.Message = note
			refused = entity.ErrUnresolvedDifferences.WithMessage("%d item(s) are neither matched nor resolved", len(blocking))
			return nil
		default:
			if err := u.justify(txDao, &statement, req, unexplained, result); err != nil {
				return err
			}
			result.Message = fmt.Sprintf("statement force-closed with %d justified item(s)", len(blocking))
			closeNote = justificationConcepts(req.Justifications)
		}

		return u.markClosed(txDao, &statement, req, closeNote, result)
	})
	if err != nil {
		return nil, err
	}

	if refused != nil {
		log.Warnf("[Close] statement %d refused: %d blocking item(s), unexplained %s",
			req.StatementID, len(result.BlockingItems), result.UnexplainedAmount.StringFixed(2))
		return result, refused
	}
	log.Infof("[Close] statement %d closed by %s (forced=%t)", req.StatementID, req.Operator, req.ForceClose)
	return result, nil
}

// justify checks the justifications against the unexplained amount, stores
// them and books the optional adjustment.
func (u *reconciliationUsecase) justify(txDao dao.DaoMethod, statement *model.BankStatement, req entity.CloseRequest, unexplained decimal.Decimal, result *entity.CloseResult) error {
	tolerance := u.matcher.Tolerance(unexplained)
	total := req.JustifiedTotal()
	if len(req.Justifications) == 0 || total.Sub(unexplained).Abs().GreaterThan(tolerance) {
		return entity.ErrInvalidJustificationTotal.WithDetail(entity.JustificationMismatch{
			Expected:  unexplained.StringFixed(2),
			Got:       total.StringFixed(2),
			Tolerance: tolerance.StringFixed(2),
		})
	}

	now := u.now().Unix()
	for _, j := range req.Justifications {
		if err := txDao.CreateBankStatementJustification(&model.BankStatementJustification{
			StatementID: statement.ID,
			Amount:      j.Amount,
			Concept:     strings.TrimSpace(j.Concept),
			Explanation: strings.TrimSpace(j.Explanation),
			CreateTime:  now,
			CreateBy:    req.Operator,
		}); err != nil {
			return err
		}
	}

	if err := u.transition(txDao, statement, consts.StatementStateWithDifferences, consts.ActionClose, req.Operator, "force close"); err != nil {
		return err
	}

	if req.GenerateAdjustment && !unexplained.IsZero() {
		movementID, err := u.adjustments.CreateAdjustmentEntry(txDao, entity.AdjustmentEntryRequest{
			BankAccountID: statement.BankAccountID,
			Amount:        unexplained,
			Date:          statement.PeriodEnd,
			Description:   fmt.Sprintf("Bank reconciliation adjustment for statement %d", statement.ID),
			ReferenceType: consts.ReferenceTypeBankReconciliationAdjustment,
			ReferenceID:   adjustmentReference(statement.ID),
			Operator:      req.Operator,
		})
		if err != nil {
			return err
		}
		result.AdjustmentMovementID = &movementID
	}
	return nil
}

func (u *reconciliationUsecase) markClosed(txDao dao.DaoMethod, statement *model.BankStatement, req entity.CloseRequest, closeNote string, result *entity.CloseResult) error {
	if err := u.transition(txDao, statement, consts.StatementStateClosed, consts.ActionClose, req.Operator, result.Message); err != nil {
		return err
	}

	columns := map[string]interface{}{
		"unexplained_amount": result.UnexplainedAmount,
		"close_note":         closeNote,
		"closed_time":        u.now().Unix(),
		"closed_by":          req.Operator,
	}
	if result.AdjustmentMovementID != nil {
		columns["adjustment_movement_id"] = *result.AdjustmentMovementID
	}
	if err := txDao.UpdateBankStatementColumns(statement.ID, columns); err != nil {
		return err
	}

	result.Closed = true
	result.State = statement.State
	return nil
}

func justificationConcepts(justifications []entity.Justification) string {
	concepts := make([]string, 0, len(justifications))
	for _, j := range justifications {
		concepts = append(concepts, strings.TrimSpace(j.Concept))
	}
	return strings.Join(concepts, "; ")
}

// checkClosingBalance compares the balance implied by the lines with the one
// the bank asserts. Only the absolute cap is allowed as slack.
func (u *reconciliationUsecase) checkClosingBalance(statement model.BankStatement, items []model.BankStatementItem, asserted decimal.Decimal) error {
	computed := statement.OpeningBalance
	for _, item := range items {
		computed = computed.Add(item.Amount())
	}
	if computed.Sub(asserted).Abs().GreaterThan(u.matcher.AmountToleranceAbs) {
		return entity.ErrClosingBalanceMismatch.WithMessage("lines add up to %s, bank asserts %s",
			computed.StringFixed(2), asserted.StringFixed(2))
	}
	return nil
}

// collectBlocking lists lines that are neither matched nor resolved suspense.
// The unexplained amount is their debits minus their credits.
func collectBlocking(items []model.BankStatementItem) ([]entity.BlockingItem, decimal.Decimal) {
	unexplained := decimal.Zero
	var blocking []entity.BlockingItem
	for _, item := range items {
		if !item.Blocking() {
			continue
		}
		blocking = append(blocking, entity.BlockingItem{
			ItemID:      item.ID,
			LineNumber:  item.LineNumber,
			Date:        item.Date,
			Description: item.Description,
			Debit:       item.Debit,
			Credit:      item.Credit,
			IsSuspense:  item.IsSuspense,
		})
		unexplained = unexplained.Add(item.Debit).Sub(item.Credit)
	}
	return blocking, unexplained
}
