package handler

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"
)

var ErrNoStatementHandled = errors.New("no statement handled")

// ReconciliationExecution runs one background auto-match pass over the oldest
// pending statement nobody else in this process is working on.
func (h *ReconciliationHandler) ReconciliationExecution(ctx context.Context) error {
	acquired, statementID, err := h.Usecase.TryAcquireStatement(ctx)
	if err != nil {
		return err
	}

	if !acquired {
		return ErrNoStatementHandled
	}

	defer h.Usecase.UnlockStatement(ctx, statementID)

	result, err := h.Usecase.ProcessAutoMatchJob(ctx, statementID)
	if err != nil {
		return err
	}

	log.Infof("[ReconcileJob] statement %d: matched=%d remaining=%d state=%s",
		statementID, result.MatchedCount, result.RemainingCount, result.State)
	return nil
}
