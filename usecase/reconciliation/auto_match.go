package reconciliation

import (
	"context"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/dao"
	"github.com/radhian/bank-reconciliation/usecase/reconciliation/matcher"
	"github.com/radhian/bank-reconciliation/utils"
)

func (u *reconciliationUsecase) AutoMatch(ctx context.Context, statementID int64, operator string) (*entity.AutoMatchResult, error) {
	if statementID <= 0 {
		return nil, entity.Invalid("statement id is required")
	}
	if strings.TrimSpace(operator) == "" {
		operator = consts.SystemOperator
	}

	if !u.locker.TryLock(statementID) {
		return nil, entity.ErrAutoMatchInProgress.WithDetail(entity.StatementStateDetail{StatementID: statementID})
	}
	defer u.locker.Unlock(statementID)

	return u.autoMatch(ctx, statementID, operator)
}

// autoMatch scores the statement's open items against the account's unclaimed
// movements and commits the high-confidence pairs chunk by chunk. Every claim
// is conditional, so a pair lost to a concurrent writer is skipped.
func (u *reconciliationUsecase) autoMatch(ctx context.Context, statementID int64, operator string) (*entity.AutoMatchResult, error) {
	statement, err := u.dao.GetBankStatementByID(statementID)
	if err != nil {
		return nil, notFoundOr(err, "bank statement", statementID)
	}
	if statement.State == consts.StatementStateClosed {
		return nil, entity.ErrStatementClosed.WithDetail(entity.StatementStateDetail{
			StatementID: statement.ID,
			State:       statement.State,
		})
	}

	items, err := u.dao.GetUnmatchedBankStatementItems([]int64{statementID})
	if err != nil {
		return nil, err
	}
	movements, err := u.dao.GetUnclaimedTreasuryMovements(statement.BankAccountID, entity.MovementFilter{})
	if err != nil {
		return nil, err
	}

	pairs := matcher.Assign(matcher.Candidates(u.matcher, items, movements))
	log.Infof("[AutoMatch] statement %d: %d open items, %d movements, %d high-confidence pairs",
		statementID, len(items), len(movements), len(pairs))

	result := &entity.AutoMatchResult{StatementID: statementID, State: statement.State}
	chunks := chunkCandidates(pairs, u.chunkSize)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			log.Warnf("[AutoMatch] statement %d: stopped before chunk %d/%d: %v", statementID, i+1, len(chunks), err)
			return result, err
		}

		matched, skipped, err := u.commitChunk(ctx, statementID, chunk, operator, result)
		if err != nil {
			log.Errorf("[AutoMatch] statement %d: chunk %d/%d failed: %v", statementID, i+1, len(chunks), err)
			return result, err
		}
		result.MatchedCount += matched
		result.SkippedCount += skipped
	}

	log.Infof("[AutoMatch] statement %d done: matched=%d skipped=%d remaining=%d state=%s",
		statementID, result.MatchedCount, result.SkippedCount, result.RemainingCount, result.State)
	return result, nil
}

func (u *reconciliationUsecase) commitChunk(ctx context.Context, statementID int64, chunk []entity.MatchCandidate, operator string, result *entity.AutoMatchResult) (matched, skipped int, err error) {
	err = u.dao.Transaction(ctx, func(txDao dao.DaoMethod) error {
		matched, skipped = 0, 0

		statement, err := u.lockOpenStatement(txDao, statementID)
		if err != nil {
			return err
		}

		now := u.now().Unix()
		for _, pair := range chunk {
			ok, err := claimPair(txDao, pair, operator, now)
			if err != nil {
				return err
			}
			if !ok {
				skipped++
				continue
			}
			matched++
		}

		if err := u.refreshStatement(txDao, &statement, consts.ActionAutoMatch, operator, ""); err != nil {
			return err
		}
		result.RemainingCount = statement.PendingCount
		result.TotalMatched = statement.MatchedCount
		result.State = statement.State
		return nil
	})
	return matched, skipped, err
}

// claimPair links one candidate pair. The movement is claimed first so the
// item's unique link can never collide with another holder.
func claimPair(txDao dao.DaoMethod, pair entity.MatchCandidate, operator string, now int64) (bool, error) {
	item, err := txDao.GetBankStatementItemByID(pair.StatementID, pair.StatementItemID)
	if err != nil {
		return false, err
	}
	if item.Matched || item.IsSuspense {
		return false, nil
	}

	ok, err := txDao.ClaimTreasuryMovement(pair.MovementID, item.ID, now)
	if err != nil || !ok {
		return false, err
	}

	ok, err = txDao.ClaimBankStatementItem(dao.ItemClaim{
		ItemID:     item.ID,
		MovementID: pair.MovementID,
		MatchType:  pair.MatchType,
		Confidence: pair.Score,
		Operator:   operator,
		Now:        now,
	})
	if err != nil {
		return false, err
	}
	if !ok {
		if _, err := txDao.ReleaseTreasuryMovement(pair.MovementID, item.ID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// chunkCandidates always returns at least one chunk so a run with nothing to
// match still refreshes the statement.
func chunkCandidates(pairs []entity.MatchCandidate, size int) [][]entity.MatchCandidate {
	if len(pairs) == 0 {
		return [][]entity.MatchCandidate{nil}
	}
	var chunks [][]entity.MatchCandidate
	for start := 0; start < len(pairs); start += size {
		end := utils.Min(start+size, len(pairs))
		chunks = append(chunks, pairs[start:end])
	}
	return chunks
}
