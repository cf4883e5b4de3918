package matcher

import (
	"sort"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/model"
)

// Candidates scores every item against every movement and keeps the pairs
// that survive disqualification, already in assignment order.
func Candidates(cfg Config, items []model.BankStatementItem, movements []model.TreasuryMovement) []entity.MatchCandidate {
	var candidates []entity.MatchCandidate
	for _, item := range items {
		if item.Matched || item.IsSuspense {
			continue
		}
		for _, movement := range movements {
			if movement.ClaimedItemID != nil {
				continue
			}
			if c, ok := Score(cfg, item, movement); ok {
				candidates = append(candidates, c)
			}
		}
	}
	SortCandidates(candidates)
	return candidates
}

// SortCandidates orders by score descending, then line number and movement id
// ascending. Statement and item ids break the remaining ties so the order is
// total across statements.
func SortCandidates(candidates []entity.MatchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.LineNumber != b.LineNumber {
			return a.LineNumber < b.LineNumber
		}
		if a.MovementID != b.MovementID {
			return a.MovementID < b.MovementID
		}
		if a.StatementID != b.StatementID {
			return a.StatementID < b.StatementID
		}
		return a.StatementItemID < b.StatementItemID
	})
}

// Assign walks sorted candidates and picks high-tier pairs greedily, never
// using an item or a movement twice.
func Assign(candidates []entity.MatchCandidate) []entity.MatchCandidate {
	usedItems := make(map[int64]bool)
	usedMovements := make(map[int64]bool)

	var assigned []entity.MatchCandidate
	for _, c := range candidates {
		if c.ConfidenceTier != consts.ConfidenceTierHigh {
			continue
		}
		if usedItems[c.StatementItemID] || usedMovements[c.MovementID] {
			continue
		}
		usedItems[c.StatementItemID] = true
		usedMovements[c.MovementID] = true
		assigned = append(assigned, c)
	}
	return assigned
}
