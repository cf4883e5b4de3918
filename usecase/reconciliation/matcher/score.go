package matcher

import (
	"fmt"
	"math"
	"strings"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/model"
	"github.com/radhian/bank-reconciliation/utils"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

const (
	minSubstringLength   = 3
	minNearMatchLength   = 5
	nearMatchDistanceMax = 0.2
)

type referenceResult int

const (
	referenceNone referenceResult = iota
	referenceNear
	referenceFull
)

// Score evaluates one item/movement pair. ok is false when the pair is
// disqualified by amount or date.
func Score(cfg Config, item model.BankStatementItem, movement model.TreasuryMovement) (entity.MatchCandidate, bool) {
	var reasons []string

	amountTerm, ok := amountScore(cfg, item, movement, &reasons)
	if !ok {
		return entity.MatchCandidate{}, false
	}
	dateTerm, ok := dateScore(cfg, item, movement, &reasons)
	if !ok {
		return entity.MatchCandidate{}, false
	}

	score := (cfg.AmountWeight*amountTerm + cfg.DateWeight*dateTerm) / (cfg.AmountWeight + cfg.DateWeight)

	ref := matchReference(item.Reference, movement)
	switch ref {
	case referenceFull:
		score += cfg.ReferenceBonus
		reasons = append(reasons, "reference matched")
	case referenceNear:
		score += cfg.ReferenceBonus / 2
		reasons = append(reasons, "reference near match")
	}

	score = round4(utils.Clamp01(score))

	matchType := consts.MatchTypeFuzzy
	// A side without a reference id cannot contradict the other.
	refOK := ref == referenceFull || normalize(item.Reference) == "" || normalize(movement.ReferenceID) == ""
	switch {
	case amountTerm == 1 && dateTerm == 1 && refOK:
		matchType = consts.MatchTypeExact
	case ref == referenceFull:
		matchType = consts.MatchTypeReference
	}

	return entity.MatchCandidate{
		StatementID:     item.StatementID,
		StatementItemID: item.ID,
		LineNumber:      item.LineNumber,
		MovementID:      movement.ID,
		Score:           score,
		ConfidenceTier:  cfg.TierOf(score),
		MatchType:       matchType,
		Reasons:         reasons,
	}, true
}

func amountScore(cfg Config, item model.BankStatementItem, movement model.TreasuryMovement, reasons *[]string) (float64, bool) {
	amount := item.Amount()
	diff := amount.Sub(movement.Amount).Abs()
	if diff.IsZero() {
		*reasons = append(*reasons, "amount exact")
		return 1, true
	}

	tolerance := cfg.Tolerance(amount)
	if tolerance.IsZero() || diff.GreaterThan(tolerance) {
		return 0, false
	}
	*reasons = append(*reasons, fmt.Sprintf("amount within tolerance (diff %s)", diff.StringFixed(2)))
	return 1 - diff.Div(tolerance).InexactFloat64(), true
}

func dateScore(cfg Config, item model.BankStatementItem, movement model.TreasuryMovement, reasons *[]string) (float64, bool) {
	days := utils.BusinessDaysBetween(item.Date, movement.Date)
	if item.ValueDate != nil {
		if vd := utils.BusinessDaysBetween(*item.ValueDate, movement.Date); vd < days {
			days = vd
		}
	}

	if days == 0 {
		*reasons = append(*reasons, "same date")
		return 1, true
	}
	if days > cfg.DateWindowDays {
		return 0, false
	}
	*reasons = append(*reasons, fmt.Sprintf("date %d business day(s) apart", days))
	return 1 - float64(days)/float64(cfg.DateWindowDays), true
}

func matchReference(reference string, movement model.TreasuryMovement) referenceResult {
	ref := normalize(reference)
	if ref == "" {
		return referenceNone
	}

	refID := normalize(movement.ReferenceID)
	description := normalize(movement.Description)
	tokens := tokenize(description)

	if refID != "" {
		if ref == refID || (len(ref) >= minSubstringLength && strings.Contains(refID, ref)) {
			return referenceFull
		}
	}
	for _, token := range tokens {
		if token == ref {
			return referenceFull
		}
	}
	if len(ref) >= minSubstringLength && strings.Contains(description, ref) {
		return referenceFull
	}

	if len([]rune(ref)) < minNearMatchLength {
		return referenceNone
	}
	limit := int(math.Floor(float64(len([]rune(ref))) * nearMatchDistanceMax))
	if limit < 1 {
		limit = 1
	}
	candidates := tokens
	if refID != "" {
		candidates = append([]string{refID}, tokens...)
	}
	for _, c := range candidates {
		if levenshtein.DistanceForStrings([]rune(ref), []rune(c), levenshtein.DefaultOptionsWithSub) <= limit {
			return referenceNear
		}
	}
	return referenceNone
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '/')
	})
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
