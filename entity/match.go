package entity

import (
	"strings"
	"time"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/utils"
)

type MatchRequest struct {
	StatementID int64  `json:"-"`
	ItemID      int64  `json:"-"`
	MovementID  int64  `json:"movement_id"`
	Operator    string `json:"operator"`
}

func (r MatchRequest) Validate() error {
	if r.StatementID <= 0 || r.ItemID <= 0 {
		return Invalid("statement id and item id are required")
	}
	if r.MovementID <= 0 {
		return Invalid("movement_id is required")
	}
	if strings.TrimSpace(r.Operator) == "" {
		return Invalid("operator must be specified")
	}
	return nil
}

type UnmatchRequest struct {
	StatementID int64  `json:"-"`
	ItemID      int64  `json:"-"`
	Operator    string `json:"operator"`
}

func (r UnmatchRequest) Validate() error {
	if r.StatementID <= 0 || r.ItemID <= 0 {
		return Invalid("statement id and item id are required")
	}
	if strings.TrimSpace(r.Operator) == "" {
		return Invalid("operator must be specified")
	}
	return nil
}

type SuspenseRequest struct {
	StatementID int64  `json:"-"`
	ItemID      int64  `json:"-"`
	Notes       string `json:"notes"`
	Operator    string `json:"operator"`
}

func (r SuspenseRequest) Validate() error {
	if r.StatementID <= 0 || r.ItemID <= 0 {
		return Invalid("statement id and item id are required")
	}
	if strings.TrimSpace(r.Operator) == "" {
		return Invalid("operator must be specified")
	}
	return nil
}

type ResolveSuspenseRequest struct {
	StatementID     int64  `json:"-"`
	ItemID          int64  `json:"-"`
	ResolutionNotes string `json:"resolution_notes"`
	Operator        string `json:"operator"`
}

func (r ResolveSuspenseRequest) Validate() error {
	if r.StatementID <= 0 || r.ItemID <= 0 {
		return Invalid("statement id and item id are required")
	}
	if strings.TrimSpace(r.ResolutionNotes) == "" {
		return Invalid("resolution_notes is required")
	}
	if strings.TrimSpace(r.Operator) == "" {
		return Invalid("operator must be specified")
	}
	return nil
}

type AutoMatchResult struct {
	StatementID    int64  `json:"statement_id"`
	MatchedCount   int    `json:"matched_count"`
	SkippedCount   int    `json:"skipped_count"`
	RemainingCount int64  `json:"remaining_count"`
	TotalMatched   int64  `json:"total_matched"`
	State          string `json:"state"`
}

type MatchCandidate struct {
	StatementID     int64    `json:"statement_id"`
	StatementItemID int64    `json:"statement_item_id"`
	LineNumber      int      `json:"line_number"`
	MovementID      int64    `json:"movement_id"`
	Score           float64  `json:"score"`
	ConfidenceTier  string   `json:"confidence_tier"`
	MatchType       string   `json:"match_type"`
	Reasons         []string `json:"reasons"`
}

type SuggestRequest struct {
	BankAccountID int64 `json:"bank_account_id"`
	StatementID   int64 `json:"statement_id,omitempty"`
	Limit         int   `json:"limit,omitempty"`
}

func (r SuggestRequest) Validate() error {
	if r.BankAccountID <= 0 {
		return Invalid("bank_account_id is required")
	}
	if r.Limit < 0 {
		return Invalid("limit must not be negative")
	}
	return nil
}

func (r SuggestRequest) EffectiveLimit() int {
	switch {
	case r.Limit == 0:
		return consts.DefaultSuggestionLimit
	case r.Limit > consts.MaxSuggestionLimit:
		return consts.MaxSuggestionLimit
	}
	return r.Limit
}

// MovementFilter narrows the unmatched movement pool. Zero values mean no bound.
type MovementFilter struct {
	From  *time.Time `json:"from,omitempty"`
	To    *time.Time `json:"to,omitempty"`
	Kinds []string   `json:"kinds,omitempty"`
}

func (f MovementFilter) Validate() error {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return Invalid("to must not be before from")
	}
	for _, kind := range f.Kinds {
		if !isMovementKind(kind) {
			return Invalid("unknown movement kind %q", kind)
		}
	}
	return nil
}

// ParseMovementFilter reads the query-string shape used by the HTTP layer.
func ParseMovementFilter(from, to, kinds string) (MovementFilter, error) {
	var f MovementFilter
	if from != "" {
		d, err := utils.ParseDate(from)
		if err != nil {
			return f, Invalid("from: %v", err)
		}
		f.From = &d
	}
	if to != "" {
		d, err := utils.ParseDate(to)
		if err != nil {
			return f, Invalid("to: %v", err)
		}
		f.To = &d
	}
	if kinds != "" {
		for _, k := range strings.Split(kinds, ",") {
			f.Kinds = append(f.Kinds, strings.ToUpper(strings.TrimSpace(k)))
		}
	}
	return f, f.Validate()
}

func isMovementKind(kind string) bool {
	for _, k := range consts.MovementKinds {
		if k == kind {
			return true
		}
	}
	return false
}
