package entity

import (
	"strings"
	"time"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/infra/db/model"
	"github.com/radhian/bank-reconciliation/utils"
	"github.com/shopspring/decimal"
)

// Period is either a calendar month (Year+Month) or an explicit From/To range.
type Period struct {
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

func (p Period) Resolve() (time.Time, time.Time, error) {
	if p.From != "" || p.To != "" {
		if p.Year != 0 || p.Month != 0 {
			return time.Time{}, time.Time{}, Invalid("period takes either year/month or from/to, not both")
		}
		start, err := utils.ParseDate(p.From)
		if err != nil {
			return time.Time{}, time.Time{}, Invalid("period.from: %v", err)
		}
		end, err := utils.ParseDate(p.To)
		if err != nil {
			return time.Time{}, time.Time{}, Invalid("period.to: %v", err)
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, Invalid("period.to must not be before period.from")
		}
		return start, end, nil
	}

	if p.Year < 1900 || p.Month < 1 || p.Month > 12 {
		return time.Time{}, time.Time{}, Invalid("period requires a valid year and month or a from/to range")
	}
	start, end := utils.MonthRange(p.Year, time.Month(p.Month))
	return start, end, nil
}

type ImportItem struct {
	LineNumber     int              `json:"line_number"`
	Date           string           `json:"date"`
	ValueDate      string           `json:"value_date,omitempty"`
	Description    string           `json:"description"`
	Reference      string           `json:"reference,omitempty"`
	Debit          decimal.Decimal  `json:"debit"`
	Credit         decimal.Decimal  `json:"credit"`
	RunningBalance *decimal.Decimal `json:"running_balance"`
}

type ImportStatementRequest struct {
	BankAccountID  int64            `json:"bank_account_id"`
	Period         Period           `json:"period"`
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance"`
	Items          []ImportItem     `json:"items"`
	Merge          bool             `json:"merge,omitempty"`
	Operator       string           `json:"operator"`
}

func (r ImportStatementRequest) Validate() error {
	if r.BankAccountID <= 0 {
		return Invalid("bank_account_id is required")
	}
	if r.OpeningBalance == nil || r.ClosingBalance == nil {
		return Invalid("opening_balance and closing_balance are required")
	}
	if strings.TrimSpace(r.Operator) == "" {
		return Invalid("operator must be specified")
	}
	if _, _, err := r.Period.Resolve(); err != nil {
		return err
	}
	if len(r.Items) == 0 {
		return ErrEmptyImport
	}

	seen := make(map[int]bool, len(r.Items))
	for _, item := range r.Items {
		if item.LineNumber <= 0 {
			return Invalid("line_number must be positive")
		}
		if seen[item.LineNumber] {
			return ErrDuplicateLine.WithMessage("line number %d appears more than once", item.LineNumber)
		}
		seen[item.LineNumber] = true

		if _, err := utils.ParseDate(item.Date); err != nil {
			return Invalid("line %d date: %v", item.LineNumber, err)
		}
		if item.ValueDate != "" {
			if _, err := utils.ParseDate(item.ValueDate); err != nil {
				return Invalid("line %d value_date: %v", item.LineNumber, err)
			}
		}
		if item.Debit.IsNegative() || item.Credit.IsNegative() {
			return Invalid("line %d: debit and credit must not be negative", item.LineNumber)
		}
		if item.Debit.IsPositive() && item.Credit.IsPositive() {
			return Invalid("line %d: a line is either a debit or a credit", item.LineNumber)
		}
		if item.RunningBalance == nil {
			return Invalid("line %d: running_balance is required", item.LineNumber)
		}
	}
	return nil
}

type StatementFilter struct {
	BankAccountID int64  `json:"bank_account_id,omitempty"`
	State         string `json:"state,omitempty"`
}

func (f StatementFilter) Validate() error {
	switch f.State {
	case "", consts.StatementStatePending, consts.StatementStateInProgress, consts.StatementStateCompleted,
		consts.StatementStateWithDifferences, consts.StatementStateClosed:
		return nil
	}
	return Invalid("unknown statement state %q", f.State)
}

type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Normalize fills defaults and caps the page size.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = consts.DefaultPerPage
	}
	if p.PerPage > consts.MaxPerPage {
		p.PerPage = consts.MaxPerPage
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

type StatementPage struct {
	Statements []model.BankStatement `json:"statements"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	TotalPages int                   `json:"total_pages"`
}

// ItemCounters are derived from item rows inside the mutating transaction.
type ItemCounters struct {
	Total            int64
	Matched          int64
	Suspense         int64
	SuspenseResolved int64
}

func (c ItemCounters) Pending() int64 {
	return c.Total - c.Matched - c.Suspense
}

// Complete is true when nothing blocks a clean close.
func (c ItemCounters) Complete() bool {
	return c.Pending() == 0 && c.Suspense == c.SuspenseResolved
}

type ReconciliationSummary struct {
	StatementID      int64            `json:"statement_id"`
	State            string           `json:"state"`
	TotalItems       int64            `json:"total_items"`
	Matched          int64            `json:"matched"`
	Pending          int64            `json:"pending"`
	Suspense         int64            `json:"suspense"`
	SuspenseResolved int64            `json:"suspense_resolved"`
	MatchBreakdown   map[string]int64 `json:"match_breakdown"`
}
