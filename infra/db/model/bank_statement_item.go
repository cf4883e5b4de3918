package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BankStatementItem struct {
	ID                   int64           `gorm:"primary_key" json:"id"`
	StatementID          int64           `gorm:"not null;unique_index:uix_statement_line" json:"statement_id"`
	LineNumber           int             `gorm:"not null;unique_index:uix_statement_line" json:"line_number"`
	Date                 time.Time       `gorm:"not null" json:"date"`
	ValueDate            *time.Time      `json:"value_date,omitempty"`
	Description          string          `gorm:"size:255" json:"description"`
	Reference            string          `gorm:"size:100" json:"reference,omitempty"`
	Debit                decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"debit"`
	Credit               decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"credit"`
	RunningBalance       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"running_balance"`
	Matched              bool            `gorm:"not null;index" json:"matched"`
	MatchType            string          `gorm:"size:20" json:"match_type,omitempty"`
	MatchConfidence      *float64        `json:"match_confidence,omitempty"`
	LinkedMovementID     *int64          `gorm:"unique_index" json:"linked_movement_id,omitempty"`
	MatchedTime          int64           `json:"matched_time,omitempty"`
	MatchedBy            string          `gorm:"size:100" json:"matched_by,omitempty"`
	IsSuspense           bool            `gorm:"not null" json:"is_suspense"`
	SuspenseResolved     bool            `gorm:"not null" json:"suspense_resolved"`
	SuspenseNotes        string          `gorm:"type:text" json:"suspense_notes,omitempty"`
	SuspenseResolution   string          `gorm:"type:text" json:"suspense_resolution,omitempty"`
	SuspenseResolvedTime int64           `json:"suspense_resolved_time,omitempty"`
	SuspenseResolvedBy   string          `gorm:"size:100" json:"suspense_resolved_by,omitempty"`
	CreateTime           int64           `gorm:"not null" json:"create_time"`
	UpdateTime           int64           `gorm:"not null" json:"update_time"`
}

// Amount is the signed effect on the account: credits positive, debits negative.
func (i BankStatementItem) Amount() decimal.Decimal {
	return i.Credit.Sub(i.Debit)
}

// Blocking reports whether the line still stands in the way of a clean close.
func (i BankStatementItem) Blocking() bool {
	if i.Matched {
		return false
	}
	return !(i.IsSuspense && i.SuspenseResolved)
}
