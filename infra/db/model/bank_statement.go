package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BankStatement struct {
	ID                   int64                        `gorm:"primary_key" json:"id"`
	BankAccountID        int64                        `gorm:"not null;index" json:"bank_account_id"`
	PeriodStart          time.Time                    `gorm:"not null" json:"period_start"`
	PeriodEnd            time.Time                    `gorm:"not null" json:"period_end"`
	OpeningBalance       decimal.Decimal              `gorm:"type:decimal(20,2);not null" json:"opening_balance"`
	ClosingBalance       decimal.Decimal              `gorm:"type:decimal(20,2);not null" json:"closing_balance"`
	TotalDebits          decimal.Decimal              `gorm:"type:decimal(20,2);not null" json:"total_debits"`
	TotalCredits         decimal.Decimal              `gorm:"type:decimal(20,2);not null" json:"total_credits"`
	TotalItems           int64                        `gorm:"not null" json:"total_items"`
	MatchedCount         int64                        `gorm:"not null" json:"matched_count"`
	PendingCount         int64                        `gorm:"not null" json:"pending_count"`
	SuspenseCount        int64                        `gorm:"not null" json:"suspense_count"`
	State                string                       `gorm:"size:20;not null;index" json:"state"`
	UnexplainedAmount    decimal.Decimal              `gorm:"type:decimal(20,2)" json:"unexplained_amount"`
	AdjustmentMovementID *int64                       `json:"adjustment_movement_id,omitempty"`
	CloseNote            string                       `gorm:"type:text" json:"close_note,omitempty"`
	ClosedTime           int64                        `json:"closed_time,omitempty"`
	ClosedBy             string                       `gorm:"size:100" json:"closed_by,omitempty"`
	CreateTime           int64                        `gorm:"not null" json:"create_time"`
	CreateBy             string                       `gorm:"size:100;not null" json:"create_by"`
	UpdateTime           int64                        `gorm:"not null" json:"update_time"`
	UpdateBy             string                       `gorm:"size:100;not null" json:"update_by"`
	Items                []BankStatementItem          `gorm:"foreignkey:StatementID;association_autoupdate:false;association_autocreate:false" json:"items,omitempty"`
	Justifications       []BankStatementJustification `gorm:"foreignkey:StatementID;association_autoupdate:false;association_autocreate:false" json:"justifications,omitempty"`
}
