package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TreasuryMovement is a ledger entry owned by the treasury side. The engine
// only writes ClaimedItemID/ClaimTime, and creates adjustment entries on close.
type TreasuryMovement struct {
	ID            int64           `gorm:"primary_key" json:"id"`
	BankAccountID int64           `gorm:"not null;index" json:"bank_account_id"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Kind          string          `gorm:"size:20;not null" json:"kind"`
	Description   string          `gorm:"size:255" json:"description"`
	ReferenceType string          `gorm:"size:50" json:"reference_type,omitempty"`
	ReferenceID   string          `gorm:"size:100" json:"reference_id,omitempty"`
	ClaimedItemID *int64          `gorm:"index" json:"claimed_item_id,omitempty"`
	ClaimTime     int64           `json:"claim_time,omitempty"`
	CreateTime    int64           `gorm:"not null" json:"create_time"`
	CreateBy      string          `gorm:"size:100;not null" json:"create_by"`
}
