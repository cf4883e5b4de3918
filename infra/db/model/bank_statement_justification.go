package model

import "github.com/shopspring/decimal"

// BankStatementJustification is written once by a forced close and never updated.
type BankStatementJustification struct {
	ID          int64           `gorm:"primary_key" json:"id"`
	StatementID int64           `gorm:"not null;index" json:"statement_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Concept     string          `gorm:"size:100;not null" json:"concept"`
	Explanation string          `gorm:"type:text;not null" json:"explanation"`
	CreateTime  int64           `gorm:"not null" json:"create_time"`
	CreateBy    string          `gorm:"size:100;not null" json:"create_by"`
}
