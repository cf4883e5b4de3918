package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Justification struct {
	Amount      decimal.Decimal `json:"amount"`
	Concept     string          `json:"concept"`
	Explanation string          `json:"explanation"`
}

type CloseRequest struct {
	StatementID                int64            `json:"-"`
	ForceClose                 bool             `json:"force_close"`
	Justifications             []Justification  `json:"justification"`
	GenerateAdjustment         bool             `json:"generate_adjustment"`
	BankAssertedClosingBalance *decimal.Decimal `json:"bank_asserted_closing_balance,omitempty"`
	Operator                   string           `json:"operator"`
}

func (r CloseRequest) Validate() error {
	if r.StatementID <= 0 {
		return Invalid("statement id is required")
	}
	if strings.TrimSpace(r.Operator) == "" {
		return Invalid("operator must be specified")
	}
	for i, j := range r.Justifications {
		if strings.TrimSpace(j.Concept) == "" || strings.TrimSpace(j.Explanation) == "" {
			return Invalid("justification %d requires concept and explanation", i+1)
		}
	}
	return nil
}

func (r CloseRequest) JustifiedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, j := range r.Justifications {
		total = total.Add(j.Amount)
	}
	return total
}

// BlockingItem is a line that is neither matched nor resolved suspense.
type BlockingItem struct {
	ItemID      int64           `json:"item_id"`
	LineNumber  int             `json:"line_number"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	IsSuspense  bool            `json:"is_suspense"`
}

type CloseResult struct {
	StatementID          int64           `json:"statement_id"`
	Closed               bool            `json:"closed"`
	State                string          `json:"state"`
	BlockingItems        []BlockingItem  `json:"blocking_items,omitempty"`
	UnexplainedAmount    decimal.Decimal `json:"unexplained_amount"`
	AdjustmentMovementID *int64          `json:"adjustment_movement_id,omitempty"`
	Message              string          `json:"message"`
}

// AdjustmentEntryRequest is what the closing workflow hands to the ledger.
// Amount is the unexplained amount: positive when the bank shows more money
// leaving the account than the books do.
type AdjustmentEntryRequest struct {
	BankAccountID int64
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
	ReferenceType string
	ReferenceID   string
	Operator      string
}
