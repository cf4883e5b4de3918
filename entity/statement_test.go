package entity

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validImport() ImportStatementRequest {
	return ImportStatementRequest{
		BankAccountID:  1,
		Period:         Period{Year: 2024, Month: 3},
		OpeningBalance: dec("1000"),
		ClosingBalance: dec("1100"),
		Operator:       "alice",
		Items: []ImportItem{
			{LineNumber: 1, Date: "2024-03-04", Description: "deposit", Credit: decimal.RequireFromString("100"), RunningBalance: dec("1100")},
		},
	}
}

func TestPeriodResolve(t *testing.T) {
	start, end, err := Period{Year: 2024, Month: 2}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", start.Format("2006-01-02"))
	assert.Equal(t, "2024-02-29", end.Format("2006-01-02"))

	start, end, err = Period{From: "2024-03-10", To: "2024-03-20"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 10, end.Day()-start.Day())

	_, _, err = Period{From: "2024-03-20", To: "2024-03-10"}.Resolve()
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	_, _, err = Period{Year: 2024, Month: 3, From: "2024-03-01", To: "2024-03-31"}.Resolve()
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestImportStatementRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *ImportStatementRequest)
		want   error
	}{
		{name: "valid", mutate: func(r *ImportStatementRequest) {}},
		{name: "empty items", mutate: func(r *ImportStatementRequest) { r.Items = nil }, want: ErrEmptyImport},
		{name: "missing operator", mutate: func(r *ImportStatementRequest) { r.Operator = " " }, want: ErrInvalidRequest},
		{name: "missing opening balance", mutate: func(r *ImportStatementRequest) { r.OpeningBalance = nil }, want: ErrInvalidRequest},
		{
			name: "duplicate line",
			mutate: func(r *ImportStatementRequest) {
				r.Items = append(r.Items, r.Items[0])
			},
			want: ErrDuplicateLine,
		},
		{
			name: "debit and credit on one line",
			mutate: func(r *ImportStatementRequest) {
				r.Items[0].Debit = decimal.RequireFromString("5")
			},
			want: ErrInvalidRequest,
		},
		{
			name: "bad date",
			mutate: func(r *ImportStatementRequest) {
				r.Items[0].Date = "04/03/2024"
			},
			want: ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validImport()
			tt.mutate(&req)
			err := req.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset())

	p = Pagination{Page: 3, PerPage: 500}.Normalize()
	assert.Equal(t, 100, p.PerPage)
	assert.Equal(t, 200, p.Offset())
}

func TestCloseRequestValidate(t *testing.T) {
	req := CloseRequest{StatementID: 1, Operator: "bob", Justifications: []Justification{{Amount: decimal.RequireFromString("1"), Concept: "fee"}}}
	assert.True(t, errors.Is(req.Validate(), ErrInvalidRequest))

	req.Justifications[0].Explanation = "monthly maintenance fee"
	assert.NoError(t, req.Validate())
	assert.True(t, req.JustifiedTotal().Equal(decimal.RequireFromString("1")))
}

func TestParseMovementFilter(t *testing.T) {
	f, err := ParseMovementFilter("2024-03-01", "2024-03-31", "payment, check")
	require.NoError(t, err)
	assert.Equal(t, []string{"PAYMENT", "CHECK"}, f.Kinds)

	_, err = ParseMovementFilter("", "", "bogus")
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	_, err = ParseMovementFilter("2024-03-31", "2024-03-01", "")
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}
