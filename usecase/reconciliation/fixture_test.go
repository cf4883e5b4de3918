package reconciliation

import (
	"context"
	"testing"
	"time"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/dao"
	"github.com/radhian/bank-reconciliation/infra/db/model"
	"github.com/radhian/bank-reconciliation/infra/locker"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testAccount int64 = 1001

var fixedNow = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db     *gorm.DB
	dao    dao.DaoMethod
	locker *locker.Locker
	uc     ReconciliationUsecase
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	db.LogMode(false)
	require.NoError(t, model.Migrate(db))
	t.Cleanup(func() { db.Close() })

	l := locker.New()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return &fixture{
		db:     db,
		dao:    dao.NewDaoMethod(db),
		locker: l,
		uc:     NewReconciliationUsecase(db, l, opts...),
	}
}

type line struct {
	date      string
	amount    string
	reference string
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// importRequest builds a March 2024 statement whose running balances add up.
func importRequest(account int64, lines ...line) entity.ImportStatementRequest {
	opening := dec("1000")
	balance := opening
	items := make([]entity.ImportItem, 0, len(lines))
	for i, l := range lines {
		amount := dec(l.amount)
		item := entity.ImportItem{
			LineNumber:  i + 1,
			Date:        l.date,
			Description: "line " + l.amount,
			Reference:   l.reference,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if amount.IsNegative() {
			item.Debit = amount.Abs()
		} else {
			item.Credit = amount
		}
		balance = balance.Add(amount)
		rb := balance
		item.RunningBalance = &rb
		items = append(items, item)
	}
	closing := balance
	return entity.ImportStatementRequest{
		BankAccountID:  account,
		Period:         entity.Period{Year: 2024, Month: 3},
		OpeningBalance: &opening,
		ClosingBalance: &closing,
		Items:          items,
		Operator:       "alice",
	}
}

func (f *fixture) importStatement(t *testing.T, lines ...line) *model.BankStatement {
	t.Helper()
	statement, err := f.uc.ImportStatement(context.Background(), importRequest(testAccount, lines...))
	require.NoError(t, err)
	return statement
}

func (f *fixture) addMovement(t *testing.T, account int64, amount, date, reference string) model.TreasuryMovement {
	t.Helper()
	return f.addMovementKind(t, account, amount, date, reference, consts.MovementKindPayment)
}

func (f *fixture) addMovementKind(t *testing.T, account int64, amount, date, reference, kind string) model.TreasuryMovement {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	movement := model.TreasuryMovement{
		BankAccountID: account,
		Date:          d,
		Amount:        dec(amount),
		Kind:          kind,
		Description:   "movement " + amount,
		ReferenceID:   reference,
		CreateTime:    fixedNow.Unix(),
		CreateBy:      "treasury",
	}
	require.NoError(t, f.dao.CreateTreasuryMovement(&movement))
	return movement
}

func (f *fixture) statement(t *testing.T, id int64) model.BankStatement {
	t.Helper()
	statement, err := f.dao.GetBankStatementByID(id)
	require.NoError(t, err)
	return statement
}

func (f *fixture) items(t *testing.T, statementID int64) []model.BankStatementItem {
	t.Helper()
	items, err := f.dao.GetBankStatementItems(statementID)
	require.NoError(t, err)
	return items
}
