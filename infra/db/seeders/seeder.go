package seeders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/jinzhu/gorm"
	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/dao"
	"github.com/radhian/bank-reconciliation/infra/db/model"
	"github.com/radhian/bank-reconciliation/infra/locker"
	"github.com/radhian/bank-reconciliation/usecase/reconciliation"
	"github.com/radhian/bank-reconciliation/utils"
	"github.com/shopspring/decimal"
)

const (
	seedOperator         = "seeder"
	movementsPerAccount  = 12
	bankOnlyLinesPerSeed = 2
)

var SeedAccounts = []int64{1001, 1002}

var seedKinds = []string{
	consts.MovementKindPayment,
	consts.MovementKindCharge,
	consts.MovementKindTransfer,
	consts.MovementKindCheck,
}

type seedLine struct {
	date        time.Time
	amount      decimal.Decimal
	reference   string
	description string
}

// DBSeed creates last month's statement and the matching treasury movements
// for each seed account. Accounts whose statement already exists are skipped.
func DBSeed(db *gorm.DB) error {
	return Seed(db, time.Now(), rand.New(rand.NewSource(time.Now().UnixNano())))
}

func Seed(db *gorm.DB, now time.Time, rnd *rand.Rand) error {
	uc := reconciliation.NewReconciliationUsecase(db, locker.New())
	d := dao.NewDaoMethod(db)

	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	start, end := utils.MonthRange(prev.Year(), prev.Month())

	for _, account := range SeedAccounts {
		movements, lines := generate(account, start, end, now, rnd)

		req := importRequest(account, prev, lines, rnd)
		statement, err := uc.ImportStatement(context.Background(), req)
		if errors.Is(err, entity.ErrDuplicatePeriod) {
			log.Infof("[Seed] account %d already has a statement for %s, skipped", account, prev.Format("2006-01"))
			continue
		}
		if err != nil {
			return fmt.Errorf("seed statement for account %d: %w", account, err)
		}

		for i := range movements {
			if err := d.CreateTreasuryMovement(&movements[i]); err != nil {
				return fmt.Errorf("seed movement for account %d: %w", account, err)
			}
		}
		log.Infof("[Seed] account %d: statement %d with %d lines, %d movements",
			account, statement.ID, len(req.Items), len(movements))
	}
	return nil
}

// generate mirrors every movement on the bank side. Every fourth line settles
// one business day late without its reference, and a few bank-only fees are
// appended.
func generate(account int64, start, end, now time.Time, rnd *rand.Rand) ([]model.TreasuryMovement, []seedLine) {
	days := int(end.Sub(start).Hours()/24) + 1

	movements := make([]model.TreasuryMovement, 0, movementsPerAccount)
	lines := make([]seedLine, 0, movementsPerAccount+bankOnlyLinesPerSeed)
	for i := 0; i < movementsPerAccount; i++ {
		date := start.AddDate(0, 0, rnd.Intn(days))
		amount := decimal.New(int64(1000+rnd.Intn(500000)), -2)
		if rnd.Intn(2) == 0 {
			amount = amount.Neg()
		}
		reference := fmt.Sprintf("INV-%s", faker.UUIDDigit()[:8])

		movements = append(movements, model.TreasuryMovement{
			BankAccountID: account,
			Date:          date,
			Amount:        amount,
			Kind:          seedKinds[rnd.Intn(len(seedKinds))],
			Description:   faker.Sentence(),
			ReferenceID:   reference,
			CreateTime:    now.Unix(),
			CreateBy:      seedOperator,
		})

		line := seedLine{date: date, amount: amount, reference: reference, description: faker.Sentence()}
		if i%4 == 3 {
			line.reference = ""
			if next := utils.AddBusinessDays(date, 1); !next.After(end) {
				line.date = next
			}
		}
		lines = append(lines, line)
	}

	for i := 0; i < bankOnlyLinesPerSeed; i++ {
		lines = append(lines, seedLine{
			date:        start.AddDate(0, 0, rnd.Intn(days)),
			amount:      decimal.New(int64(100+rnd.Intn(400)), -2).Neg(),
			description: "BANK FEE " + faker.Word(),
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].date.Before(lines[j].date)
	})
	return movements, lines
}

func importRequest(account int64, month time.Time, lines []seedLine, rnd *rand.Rand) entity.ImportStatementRequest {
	opening := decimal.New(int64(1000000+rnd.Intn(9000000)), -2)
	balance := opening

	items := make([]entity.ImportItem, 0, len(lines))
	for i, l := range lines {
		item := entity.ImportItem{
			LineNumber:  i + 1,
			Date:        l.date.Format(utils.DateLayout),
			Description: l.description,
			Reference:   l.reference,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if l.amount.IsNegative() {
			item.Debit = l.amount.Abs()
		} else {
			item.Credit = l.amount
		}
		balance = balance.Add(l.amount)
		running := balance
		item.RunningBalance = &running
		items = append(items, item)
	}

	closing := balance
	return entity.ImportStatementRequest{
		BankAccountID:  account,
		Period:         entity.Period{Year: month.Year(), Month: int(month.Month())},
		OpeningBalance: &opening,
		ClosingBalance: &closing,
		Items:          items,
		Operator:       seedOperator,
	}
}
