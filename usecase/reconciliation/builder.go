package reconciliation

import (
	"context"
	"time"

	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/config"
	"github.com/radhian/bank-reconciliation/infra/db/dao"
	"github.com/radhian/bank-reconciliation/infra/db/model"
	"github.com/radhian/bank-reconciliation/infra/locker"
	"github.com/radhian/bank-reconciliation/usecase/reconciliation/matcher"

	"github.com/jinzhu/gorm"
)

type ReconciliationUsecase interface {
	// statement store
	ImportStatement(ctx context.Context, req entity.ImportStatementRequest) (*model.BankStatement, error)
	GetStatement(ctx context.Context, statementID int64) (*model.BankStatement, error)
	GetSummary(ctx context.Context, statementID int64) (*entity.ReconciliationSummary, error)
	GetStatementHistory(ctx context.Context, statementID int64) ([]model.BankStatementHistory, error)
	ListStatements(ctx context.Context, filter entity.StatementFilter, page entity.Pagination) (*entity.StatementPage, error)

	// movement index
	UnmatchedMovements(ctx context.Context, bankAccountID int64, filter entity.MovementFilter) ([]model.TreasuryMovement, error)

	// matching
	AutoMatch(ctx context.Context, statementID int64, operator string) (*entity.AutoMatchResult, error)
	Suggest(ctx context.Context, req entity.SuggestRequest) ([]entity.MatchCandidate, error)
	Match(ctx context.Context, req entity.MatchRequest) (*model.BankStatementItem, error)
	Unmatch(ctx context.Context, req entity.UnmatchRequest) (*model.BankStatementItem, error)

	// suspense
	MarkSuspense(ctx context.Context, req entity.SuspenseRequest) (*model.BankStatementItem, error)
	ResolveSuspense(ctx context.Context, req entity.ResolveSuspenseRequest) (*model.BankStatementItem, error)

	// closing
	Close(ctx context.Context, req entity.CloseRequest) (*entity.CloseResult, error)

	// background auto-match
	TryAcquireStatement(ctx context.Context) (bool, int64, error)
	ProcessAutoMatchJob(ctx context.Context, statementID int64) (*entity.AutoMatchResult, error)
	UnlockStatement(ctx context.Context, statementID int64)
}

type reconciliationUsecase struct {
	dao                    dao.DaoMethod
	locker                 *locker.Locker
	matcher                matcher.Config
	adjustments            AdjustmentCreator
	chunkSize              int
	validateRunningBalance bool
	now                    func() time.Time
}

type Option func(*reconciliationUsecase)

func WithMatcherConfig(cfg matcher.Config) Option {
	return func(u *reconciliationUsecase) {
		u.matcher = cfg
	}
}

func WithAdjustmentCreator(creator AdjustmentCreator) Option {
	return func(u *reconciliationUsecase) {
		u.adjustments = creator
	}
}

// WithChunkSize sets how many auto-match pairs are committed per transaction.
func WithChunkSize(size int) Option {
	return func(u *reconciliationUsecase) {
		if size > 0 {
			u.chunkSize = size
		}
	}
}

// WithRunningBalanceCheck makes imports verify every printed running balance
// against the opening balance and the lines before it.
func WithRunningBalanceCheck(enabled bool) Option {
	return func(u *reconciliationUsecase) {
		u.validateRunningBalance = enabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(u *reconciliationUsecase) {
		u.now = now
	}
}

// ConfigOptions turns the environment-driven settings into usecase options.
func ConfigOptions(cfg config.ReconciliationConfig) []Option {
	return []Option{
		WithMatcherConfig(cfg.Matcher),
		WithChunkSize(cfg.ChunkSize),
		WithRunningBalanceCheck(cfg.ValidateRunningBalance),
	}
}

func NewReconciliationUsecase(db *gorm.DB, locker *locker.Locker, opts ...Option) ReconciliationUsecase {
	u := &reconciliationUsecase{
		dao:         dao.NewDaoMethod(db),
		locker:      locker,
		matcher:     matcher.DefaultConfig(),
		adjustments: NewLedgerAdjustmentCreator(),
		chunkSize:   consts.DefaultChunkSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}
