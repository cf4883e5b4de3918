package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/handler"
	"github.com/radhian/bank-reconciliation/infra/config"
	"github.com/radhian/bank-reconciliation/infra/db"
	"github.com/radhian/bank-reconciliation/infra/locker"
	reconciliationUsecase "github.com/radhian/bank-reconciliation/usecase/reconciliation"
)

type CronWorkerConfig struct {
	Interval time.Duration
	Workers  int
}

func (cfg CronWorkerConfig) startReconcileExecutorWorker(h *handler.ReconciliationHandler, workerID int) {
	for {
		cfg.runOnce(h, workerID)
		time.Sleep(cfg.Interval)
	}
}

func (cfg CronWorkerConfig) runOnce(h *handler.ReconciliationHandler, workerID int) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("[Worker %d] panic: %v", workerID, rec)
		}
	}()

	ctx := context.Background()
	err := h.ReconciliationExecution(ctx)
	switch {
	case errors.Is(err, handler.ErrNoStatementHandled):
		log.Debugf("[Worker %d] idle", workerID)
	case err != nil:
		log.Errorf("[Worker %d] error: %s", workerID, err.Error())
	default:
		log.Infof("[Worker %d] success", workerID)
	}
}

type App struct {
	Config config.Config
	DB     *gorm.DB
	Locker *locker.Locker
}

func (a *App) startCronWorker(cfg CronWorkerConfig) {
	var wg sync.WaitGroup

	reconciliationUc := reconciliationUsecase.NewReconciliationUsecase(a.DB, a.Locker,
		reconciliationUsecase.ConfigOptions(a.Config.Reconciliation)...)
	h := handler.NewReconciliationHandler(reconciliationUc)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			log.Infof("spawn [Worker %d]", workerID)
			cfg.startReconcileExecutorWorker(h, workerID)
		}(i + 1)
	}
	wg.Wait()
}

func (a *App) Initialize(cfg config.Config) {
	var err error
	a.Config = cfg

	a.DB, err = db.Open(cfg.DB)
	if err != nil {
		log.Fatal("This is the error:", err)
	}

	a.Locker = locker.New()
}

func (a *App) RunServer() {
	a.startCronWorker(CronWorkerConfig{
		Workers:  a.Config.Worker.Workers,
		Interval: a.Config.Worker.Interval,
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.App.ApplyLogLevel()

	app := App{}
	app.Initialize(cfg)
	app.RunServer()
}
