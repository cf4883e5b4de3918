package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/handler"
	"github.com/radhian/bank-reconciliation/infra/config"
	"github.com/radhian/bank-reconciliation/infra/db"
	"github.com/radhian/bank-reconciliation/infra/db/model"
	"github.com/radhian/bank-reconciliation/infra/locker"
	reconciliationUsecase "github.com/radhian/bank-reconciliation/usecase/reconciliation"
)

type App struct {
	Config config.Config
	DB     *gorm.DB
	Router *mux.Router
}

func (a *App) Initialize(cfg config.Config) {
	var err error
	a.Config = cfg

	a.DB, err = db.Open(cfg.DB)
	if err != nil {
		log.Fatal("This is the error:", err)
	}

	if err := model.Migrate(a.DB); err != nil {
		log.Fatal(err)
	}

	a.Router = mux.NewRouter().StrictSlash(true)
	a.initializeRoutes()
}

func (a *App) initializeRoutes() {
	reconciliationUc := reconciliationUsecase.NewReconciliationUsecase(a.DB, locker.New(),
		reconciliationUsecase.ConfigOptions(a.Config.Reconciliation)...)
	h := handler.NewReconciliationHandler(reconciliationUc)
	handler.RegisterReconciliationRoutes(a.Router, h)
}

func (a *App) RunServer() {
	log.Infof("%s server starting on port %v", a.Config.App.AppName, a.Config.App.AppPort)
	log.Fatal(http.ListenAndServe(":"+a.Config.App.AppPort, a.Router))
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
