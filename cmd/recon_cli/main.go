package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jinzhu/gorm"
	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/config"
	"github.com/radhian/bank-reconciliation/infra/db"
	"github.com/radhian/bank-reconciliation/infra/db/model"
	"github.com/radhian/bank-reconciliation/infra/db/seeders"
	"github.com/radhian/bank-reconciliation/infra/locker"
	reconciliationUsecase "github.com/radhian/bank-reconciliation/usecase/reconciliation"
	"github.com/urfave/cli"
)

type App struct {
	Config  config.Config
	DB      *gorm.DB
	Usecase reconciliationUsecase.ReconciliationUsecase
}

func (a *App) Initialize(cfg config.Config) {
	var err error
	a.Config = cfg

	a.DB, err = db.Open(cfg.DB)
	if err != nil {
		log.Fatal("This is the error:", err)
	}

	a.Usecase = reconciliationUsecase.NewReconciliationUsecase(a.DB, locker.New(),
		reconciliationUsecase.ConfigOptions(cfg.Reconciliation)...)
}

var statementFlag = cli.Int64Flag{Name: "id", Usage: "bank statement id"}

func (a *App) InitCommands() *cli.App {
	cmdApp := cli.NewApp()
	cmdApp.Name = "recon_cli"
	cmdApp.Usage = "bank statement reconciliation maintenance"
	cmdApp.Commands = []cli.Command{
		{
			Name: "db:migrate",
			Action: func(c *cli.Context) error {
				if err := model.Migrate(a.DB); err != nil {
					return err
				}
				log.Info("Database migrated successfully.")
				return nil
			},
		},
		{
			Name: "db:seed",
			Action: func(c *cli.Context) error {
				return seeders.DBSeed(a.DB)
			},
		},
		{
			Name:  "statement:import",
			Usage: "import a statement from a JSON file",
			Flags: []cli.Flag{cli.StringFlag{Name: "file", Usage: "path to the import request"}},
			Action: func(c *cli.Context) error {
				raw, err := os.ReadFile(c.String("file"))
				if err != nil {
					return err
				}
				var req entity.ImportStatementRequest
				if err := json.Unmarshal(raw, &req); err != nil {
					return fmt.Errorf("invalid import file: %w", err)
				}
				statement, err := a.Usecase.ImportStatement(context.Background(), req)
				if err != nil {
					return err
				}
				statement.Items = nil
				return printJSON(statement)
			},
		},
		{
			Name:  "statement:auto_match",
			Flags: []cli.Flag{statementFlag},
			Action: func(c *cli.Context) error {
				result, err := a.Usecase.AutoMatch(context.Background(), c.Int64("id"), consts.SystemOperator)
				if err != nil {
					return err
				}
				return printJSON(result)
			},
		},
		{
			Name:  "statement:summary",
			Flags: []cli.Flag{statementFlag},
			Action: func(c *cli.Context) error {
				summary, err := a.Usecase.GetSummary(context.Background(), c.Int64("id"))
				if err != nil {
					return err
				}
				return printJSON(summary)
			},
		},
	}
	return cmdApp
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.App.ApplyLogLevel()

	app := App{}
	app.Initialize(cfg)

	if err := app.InitCommands().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
