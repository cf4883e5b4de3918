package db

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" //postgres
	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/infra/config"
)

// Open connects to the configured database. Only Postgres is supported in
// production; the partial unique index and row locks depend on it.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	if cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	DBURI := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s password=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBName, cfg.DBSSLMode, cfg.DBPassword)

	db, err := gorm.Open("postgres", DBURI)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database %s: %w", cfg.DBName, err)
	}
	log.Infof("[DB] connected to %s at %s:%s", cfg.DBName, cfg.DBHost, cfg.DBPort)
	return db, nil
}
