package storeio

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/geofr/commatlas/pkg/config"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
)

func sqlConn(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", opts(cfg))
	if err != nil {
		slog.Error("Cannot connect to database", "error", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		slog.Error("Cannot ping database", "error", err)
		return nil, err
	}
	return db, nil
}

func gormConn(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open("mysql", opts(cfg))
	if err != nil {
		slog.Error("Cannot connect to database", "error", err)
		return nil, err
	}
	return db, nil
}

func opts(cfg config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.MyUser, cfg.MyPass, cfg.MyHost, 3306, cfg.MyDB)
}
