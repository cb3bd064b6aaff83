package orm

import (
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// WithMySQL accepts a go-sql-driver DSN, like user:pass@tcp(host:3306)/reviewers.
func WithMySQL(dsn string) (gorm.Dialector, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid MySQL DSN")
	}

	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}

	return mysql.New(mysql.Config{
		DSN:               cfg.FormatDSN(),
		DSNConfig:         cfg,
		DefaultStringSize: 255,
	}), nil
}
