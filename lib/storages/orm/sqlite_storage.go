package orm

import (
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func WithSqlite(file string) gorm.Dialector {
	return sqlite.Open(file + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
}

// WithSqliteInMemory returns a private in memory database. It only lives while
// its single connection is open.
func WithSqliteInMemory() gorm.Dialector {
	return sqlite.Open(":memory:?_pragma=foreign_keys(1)")
}

func isInMemory(d gorm.Dialector) bool {
	s, ok := d.(*sqlite.Dialector)
	return ok && strings.HasPrefix(s.DSN, ":memory:")
}
