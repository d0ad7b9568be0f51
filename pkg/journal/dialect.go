package journal

import (
	"fmt"
	"strconv"
	"strings"

	// Database drivers, selected by Config.Driver.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// dialect captures what differs between the supported databases.
type dialect struct {
	name       string   // canonical driver name used in config
	sqlDriver  string   // name registered with database/sql
	schema     []string // statements run on Open
	positional bool     // $1, $2 placeholders instead of ?
}

var dialects = map[string]dialect{
	"sqlite": {
		name:      "sqlite",
		sqlDriver: "sqlite",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS journal (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TEXT NOT NULL,
				input TEXT NOT NULL,
				output TEXT NOT NULL,
				failed INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE INDEX IF NOT EXISTS idx_journal_created ON journal(created_at)`,
		},
	},
	"postgres": {
		name:      "postgres",
		sqlDriver: "postgres",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS journal (
				id BIGSERIAL PRIMARY KEY,
				created_at TIMESTAMP NOT NULL,
				input TEXT NOT NULL,
				output TEXT NOT NULL,
				failed BOOLEAN NOT NULL DEFAULT FALSE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_journal_created ON journal(created_at)`,
		},
		positional: true,
	},
	"mysql": {
		name:      "mysql",
		sqlDriver: "mysql",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS journal (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				created_at DATETIME(6) NOT NULL,
				input TEXT NOT NULL,
				output TEXT NOT NULL,
				failed BOOLEAN NOT NULL DEFAULT FALSE,
				INDEX idx_journal_created (created_at)
			)`,
		},
	},
}

var driverAliases = map[string]string{
	"sqlite3":    "sqlite",
	"postgresql": "postgres",
	"pg":         "postgres",
	"mariadb":    "mysql",
}

// Drivers returns the canonical driver names.
func Drivers() []string {
	return []string{"mysql", "postgres", "sqlite"}
}

func lookupDialect(driver string) (dialect, error) {
	name := strings.ToLower(strings.TrimSpace(driver))
	if name == "" {
		name = "sqlite"
	}
	if canonical, ok := driverAliases[name]; ok {
		name = canonical
	}
	d, ok := dialects[name]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported journal driver %q (valid: %s)", driver, strings.Join(Drivers(), ", "))
	}
	return d, nil
}

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.positional {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ValidDriver reports whether driver names a supported database. Aliases
// such as sqlite3 and postgresql are accepted.
func ValidDriver(driver string) bool {
	_, err := lookupDialect(driver)
	return err == nil
}
