package dataset

import (
	"fmt"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// SQLConfig names one running database that SQLStream connects to; the
// query to stream is given separately to NewSQLStream. It plays the same role as the
// teacher's driver.Config, one level up: instead of selecting a dialect
// of DDL dump, it selects a dialect of DSN construction.
type SQLConfig struct {
	Driver   string // "mysql", "postgres", "sqlserver", "sqlite3"
	Host     string
	Port     int
	User     string
	Password string
	DbName   string
}

// buildDSN mirrors the teacher's per-driver mysqlBuildDSN/postgresBuildDSN
// functions: each driver gets its own small, literal DSN assembly rather
// than a generic URL builder, because each Go SQL driver expects its own
// DSN shape.
func buildDSN(c SQLConfig) (string, error) {
	switch c.Driver {
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
		cfg.DBName = c.DbName
		return cfg.FormatDSN(), nil
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.User, c.Password, c.Host, c.Port, c.DbName), nil
	case "sqlserver":
		return fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
			c.User, c.Password, c.Host, c.Port, c.DbName), nil
	case "sqlite3":
		return c.DbName, nil
	default:
		return "", fmt.Errorf("database driver must be one of mysql, postgres, sqlserver, sqlite3; got %q", c.Driver)
	}
}
