package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the shared connection pool plus the SQL dialect it speaks.
type DB struct {
	*sqlx.DB
	Dialect Dialect
}

func Connect(c DatabaseConfig) (*DB, error) {
	d, err := ParseDialect(c.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := buildDSN(d, c)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", d, err)
	}

	// 接続プール（合算がサーバの max_connections を超えないよう配分する）
	switch d {
	case DialectSQLite:
		conn.SetMaxOpenConns(8)
		conn.SetMaxIdleConns(8)
	default:
		conn.SetMaxOpenConns(80)
		conn.SetMaxIdleConns(20)
		conn.SetConnMaxLifetime(30 * time.Minute)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	return &DB{DB: conn, Dialect: d}, nil
}

// OpenSQLite opens (or creates) a SQLite database file and applies the schema.
func OpenSQLite(path string) (*DB, error) {
	conn, err := Connect(DatabaseConfig{Driver: string(DialectSQLite), Path: path})
	if err != nil {
		return nil, err
	}
	if err := Migrate(context.Background(), conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func buildDSN(d Dialect, c DatabaseConfig) (string, error) {
	switch d {
	case DialectMySQL:
		var mc *mysql.Config
		if c.DSN != "" {
			parsed, err := mysql.ParseDSN(c.DSN)
			if err != nil {
				return "", fmt.Errorf("parse mysql dsn: %w", err)
			}
			mc = parsed
		} else {
			mc = mysql.NewConfig()
			mc.User = c.Username
			mc.Passwd = c.Password
			mc.Net = "tcp"
			mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
			mc.DBName = c.DBName
			mc.Timeout = 3 * time.Second
			mc.ReadTimeout = 5 * time.Second
			mc.WriteTimeout = 5 * time.Second
		}
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN(), nil

	case DialectPostgres:
		if c.DSN != "" {
			return c.DSN, nil
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.Username, c.Password, c.Host, c.Port, c.DBName), nil

	case DialectSQLite:
		if c.DSN != "" {
			return c.DSN, nil
		}
		// 初回起動でも失敗しないようディレクトリを作っておく
		if dir := filepath.Dir(c.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("create db dir: %w", err)
			}
		}
		// BEGIN IMMEDIATE で書き込みロックを先取りし、貸出の同時実行を直列化する
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1&_journal_mode=WAL&_txlock=immediate", c.Path), nil
	}
	return "", fmt.Errorf("unsupported driver %q", d)
}
