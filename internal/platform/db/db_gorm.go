// Package db はgormによるデータベース接続（PostgreSQL、SQLiteフォールバック）を提供します。
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authentity "todo_backend/internal/feature/auth/domain/entity"
	taskentity "todo_backend/internal/feature/tasks/domain/entity"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Driver names reported by Dialect and the health endpoint.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config はデータベース接続設定を保持します。
type Config struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// SQLitePath はPostgreSQLが未設定または接続不可の場合に使用されます。
	SQLitePath string

	// ConnectTimeout はPostgreSQL接続リトライの最大待ち時間です。
	ConnectTimeout time.Duration
	LogLevel       logger.LogLevel
}

// HasPostgres はPostgreSQLの接続情報が設定されているかを返します。
func (c Config) HasPostgres() bool {
	return c.URL != "" || c.Host != ""
}

// BuildDSN はConfigからPostgreSQLのDSN文字列を構築します。
// URLが設定されている場合はそれが優先されます。
func BuildDSN(cfg Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   cfg.Host,
		Path:   "/" + cfg.Name,
	}
	if cfg.Port != "" {
		u.Host = cfg.Host + ":" + cfg.Port
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	if cfg.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", cfg.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry はtimeoutに達するまでretryInterval間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	return connectWithRetry(dsn, timeout, retryInterval, opener)
}

func connectWithRetry(dsn string, timeout, interval time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", interval)
		time.Sleep(interval)
	}
}

// Open はPostgreSQLへの接続を試み、未設定または失敗した場合はSQLiteにフォールバックします。
func Open(cfg Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(cfg.logLevel())}

	if cfg.HasPostgres() {
		db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, func(dsn string) (*gorm.DB, error) {
			db, err := gorm.Open(postgres.Open(dsn), gcfg)
			if err != nil {
				return nil, err
			}
			if err := Ping(context.Background(), db); err != nil {
				return nil, err
			}
			return db, nil
		})
		if err == nil {
			slog.Info("Connected to PostgreSQL")
			return db, nil
		}
		slog.Warn("PostgreSQL unavailable, falling back to SQLite", "error", err)
	}

	return OpenSQLite(cfg.SQLitePath, gcfg)
}

// OpenSQLite はSQLiteデータベースを開きます。
// 同一プロセス内で同じデータを共有するため、接続数は1に制限します。
// 外部キー制約は接続ごとに有効化されます。
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{}
	}
	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	slog.Info("Using embedded SQLite database", "path", path)
	return db, nil
}

// sqliteDSN appends the go-sqlite3 option that turns on foreign key enforcement.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// Migrate はすべてのテーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&authentity.User{},
		&authentity.AuthToken{},
		&taskentity.Task{},
		&taskentity.SearchFilter{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Ping はデータベースに簡単なクエリを発行して疎通を確認します。
func Ping(ctx context.Context, db *gorm.DB) error {
	var one int
	return db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
}

// Dialect はdbのドライバ名（postgres または sqlite）を返します。
func Dialect(db *gorm.DB) string {
	return db.Dialector.Name()
}

// IsUniqueViolation はerrが一意制約違反かどうかを判定します。
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL: 23505 unique_violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (c Config) logLevel() logger.LogLevel {
	if c.LogLevel == 0 {
		return logger.Warn
	}
	return c.LogLevel
}
