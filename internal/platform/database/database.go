package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Driver names a supported relational dialect.
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
)

// mysqlTLSName is the key under which the CA-verified TLS config is registered with the MySQL
// driver.
const mysqlTLSName = "market-ca"

// Config describes how to reach the relational store. DSN wins over the individual parts.
type Config struct {
	Driver   Driver
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// SSLCA is a PEM bundle path. When set, connections verify the server certificate against it.
	SSLCA string
}

// DefaultPort returns the conventional port of the driver.
func (d Driver) DefaultPort() int {
	if d == DriverPostgres {
		return 5432
	}
	return 3306
}

func (d Driver) Valid() bool {
	return d == DriverMySQL || d == DriverPostgres
}

// DataSourceName renders the driver-specific DSN.
func (c Config) DataSourceName() (string, error) {
	if !c.Driver.Valid() {
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		return dsn, nil
	}
	if strings.TrimSpace(c.Host) == "" || strings.TrimSpace(c.Name) == "" {
		return "", errors.New("database host and name are required")
	}
	port := c.Port
	if port == 0 {
		port = c.Driver.DefaultPort()
	}
	switch c.Driver {
	case DriverPostgres:
		parts := []string{
			"host=" + quoteValue(c.Host),
			"port=" + strconv.Itoa(port),
			"user=" + quoteValue(c.User),
			"password=" + quoteValue(c.Password),
			"dbname=" + quoteValue(c.Name),
		}
		if c.SSLCA != "" {
			parts = append(parts, "sslmode=verify-full", "sslrootcert="+quoteValue(c.SSLCA))
		} else {
			parts = append(parts, "sslmode=disable")
		}
		return strings.Join(parts, " "), nil
	default:
		cfg := mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
		cfg.DBName = c.Name
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		if c.SSLCA != "" {
			cfg.TLSConfig = mysqlTLSName
		}
		return cfg.FormatDSN(), nil
	}
}

// quoteValue escapes a libpq keyword/value parameter.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// RegisterTLS loads the CA bundle for MySQL connections. Postgres reads sslrootcert itself.
func (c Config) RegisterTLS() error {
	if c.SSLCA == "" || c.Driver != DriverMySQL {
		return nil
	}
	pem, err := os.ReadFile(c.SSLCA)
	if err != nil {
		return fmt.Errorf("read database CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return fmt.Errorf("database CA bundle %s has no certificates", c.SSLCA)
	}
	host := c.Host
	if host == "" && c.DSN != "" {
		if parsed, err := mysql.ParseDSN(c.DSN); err == nil {
			host, _, _ = net.SplitHostPort(parsed.Addr)
		}
	}
	return mysql.RegisterTLSConfig(mysqlTLSName, &tls.Config{RootCAs: pool, ServerName: host, MinVersion: tls.VersionTLS12})
}

// Connect opens the relational store via GORM and verifies connectivity.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, err
	}
	if err := cfg.RegisterTLS(); err != nil {
		return nil, err
	}
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = gormpostgres.Open(dsn)
	default:
		dialector = gormmysql.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectWithRetry calls Connect up to attempts times, sleeping delay between tries. It gives
// up early when ctx is done.
func ConnectWithRetry(ctx context.Context, cfg Config, attempts int, delay time.Duration, logger *slog.Logger) (*gorm.DB, error) {
	return retry(ctx, attempts, delay, logger, func(ctx context.Context) (*gorm.DB, error) {
		return Connect(ctx, cfg)
	})
}

func retry[T any](ctx context.Context, attempts int, delay time.Duration, logger *slog.Logger, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if logger != nil {
			logger.Warn("database connection attempt failed",
				slog.Int("attempt", attempt),
				slog.Int("attempts", attempts),
				slog.String("error", err.Error()))
		}
		if attempt == attempts {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("connect cancelled after %d attempt(s): %w", attempt, ctx.Err())
		case <-timer.C:
		}
	}
	return zero, fmt.Errorf("connect failed after %d attempt(s): %w", attempts, lastErr)
}
