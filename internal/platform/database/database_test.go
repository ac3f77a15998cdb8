package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/failover"
)

func TestDataSourceName_MySQL(t *testing.T) {
	dsn, err := Config{Driver: DriverMySQL, Host: "db.local", User: "root", Password: "s3cret", Name: "mikes_macaroon_market"}.DataSourceName()
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db.local:3306", parsed.Addr)
	assert.Equal(t, "root", parsed.User)
	assert.Equal(t, "s3cret", parsed.Passwd)
	assert.Equal(t, "mikes_macaroon_market", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Empty(t, parsed.TLSConfig)
}

func TestDataSourceName_MySQLWithCA(t *testing.T) {
	dsn, err := Config{Driver: DriverMySQL, Host: "db.local", Port: 3307, User: "u", Name: "n", SSLCA: "/etc/rds.pem"}.DataSourceName()
	require.NoError(t, err)
	assert.Contains(t, dsn, "tcp(db.local:3307)")
	assert.Contains(t, dsn, "tls="+mysqlTLSName)
}

func TestDataSourceName_Postgres(t *testing.T) {
	dsn, err := Config{Driver: DriverPostgres, Host: "pg", User: "app", Password: "it's", Name: "market"}.DataSourceName()
	require.NoError(t, err)
	assert.Equal(t, `host=pg port=5432 user=app password='it\'s' dbname=market sslmode=disable`, dsn)

	dsn, err = Config{Driver: DriverPostgres, Host: "pg", User: "app", Password: "p", Name: "market", SSLCA: "/ca.pem"}.DataSourceName()
	require.NoError(t, err)
	assert.Contains(t, dsn, "sslmode=verify-full sslrootcert=/ca.pem")
}

func TestDataSourceName_ExplicitDSNWins(t *testing.T) {
	dsn, err := Config{Driver: DriverPostgres, DSN: " postgres://u:p@h/db ", Host: "ignored"}.DataSourceName()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h/db", dsn)
}

func TestDataSourceName_Errors(t *testing.T) {
	_, err := Config{Driver: "sqlite", Host: "h", Name: "n"}.DataSourceName()
	require.Error(t, err)

	_, err = Config{Driver: DriverMySQL, Name: "n"}.DataSourceName()
	require.Error(t, err)
}

func TestRegisterTLS_RejectsEmptyBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

	err := Config{Driver: DriverMySQL, Host: "h", SSLCA: path}.RegisterTLS()
	require.ErrorContains(t, err, "no certificates")

	require.NoError(t, Config{Driver: DriverPostgres, SSLCA: path}.RegisterTLS())
}

func TestRetry_StopsOnSuccess(t *testing.T) {
	calls := 0
	got, err := retry(context.Background(), 3, time.Millisecond, nil, func(context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("refused")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := retry(context.Background(), 2, time.Millisecond, nil, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("refused")
	})
	require.ErrorContains(t, err, "after 2 attempt(s)")
	require.ErrorContains(t, err, "refused")
	assert.Equal(t, 2, calls)
}

func TestRetry_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := retry(ctx, 5, time.Hour, nil, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("refused")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestStoreError_MarksUnavailable(t *testing.T) {
	assert.NoError(t, StoreError("noop", nil))

	err := StoreError("create order", &pgconn.PgError{Code: "57P01", Message: "terminating connection"})
	require.ErrorIs(t, err, failover.ErrUnavailable)
	assert.Contains(t, err.Error(), "postgres 57P01")

	err = StoreError("list orders", &mysql.MySQLError{Number: 1146, Message: "table doesn't exist"})
	require.ErrorIs(t, err, failover.ErrUnavailable)
	assert.Contains(t, err.Error(), "mysql 1146")

	err = StoreError("get order", errors.New("i/o timeout"))
	require.ErrorIs(t, err, failover.ErrUnavailable)
}

func TestStoreError_DataViolationsAreRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "postgres value too long", err: &pgconn.PgError{Code: "22001", Message: "value too long for type character varying(255)"}, want: "postgres 22001"},
		{name: "postgres numeric overflow", err: &pgconn.PgError{Code: "22003", Message: "numeric field overflow"}, want: "postgres 22003"},
		{name: "postgres foreign key", err: &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}, want: "postgres 23503"},
		{name: "mysql data too long", err: &mysql.MySQLError{Number: 1406, Message: "Data too long for column 'name'"}, want: "mysql 1406"},
		{name: "mysql out of range", err: &mysql.MySQLError{Number: 1264, Message: "Out of range value for column 'total'"}, want: "mysql 1264"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StoreError("create order", tt.err)
			require.ErrorIs(t, err, failover.ErrRejected)
			assert.NotErrorIs(t, err, failover.ErrUnavailable)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
