package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/failover"
)

// MySQL server errors raised for data the server refuses rather than for a failing server.
var mysqlDataErrors = map[uint16]struct{}{
	1048: {}, // column cannot be null
	1062: {}, // duplicate entry
	1264: {}, // out of range value
	1366: {}, // incorrect value for column
	1406: {}, // data too long
	1451: {}, // parent row is referenced
	1452: {}, // foreign key fails
	3819: {}, // check constraint violated
}

// StoreError wraps a driver failure for the failover router. Data and constraint violations
// become failover.ErrRejected and reach the caller; everything else is failover.ErrUnavailable.
// Server-side error codes are kept in the message for the log line.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %s: postgres %s: %w", pgClass(pgErr.Code), op, pgErr.Code, err)
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		class := failover.ErrUnavailable
		if _, ok := mysqlDataErrors[myErr.Number]; ok {
			class = failover.ErrRejected
		}
		return fmt.Errorf("%w: %s: mysql %d: %w", class, op, myErr.Number, err)
	}
	return fmt.Errorf("%w: %s: %w", failover.ErrUnavailable, op, err)
}

// pgClass maps SQLSTATE class 22 (data exception) and 23 (integrity violation) to ErrRejected.
func pgClass(code string) error {
	if strings.HasPrefix(code, "22") || strings.HasPrefix(code, "23") {
		return failover.ErrRejected
	}
	return failover.ErrUnavailable
}
