package store

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// PingProbe implements AccountProbe against the remote MySQL tier. A
// successful ping means the account is available; an authentication failure
// means the credentials no longer grant access and the user must sign in
// again; an unreachable server reads as temporarily unavailable.
type PingProbe struct {
	db *sqlx.DB
}

// NewPingProbe creates a PingProbe over the remote database handle.
func NewPingProbe(db *sqlx.DB) *PingProbe {
	return &PingProbe{db: db}
}

// CheckStatus implements AccountProbe.
func (p *PingProbe) CheckStatus(ctx context.Context) (AccountStatus, error) {
	return mapProbeError(p.db.PingContext(ctx))
}

// DialProbe implements AccountProbe by dialing the remote tier from its
// configuration on every probe. Unlike PingProbe it does not need the remote
// tier to have been adopted; it answers "could we sync if we wanted to".
type DialProbe struct {
	backend *MySQLBackend
}

// NewDialProbe creates a DialProbe from the remote backend.
func NewDialProbe(backend *MySQLBackend) *DialProbe {
	return &DialProbe{backend: backend}
}

// CheckStatus implements AccountProbe.
func (p *DialProbe) CheckStatus(ctx context.Context) (AccountStatus, error) {
	db, err := p.backend.Load(ctx)
	if err == nil {
		_ = db.Close()
	}
	return mapProbeError(err)
}

func mapProbeError(err error) (AccountStatus, error) {
	if err == nil {
		return AccountAvailable, nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// ER_ACCESS_DENIED_ERROR / ER_DBACCESS_DENIED_ERROR
		if mysqlErr.Number == 1045 || mysqlErr.Number == 1044 {
			return AccountNoAccount, nil
		}
		return AccountRestricted, nil
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "no such host") {
		return AccountTemporarilyUnavailable, nil
	}
	return AccountCouldNotDetermine, err
}
