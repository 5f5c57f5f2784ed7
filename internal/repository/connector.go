package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	customError "github.com/segyhp/loan-reports/pkg/errors"
)

type dbConnector struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewConnector returns a Connector that checks out one pooled connection per
// Open. A nil db yields a connector that always reports the store as
// unavailable, which is how an unconfigured deployment runs.
func NewConnector(db *sqlx.DB, connectTimeout time.Duration) Connector {
	return &dbConnector{db: db, timeout: connectTimeout}
}

func (c *dbConnector) Open(ctx context.Context) (Session, error) {
	if c.db == nil {
		return nil, customError.WrapStoreUnavailable(nil)
	}

	connectCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.db.Connx(connectCtx)
	if err != nil {
		return nil, customError.WrapStoreUnavailable(err)
	}
	if err := conn.PingContext(connectCtx); err != nil {
		conn.Close()
		return nil, customError.WrapStoreUnavailable(err)
	}

	return &connSession{ReportSource: NewSQLSource(conn), conn: conn}, nil
}

type connSession struct {
	ReportSource
	conn *sqlx.Conn
}

func (s *connSession) Close() error {
	return s.conn.Close()
}
