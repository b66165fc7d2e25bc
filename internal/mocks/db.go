package mocks

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
)

// stubDriver is a database/sql driver whose connections support only
// transaction begin/commit/rollback as no-ops. Store fakes ignore the
// transaction handle, so services built on store.RunInTransaction can run
// against a genuine *sql.DB without a server.
type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) {
	return stubConn{}, nil
}

type stubConn struct{}

func (stubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("stub database does not support queries")
}

func (stubConn) Close() error { return nil }

func (stubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

func (stubConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return stubTx{}, nil
}

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var registerStubDriver sync.Once

// StubDB returns a real *sql.DB whose transactions are no-ops. Pair it with
// the in-memory store fakes in this package.
func StubDB() *sql.DB {
	registerStubDriver.Do(func() {
		sql.Register("lexidrill-stub", stubDriver{})
	})

	db, err := sql.Open("lexidrill-stub", "")
	if err != nil {
		// ALLOW-PANIC: test helper, sql.Open cannot fail for a registered driver
		panic(err)
	}
	return db
}
