// Package dbpkg provides helpers to make store initialization and testing easier.
package dbpkg

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLInterface provides neccessary db methods to perform queries.
type SQLInterface interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Setup sets up connection with database.
func Setup(driver, source string) (*sql.DB, error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// AccountsSchema creates the accounts table keyed the same way as the DynamoDB table:
// external_user_id is the partition, id the sort key.
const AccountsSchema = `
CREATE TABLE IF NOT EXISTS accounts (
    external_user_id  varchar(255) NOT NULL,
    id                varchar(36)  NOT NULL,
    account_number    varchar(12)  NOT NULL,
    routing_number    varchar(9)   NOT NULL,
    status            varchar(16)  NOT NULL
        CHECK (status IN ('active', 'suspended', 'deleted')),
    current_balance   numeric      NOT NULL DEFAULT 0,
    available_balance numeric      NOT NULL DEFAULT 0,
    PRIMARY KEY (external_user_id, id)
)`

// CreateAccountsSchema creates the accounts table if it does not exist yet.
func CreateAccountsSchema(ctx context.Context, db SQLInterface) error {
	if _, err := db.ExecContext(ctx, AccountsSchema); err != nil {
		return fmt.Errorf("create accounts table: %w", err)
	}

	return nil
}
