// Package accountrepo manages repository layer of accounts.
//
// Every implementation performs status changes as a single conditional write that
// requires the account to exist, not to be deleted and not to hold the target status
// already, so of two racing changes to the same status exactly one succeeds.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/Jaza/copernicus-api/internal/domain"
	"github.com/Jaza/copernicus-api/pkg/dbpkg"
)

const uniqueViolation = "unique_violation"

// RepoPGS facilitates account repository layer logic on top of PostgreSQL.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const listQuery = `
SELECT id, external_user_id, account_number, routing_number, status, current_balance, available_balance
FROM accounts
WHERE external_user_id = $1 AND status <> $2
ORDER BY id
`

// List returns all non deleted accounts of the external user.
func (r *RepoPGS) List(ctx context.Context, externalUserID string) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, externalUserID, domain.StatusDeleted)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, fmt.Errorf("query accounts: %w", err)
	}

	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.ID,
			&a.ExternalUserID,
			&a.AccountNumber,
			&a.RoutingNumber,
			&a.Status,
			&a.CurrentBalance,
			&a.AvailableBalance,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, fmt.Errorf("scan account: %w", err)
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return items, nil
}

const getQuery = `
SELECT id, external_user_id, account_number, routing_number, status, current_balance, available_balance
FROM accounts
WHERE external_user_id = $1 AND id = $2 AND status <> $3
`

// Get returns the account unless it is absent or soft deleted.
func (r *RepoPGS) Get(ctx context.Context, externalUserID, id string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, externalUserID, id, domain.StatusDeleted)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.ExternalUserID,
		&a.AccountNumber,
		&a.RoutingNumber,
		&a.Status,
		&a.CurrentBalance,
		&a.AvailableBalance,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	return a, nil
}

const createQuery = `
INSERT INTO accounts
    (id, external_user_id, account_number, routing_number, status, current_balance, available_balance)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
`

// Create inserts the account, the primary key rejects a taken id.
func (r *RepoPGS) Create(ctx context.Context, a domain.Account) error {
	l := zerolog.Ctx(ctx)

	_, err := r.db.ExecContext(ctx, createQuery,
		a.ID,
		a.ExternalUserID,
		a.AccountNumber,
		a.RoutingNumber,
		a.Status,
		a.CurrentBalance,
		a.AvailableBalance,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == uniqueViolation {
			return domain.ErrAccountAlreadyExists
		}

		l.Error().Err(err).Send()

		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

const setStatusQuery = `
UPDATE accounts
SET status = $1
WHERE external_user_id = $2 AND id = $3 AND status <> $4 AND status <> $1
`

// UpdateStatus moves an existing non deleted account to a different status.
func (r *RepoPGS) UpdateStatus(ctx context.Context, externalUserID, id, status string) error {
	return r.setStatus(ctx, externalUserID, id, status)
}

// Delete marks an existing non deleted account as deleted.
func (r *RepoPGS) Delete(ctx context.Context, externalUserID, id string) error {
	return r.setStatus(ctx, externalUserID, id, domain.StatusDeleted)
}

func (r *RepoPGS) setStatus(ctx context.Context, externalUserID, id, status string) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, setStatusQuery, status, externalUserID, id, domain.StatusDeleted)
	if err != nil {
		l.Error().Err(err).Send()
		return fmt.Errorf("update account status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return fmt.Errorf("update account status: %w", err)
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}
