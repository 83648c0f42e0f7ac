//go:build integration

package accountrepo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jaza/copernicus-api/internal/domain"
	"github.com/Jaza/copernicus-api/internal/integrationtest"
	"github.com/Jaza/copernicus-api/pkg/randompkg"
)

type accountStore interface {
	List(ctx context.Context, externalUserID string) ([]domain.Account, error)
	Get(ctx context.Context, externalUserID, id string) (domain.Account, error)
	Create(ctx context.Context, account domain.Account) error
	UpdateStatus(ctx context.Context, externalUserID, id, status string) error
	Delete(ctx context.Context, externalUserID, id string) error
}

func TestDynamoIntegration(t *testing.T) {
	client, table := integrationtest.SetupDynamoTable(t)

	testStore(t, NewRepoDynamo(client, table))
}

func TestPGSIntegration(t *testing.T) {
	db := integrationtest.SetupDB(t)

	testStore(t, NewRepoPGS(db))
}

func testStore(t *testing.T, repo accountStore) {
	t.Helper()

	ctx := context.Background()
	externalUserID := randompkg.Owner()

	kept := randomAccount(externalUserID)
	removed := randomAccount(externalUserID)

	require.NoError(t, repo.Create(ctx, kept))
	require.NoError(t, repo.Create(ctx, removed))
	require.ErrorIs(t, repo.Create(ctx, kept), domain.ErrAccountAlreadyExists)

	got, err := repo.Get(ctx, externalUserID, kept.ID)
	require.NoError(t, err)
	require.Equal(t, kept, got)

	require.NoError(t, repo.UpdateStatus(ctx, externalUserID, kept.ID, domain.StatusSuspended))
	require.ErrorIs(t, repo.UpdateStatus(ctx, externalUserID, kept.ID, domain.StatusSuspended), domain.ErrAccountNotFound)

	require.NoError(t, repo.Delete(ctx, externalUserID, removed.ID))
	require.ErrorIs(t, repo.Delete(ctx, externalUserID, removed.ID), domain.ErrAccountNotFound)
	require.ErrorIs(t, repo.UpdateStatus(ctx, externalUserID, removed.ID, domain.StatusActive), domain.ErrAccountNotFound)

	_, err = repo.Get(ctx, externalUserID, removed.ID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	list, err := repo.List(ctx, externalUserID)
	require.NoError(t, err)

	kept.Status = domain.StatusSuspended
	require.Equal(t, []domain.Account{kept}, list)

	raced := randomAccount(externalUserID)
	require.NoError(t, repo.Create(ctx, raced))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		deleted  int
		notFound int
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := repo.Delete(ctx, externalUserID, raced.ID)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				deleted++
			case errors.Is(err, domain.ErrAccountNotFound):
				notFound++
			}
		}()
	}

	wg.Wait()

	require.Equal(t, 1, deleted)
	require.Equal(t, 7, notFound)
}
