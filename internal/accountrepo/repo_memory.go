package accountrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Jaza/copernicus-api/internal/domain"
)

type memoryKey struct {
	externalUserID string
	id             string
}

// RepoMemory keeps accounts in process memory.
//
// It backs local runs without a store and end-to-end tests. The mutex plays the role of
// the store's atomic conditional write.
type RepoMemory struct {
	mu    sync.Mutex
	items map[memoryKey]domain.Account
}

// NewRepoMemory returns an empty account RepoMemory.
func NewRepoMemory() *RepoMemory {
	return &RepoMemory{
		items: make(map[memoryKey]domain.Account),
	}
}

// List returns all non deleted accounts of the external user ordered by id.
func (r *RepoMemory) List(_ context.Context, externalUserID string) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []domain.Account{}

	for k, a := range r.items {
		if k.externalUserID == externalUserID && a.Status != domain.StatusDeleted {
			items = append(items, a)
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}

// Get returns the account unless it is absent or soft deleted.
func (r *RepoMemory) Get(_ context.Context, externalUserID, id string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[memoryKey{externalUserID, id}]
	if !ok || a.Status == domain.StatusDeleted {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

// Create stores the account unless its id is already taken in the partition.
func (r *RepoMemory) Create(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := memoryKey{account.ExternalUserID, account.ID}
	if _, ok := r.items[k]; ok {
		return domain.ErrAccountAlreadyExists
	}

	r.items[k] = account

	return nil
}

// UpdateStatus moves an existing non deleted account to a different status.
func (r *RepoMemory) UpdateStatus(_ context.Context, externalUserID, id, status string) error {
	return r.setStatus(externalUserID, id, status)
}

// Delete marks an existing non deleted account as deleted.
func (r *RepoMemory) Delete(_ context.Context, externalUserID, id string) error {
	return r.setStatus(externalUserID, id, domain.StatusDeleted)
}

func (r *RepoMemory) setStatus(externalUserID, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := memoryKey{externalUserID, id}

	a, ok := r.items[k]
	if !ok || a.Status == domain.StatusDeleted || a.Status == status {
		return domain.ErrAccountNotFound
	}

	a.Status = status
	r.items[k] = a

	return nil
}
