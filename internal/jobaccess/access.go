package jobaccess

import (
	"context"
	"strings"

	"lectern/internal/api"
	"lectern/internal/ipc"
	"lectern/internal/registry"
)

// Access provides registry operations regardless of IPC or direct store
// backing. CLI commands that only read or prune jobs work through this
// interface so they keep functioning when the daemon is offline.
type Access interface {
	Stats(ctx context.Context) (map[string]int, error)
	List(ctx context.Context, statuses []string) ([]api.Job, error)
	Describe(ctx context.Context, id string) (*api.Job, error)
	ClearCompleted(ctx context.Context) (int64, error)
}

// NewIPCAccess returns an Access backed by daemon IPC.
func NewIPCAccess(client *ipc.Client) Access {
	return &ipcAccess{client: client}
}

// NewStoreAccess returns an Access backed by direct DB access.
func NewStoreAccess(store *registry.Store) Access {
	return &storeAccess{store: store, service: api.NewJobService(store)}
}

type ipcAccess struct {
	client *ipc.Client
}

func (a *ipcAccess) Stats(_ context.Context) (map[string]int, error) {
	resp, err := a.client.Status()
	if err != nil {
		return nil, err
	}
	return resp.JobStats, nil
}

func (a *ipcAccess) List(_ context.Context, statuses []string) ([]api.Job, error) {
	resp, err := a.client.JobList(statuses)
	if err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

func (a *ipcAccess) Describe(_ context.Context, id string) (*api.Job, error) {
	resp, err := a.client.JobDescribe(id)
	if err != nil {
		// The server reports missing jobs as RPC errors; normalize to the
		// (nil, nil) contract store access uses.
		if strings.Contains(err.Error(), "not found") {
			return nil, nil
		}
		return nil, err
	}
	return &resp.Job, nil
}

func (a *ipcAccess) ClearCompleted(_ context.Context) (int64, error) {
	resp, err := a.client.ClearCompleted()
	if err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

type storeAccess struct {
	store   *registry.Store
	service *api.JobService
}

func (a *storeAccess) Stats(ctx context.Context) (map[string]int, error) {
	return a.service.Stats(ctx)
}

func (a *storeAccess) List(ctx context.Context, statuses []string) ([]api.Job, error) {
	var filters []registry.Status
	for _, s := range statuses {
		if parsed, ok := registry.ParseStatus(s); ok {
			filters = append(filters, parsed)
		}
	}
	return a.service.List(ctx, filters...)
}

func (a *storeAccess) Describe(ctx context.Context, id string) (*api.Job, error) {
	return a.service.Describe(ctx, id)
}

func (a *storeAccess) ClearCompleted(ctx context.Context) (int64, error) {
	return a.store.ClearCompleted(ctx)
}
