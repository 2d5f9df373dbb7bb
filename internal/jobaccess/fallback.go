package jobaccess

import (
	"fmt"

	"lectern/internal/ipc"
	"lectern/internal/registry"
)

// Session bundles an Access with the cleanup for whichever backing it got.
type Session struct {
	Access Access
	close  func() error
}

// Close releases the session's client or store.
func (s Session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenWithFallback prefers a live daemon over the database: it dials IPC
// first and opens the registry directly only when no daemon answers.
func OpenWithFallback(
	dial func() (*ipc.Client, error),
	openStore func() (*registry.Store, error),
) (Session, error) {
	if dial != nil {
		if client, err := dial(); err == nil {
			return Session{Access: NewIPCAccess(client), close: client.Close}, nil
		}
	}
	return openDirect(openStore)
}

func openDirect(openStore func() (*registry.Store, error)) (Session, error) {
	if openStore == nil {
		return Session{}, fmt.Errorf("open job registry: no store opener configured")
	}
	store, err := openStore()
	if err != nil {
		return Session{}, fmt.Errorf("open job registry: %w", err)
	}
	return Session{Access: NewStoreAccess(store), close: store.Close}, nil
}
