package sheets

import (
	"context"
	"fmt"
	"log"

	"egunkari/internal/config"
)

// Open builds the store selected by STORE_BACKEND, wrapped with STORE_TIMEOUT.
// The returned close func releases backend connections.
func Open(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	var (
		store   Store
		closeFn = noop
	)
	switch cfg.StoreBackend {
	case config.BackendSheets:
		gs, err := NewGoogleStore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store = gs
	case config.BackendPostgres:
		db, err := Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		ps, err := NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		store, closeFn = ps, db.Close
	case config.BackendMemory:
		log.Println("[Store] using in-memory backend; data is lost on exit")
		store = NewMemoryStore()
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	log.Printf("[Store] Open OK: backend=%s timeout=%v", cfg.StoreBackend, cfg.StoreTimeout)
	return WithTimeout(store, cfg.StoreTimeout), closeFn, nil
}
