package main

import (
	"context"

	"github.com/sells-group/nonprofit-intel/internal/store"
)

// initStore validates the store settings, opens the configured backend and
// migrates it.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store)
}
