package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"bitbucket.org/olympichub/supplier-hub/internal/storage/memory"
	"bitbucket.org/olympichub/supplier-hub/internal/storage/postgres"
	"bitbucket.org/olympichub/supplier-hub/internal/storage/supabase"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/client"
	"github.com/rs/zerolog"
)

// FromEnv selects the catalog store via STORE_DRIVER. Memory is the default
// so a bare environment never reaches for external infrastructure.
func FromEnv(ctx context.Context, log *zerolog.Logger) (Store, error) {
	driver := os.Getenv("STORE_DRIVER")

	switch driver {
	case "", "memory":
		return memory.New(), nil
	case "postgres":
		store, err := postgres.New(os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, err
		}
		if err := store.InitSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "supabase":
		return supabase.New(
			log,
			os.Getenv("SUPABASE_SERVICE_KEY"),
			client.WithBaseURL(os.Getenv("SUPABASE_URL")),
			client.WithTimeout(10*time.Second),
		)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}
}
