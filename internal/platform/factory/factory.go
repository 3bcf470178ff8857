package factory

import (
	"fmt"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex"
	"bitbucket.org/olympichub/supplier-hub/internal/storage"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/redisfactory"
)

type Factory struct {
	redisFactory *redisfactory.Factory
	store        storage.Store
	platforms    map[string]any
}

func (f *Factory) GetPlatform(name string) (any, error) {
	_, ok := f.platforms[name]

	if !ok {
		switch name {

		// Register all platforms here
		case "solvex":
			f.platforms[name] = solvex.New(f.redisFactory.ResponsesCacheClient(), f.store)
		default:
			return nil, fmt.Errorf("platform %s not found", name)
		}
	}

	return f.platforms[name], nil
}

func NewFactory(redisFactory *redisfactory.Factory, store storage.Store) *Factory {
	return &Factory{
		redisFactory: redisFactory,
		store:        store,
		platforms:    make(map[string]any),
	}
}
