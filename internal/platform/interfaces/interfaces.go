package interfaces

import (
	"context"

	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"github.com/rs/zerolog"
)

type WithTrafficLightSearchGrouping interface {
	TrafficLightGroupingCacheKey(context.Context, schema.SearchRequestParams, *zerolog.Logger) string
}

type WithCountries interface {
	GetCountries(context.Context, schema.CountriesRequestParams, *zerolog.Logger) (schema.CountriesResponse, error)
}

type WithRegions interface {
	GetRegions(context.Context, schema.RegionsRequestParams, *zerolog.Logger) (schema.RegionsResponse, error)
}

type WithCities interface {
	GetCities(context.Context, schema.CitiesRequestParams, *zerolog.Logger) (schema.CitiesResponse, error)
}

type WithHotels interface {
	GetHotels(context.Context, schema.HotelsRequestParams, *zerolog.Logger) (schema.HotelsResponse, error)
}

type WithHotelContent interface {
	GetHotelContent(context.Context, schema.HotelContentRequestParams, *zerolog.Logger) (schema.HotelContentResponse, error)
}

type WithSearchHotels interface {
	SearchHotels(context.Context, schema.SearchRequestParams, *zerolog.Logger) (schema.SearchResponse, error)
}

type WithCatalogSync interface {
	SyncCatalog(context.Context, schema.CatalogSyncRequestParams, *zerolog.Logger) (schema.CatalogSyncResponse, error)
}
