package solvex

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/storage"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/caching"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/slowlog"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type solvex struct {
	redis         *redis.Client
	store         storage.Store
	httpTransport *http.Transport
	sessions      *sessionPool
}

func New(redisClient *redis.Client, store storage.Store) *solvex {
	transport := http.DefaultTransport.(*http.Transport)
	// improves durations a lot
	transport.DisableKeepAlives = true

	return &solvex{
		redis:         redisClient,
		store:         store,
		httpTransport: transport,
		sessions:      newSessionPool(),
	}
}

func (s *solvex) TrafficLightGroupingCacheKey(ctx context.Context, params schema.SearchRequestParams, logger *zerolog.Logger) string {
	configuration, _ := params.Configuration.AsSolvexConfiguration()

	keyPieces := []string{
		"grouping",
		"supplier-solvex",
		"1",
		configuration.Login,
		params.DateFrom,
		params.DateTo,
		fmt.Sprint(params.Adults),
		joinInts(params.ChildrenAges),
		joinInts(params.CityKeys),
		joinInts(params.HotelKeys),
		joinInts(params.Tariffs),
	}

	return strings.ToLower(strings.Join(keyPieces, ":"))
}

func (s *solvex) GetCountries(ctx context.Context, params schema.CountriesRequestParams, logger *zerolog.Logger) (schema.CountriesResponse, error) {
	configuration, _ := params.Configuration.AsSolvexConfiguration()

	request := countriesRequest{
		session:       s.sessions.For(configuration),
		cache:         caching.NewRedisCache(s.redis),
		params:        params,
		configuration: configuration,
		logger:        logger,
		slowLogger:    slowlog.CreateLogger(logger),
	}

	return request.Execute(ctx, s.httpTransport)
}

func (s *solvex) GetRegions(ctx context.Context, params schema.RegionsRequestParams, logger *zerolog.Logger) (schema.RegionsResponse, error) {
	configuration, _ := params.Configuration.AsSolvexConfiguration()

	request := regionsRequest{
		session:       s.sessions.For(configuration),
		cache:         caching.NewRedisCache(s.redis),
		params:        params,
		configuration: configuration,
		logger:        logger,
		slowLogger:    slowlog.CreateLogger(logger),
	}

	return request.Execute(ctx, s.httpTransport)
}

func (s *solvex) GetCities(ctx context.Context, params schema.CitiesRequestParams, logger *zerolog.Logger) (schema.CitiesResponse, error) {
	configuration, _ := params.Configuration.AsSolvexConfiguration()

	request := citiesRequest{
		session:       s.sessions.For(configuration),
		cache:         caching.NewRedisCache(s.redis),
		params:        params,
		configuration: configuration,
		logger:        logger,
		slowLogger:    slowlog.CreateLogger(logger),
	}

	return request.Execute(ctx, s.httpTransport)
}

func (s *solvex) GetHotels(ctx context.Context, params schema.HotelsRequestParams, logger *zerolog.Logger) (schema.HotelsResponse, error) {
	configuration, _ := params.Configuration.AsSolvexConfiguration()

	request := hotelsRequest{
		session:       s.sessions.For(configuration),
		params:        params,
		configuration: configuration,
		logger:        logger,
		slowLogger:    slowlog.CreateLogger(logger),
	}

	return request.Execute(ctx, s.httpTransport)
}

func (s *solvex) GetHotelContent(ctx context.Context, params schema.HotelContentRequestParams, logger *zerolog.Logger) (schema.HotelContentResponse, error) {
	configuration, _ := params.Configuration.AsSolvexConfiguration()

	request := hotelContentRequest{
		session:       s.sessions.For(configuration),
		params:        params,
		configuration: configuration,
		logger:        logger,
		slowLogger:    slowlog.CreateLogger(logger),
	}

	return request.Execute(ctx, s.httpTransport)
}

func (s *solvex) SearchHotels(ctx context.Context, params schema.SearchRequestParams, logger *zerolog.Logger) (schema.SearchResponse, error) {
	configuration, _ := params.Configuration.AsSolvexConfiguration()

	request := searchRequest{
		session:       s.sessions.For(configuration),
		params:        params,
		configuration: configuration,
		logger:        logger,
		slowLogger:    slowlog.CreateLogger(logger),
	}

	return request.Execute(ctx, s.httpTransport)
}

func (s *solvex) SyncCatalog(ctx context.Context, params schema.CatalogSyncRequestParams, logger *zerolog.Logger) (schema.CatalogSyncResponse, error) {
	configuration, _ := params.Configuration.AsSolvexConfiguration()

	request := catalogSyncRequest{
		session:       s.sessions.For(configuration),
		store:         s.store,
		params:        params,
		configuration: configuration,
		logger:        logger,
		slowLogger:    slowlog.CreateLogger(logger),
	}

	return request.Execute(ctx, s.httpTransport)
}

func joinInts(values []int) string {
	pieces := make([]string, len(values))
	for i, value := range values {
		pieces[i] = fmt.Sprint(value)
	}
	return strings.Join(pieces, ",")
}
