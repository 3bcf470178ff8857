package solvex

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex/mapping"
	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex/megatec"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/caching"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/slowlog"
	"github.com/rs/zerolog"
)

// Reference data moves slowly, a few hours of staleness is acceptable.
const dictionaryCacheTTL = 6 * time.Hour

// regionKey -1 means "any region" upstream.
const anyRegion = -1

type countriesRequest struct {
	session       *session
	cache         *caching.Cacher
	params        schema.CountriesRequestParams
	configuration schema.SolvexConfiguration
	logger        *zerolog.Logger
	slowLogger    slowlog.Logger
}

func (r *countriesRequest) Execute(ctx context.Context, httpTransport http.RoundTripper) (schema.CountriesResponse, error) {
	response := schema.CountriesResponse{
		Countries: []schema.Country{},
	}

	requestsBucket := schema.NewSupplierRequestsBucket()
	errorsBucket := schema.NewErrorsBucket()

	response.SupplierRequests = requestsBucket.SupplierRequests()
	response.Errors = errorsBucket.Errors()

	cacheKey := dictionaryCacheKey(r.configuration, "countries", "")
	if r.cache.Fetch(ctx, cacheKey, &response.Countries) {
		return response, nil
	}

	timeout := r.params.Timeouts.Default
	client := newClient(httpTransport, timeout, r.logger, &requestsBucket)

	r.slowLogger.Start("solvex:countries:execute")
	result, err := r.session.invoke(ctx, client, schema.Dictionary, "GetCountries", func(token string) megatec.Params {
		return megatec.Params{
			{Name: "guid", Value: token},
		}
	})
	r.slowLogger.Stop("solvex:countries:execute")

	if err != nil {
		errorsBucket.AddError(asSupplierError(err))
		return response, nil
	}

	for _, row := range megatec.Records(result, "Country") {
		if country, ok := parseCountryRow(row); ok {
			response.Countries = append(response.Countries, country)
		}
	}

	if len(response.Countries) > 0 {
		_ = r.cache.Store(ctx, cacheKey, response.Countries, dictionaryCacheTTL)
	}

	return response, nil
}

type regionsRequest struct {
	session       *session
	cache         *caching.Cacher
	params        schema.RegionsRequestParams
	configuration schema.SolvexConfiguration
	logger        *zerolog.Logger
	slowLogger    slowlog.Logger
}

func (r *regionsRequest) Execute(ctx context.Context, httpTransport http.RoundTripper) (schema.RegionsResponse, error) {
	response := schema.RegionsResponse{
		Regions: []schema.Region{},
	}

	requestsBucket := schema.NewSupplierRequestsBucket()
	errorsBucket := schema.NewErrorsBucket()

	response.SupplierRequests = requestsBucket.SupplierRequests()
	response.Errors = errorsBucket.Errors()

	cacheKey := dictionaryCacheKey(r.configuration, "regions", fmt.Sprint(r.params.CountryID))
	if r.cache.Fetch(ctx, cacheKey, &response.Regions) {
		return response, nil
	}

	client := newClient(httpTransport, r.params.Timeouts.Default, r.logger, &requestsBucket)

	r.slowLogger.Start("solvex:regions:execute")
	result, err := r.session.invoke(ctx, client, schema.Dictionary, "GetRegions", func(token string) megatec.Params {
		return megatec.Params{
			{Name: "guid", Value: token},
			{Name: "countryKey", Value: r.params.CountryID},
		}
	})
	r.slowLogger.Stop("solvex:regions:execute")

	if err != nil {
		errorsBucket.AddError(asSupplierError(err))
		return response, nil
	}

	for _, row := range megatec.Records(result, "Region") {
		if region, ok := parseRegionRow(row); ok {
			response.Regions = append(response.Regions, region)
		}
	}

	if len(response.Regions) > 0 {
		_ = r.cache.Store(ctx, cacheKey, response.Regions, dictionaryCacheTTL)
	}

	return response, nil
}

type citiesRequest struct {
	session       *session
	cache         *caching.Cacher
	params        schema.CitiesRequestParams
	configuration schema.SolvexConfiguration
	logger        *zerolog.Logger
	slowLogger    slowlog.Logger
}

func (r *citiesRequest) regionKey() int {
	if r.params.RegionID == nil {
		return anyRegion
	}
	return *r.params.RegionID
}

func (r *citiesRequest) Execute(ctx context.Context, httpTransport http.RoundTripper) (schema.CitiesResponse, error) {
	response := schema.CitiesResponse{
		Cities: []schema.City{},
	}

	requestsBucket := schema.NewSupplierRequestsBucket()
	errorsBucket := schema.NewErrorsBucket()

	response.SupplierRequests = requestsBucket.SupplierRequests()
	response.Errors = errorsBucket.Errors()

	cacheKey := dictionaryCacheKey(r.configuration, "cities", fmt.Sprintf("%d:%d", r.params.CountryID, r.regionKey()))
	if r.cache.Fetch(ctx, cacheKey, &response.Cities) {
		return response, nil
	}

	client := newClient(httpTransport, r.params.Timeouts.Default, r.logger, &requestsBucket)

	r.slowLogger.Start("solvex:cities:execute")
	result, err := r.session.invoke(ctx, client, schema.Dictionary, "GetCities", func(token string) megatec.Params {
		return megatec.Params{
			{Name: "guid", Value: token},
			{Name: "countryKey", Value: r.params.CountryID},
			{Name: "regionKey", Value: r.regionKey()},
		}
	})
	r.slowLogger.Stop("solvex:cities:execute")

	if err != nil {
		errorsBucket.AddError(asSupplierError(err))
		return response, nil
	}

	for _, row := range megatec.Records(result, "City") {
		if city, ok := parseCityRow(row); ok {
			response.Cities = append(response.Cities, city)
		}
	}

	if len(response.Cities) > 0 {
		_ = r.cache.Store(ctx, cacheKey, response.Cities, dictionaryCacheTTL)
	}

	return response, nil
}

type hotelsRequest struct {
	session       *session
	params        schema.HotelsRequestParams
	configuration schema.SolvexConfiguration
	logger        *zerolog.Logger
	slowLogger    slowlog.Logger
}

func (r *hotelsRequest) Execute(ctx context.Context, httpTransport http.RoundTripper) (schema.HotelsResponse, error) {
	response := schema.HotelsResponse{
		Hotels: []schema.HotelSummary{},
	}

	requestsBucket := schema.NewSupplierRequestsBucket()
	errorsBucket := schema.NewErrorsBucket()

	response.SupplierRequests = requestsBucket.SupplierRequests()
	response.Errors = errorsBucket.Errors()

	client := newClient(httpTransport, r.params.Timeouts.Default, r.logger, &requestsBucket)

	r.slowLogger.Start("solvex:hotels:execute")
	result, err := r.session.invoke(ctx, client, schema.Dictionary, "GetHotels", func(token string) megatec.Params {
		return megatec.Params{
			{Name: "guid", Value: token},
			{Name: "cityKey", Value: r.params.CityID},
		}
	})
	r.slowLogger.Stop("solvex:hotels:execute")

	if err != nil {
		errorsBucket.AddError(asSupplierError(err))
		return response, nil
	}

	for _, row := range megatec.Records(result, "Hotel") {
		summary, mapErr := mapping.Summary(row)
		if mapErr != nil {
			errorsBucket.AddError(schema.NewSupplierError(mapErr.Error()))
			continue
		}

		if summary.CityID == 0 {
			summary.CityID = r.params.CityID
		}

		response.Hotels = append(response.Hotels, summary)
	}

	return response, nil
}

func parseCountryRow(row map[string]any) (schema.Country, bool) {
	id, ok := megatec.FirstInt(row, "ID", "CountryKey", "Key")
	if !ok {
		return schema.Country{}, false
	}

	return schema.Country{
		ID:      id,
		Name:    megatec.FirstString(row, "Name"),
		NameLat: megatec.FirstString(row, "NameLat"),
		Code:    megatec.FirstString(row, "Code"),
	}, true
}

func parseRegionRow(row map[string]any) (schema.Region, bool) {
	id, ok := megatec.FirstInt(row, "ID", "RegionKey", "Key")
	if !ok {
		return schema.Region{}, false
	}

	return schema.Region{
		ID:      id,
		Name:    megatec.FirstString(row, "Name"),
		NameLat: megatec.FirstString(row, "NameLat"),
	}, true
}

func parseCityRow(row map[string]any) (schema.City, bool) {
	id, ok := megatec.FirstInt(row, "ID", "CityKey", "Key")
	if !ok {
		return schema.City{}, false
	}

	countryID, _ := megatec.FirstInt(row, "CountryID", "CountryKey")
	regionID, _ := megatec.FirstInt(row, "RegionID", "RegionKey")

	return schema.City{
		ID:        id,
		Name:      megatec.FirstString(row, "Name"),
		NameLat:   megatec.FirstString(row, "NameLat"),
		CountryID: countryID,
		RegionID:  regionID,
	}, true
}

func dictionaryCacheKey(configuration schema.SolvexConfiguration, kind string, suffix string) string {
	key := fmt.Sprintf("solvex-dictionary:%s:%s:%s", kind, configuration.SupplierApiUrl, configuration.Login)
	if suffix != "" {
		key += ":" + suffix
	}
	return key
}
