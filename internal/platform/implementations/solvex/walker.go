package solvex

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex/mapping"
	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex/megatec"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	// At most this many hotel enrichment calls in flight at once. The
	// upstream has no documented rate limit but starts returning HTTP 500
	// under burst load well above this.
	defaultEnrichmentConcurrency = 10

	// Pause between enrichment call starts.
	defaultInterCallDelay = 300 * time.Millisecond
)

// walker performs one full catalog pass: countries, regions, cities, hotels,
// then per-hotel description and images. Subtree failures skip the subtree
// and are logged in the manifest; only cancellation and a dead countries
// dictionary abort the whole walk.
type walker struct {
	session       *session
	configuration schema.SolvexConfiguration
	store         storage.Store
	client        *http.Client
	logger        *zerolog.Logger

	manifest *schema.WalkManifest
	inFlight *semaphore.Weighted
	pace     *rate.Limiter
}

func newWalker(
	s *session,
	configuration schema.SolvexConfiguration,
	store storage.Store,
	client *http.Client,
	logger *zerolog.Logger,
) *walker {
	concurrency := defaultEnrichmentConcurrency
	if configuration.MaxConcurrentHotelEnrichment != nil && *configuration.MaxConcurrentHotelEnrichment > 0 {
		concurrency = *configuration.MaxConcurrentHotelEnrichment
	}

	delay := defaultInterCallDelay
	if configuration.InterBatchDelayMs != nil && *configuration.InterBatchDelayMs >= 0 {
		delay = time.Duration(*configuration.InterBatchDelayMs) * time.Millisecond
	}

	pace := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		pace = rate.NewLimiter(rate.Every(delay), 1)
	}

	return &walker{
		session:       s,
		configuration: configuration,
		store:         store,
		client:        client,
		logger:        logger,
		manifest:      schema.NewWalkManifest(uuid.NewString()),
		inFlight:      semaphore.NewWeighted(int64(concurrency)),
		pace:          pace,
	}
}

// Walk runs the pass. The returned manifest is valid even on error: it
// reflects everything processed up to the abort point.
func (w *walker) Walk(ctx context.Context) (*schema.WalkManifest, error) {
	countries, err := w.countries(ctx)
	if err != nil {
		return w.manifest, fmt.Errorf("countries dictionary: %w", err)
	}

	for _, country := range countries {
		if !w.wantCountry(country.ID) {
			continue
		}

		if err := ctx.Err(); err != nil {
			return w.manifest, err
		}

		w.manifest.Attempt(schema.LevelCountry)

		if err := w.walkCountry(ctx, country); err != nil {
			if ctx.Err() != nil {
				return w.manifest, ctx.Err()
			}
			w.manifest.Skip(schema.LevelCountry, country.ID, country.Name, err.Error())
			continue
		}

		w.manifest.Succeed(schema.LevelCountry)
	}

	return w.manifest, nil
}

func (w *walker) wantCountry(id int) bool {
	if len(w.configuration.TargetCountryIds) == 0 {
		return true
	}

	for _, target := range w.configuration.TargetCountryIds {
		if target == id {
			return true
		}
	}

	return false
}

func (w *walker) walkCountry(ctx context.Context, country schema.Country) error {
	cities, err := w.citiesOf(ctx, country)
	if err != nil {
		return err
	}

	w.logger.Info().
		Str("label", "catalog-walk").
		Str("country", country.Name).
		Int("cities", len(cities)).
		Msg("walking country")

	for _, city := range cities {
		if err := ctx.Err(); err != nil {
			return err
		}

		w.manifest.Attempt(schema.LevelCity)

		if err := w.walkCity(ctx, country, city); err != nil {
			if ctx.Err() != nil {
				return err
			}
			w.manifest.Skip(schema.LevelCity, city.ID, city.Name, err.Error())
			continue
		}

		w.manifest.Succeed(schema.LevelCity)
	}

	return nil
}

// citiesOf resolves the country's cities through its regions. Countries
// without a region layer (and countries whose regions call failed) fall back
// to a direct lookup with regionKey -1.
func (w *walker) citiesOf(ctx context.Context, country schema.Country) ([]schema.City, error) {
	regions, err := w.regions(ctx, country.ID)
	if err != nil {
		w.manifest.Fail(schema.LevelRegion, country.ID, country.Name, err.Error())
		regions = nil
	}

	if len(regions) == 0 {
		return w.cities(ctx, country.ID, anyRegion)
	}

	cities := []schema.City{}
	for _, region := range regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		regionCities, err := w.cities(ctx, country.ID, region.ID)
		if err != nil {
			w.manifest.Fail(schema.LevelRegion, region.ID, region.Name, err.Error())
			continue
		}

		cities = append(cities, regionCities...)
	}

	return cities, nil
}

func (w *walker) walkCity(ctx context.Context, country schema.Country, city schema.City) error {
	hotels, err := w.hotels(ctx, city.ID)
	if err != nil {
		return err
	}

	recordContext := mapping.RecordContext{
		CityName:    city.Name,
		CountryName: country.Name,
	}

	var mu sync.Mutex
	records := make([]schema.HotelRecord, 0, len(hotels))

	var wg sync.WaitGroup
	for _, hotel := range hotels {
		w.manifest.Attempt(schema.LevelHotel)

		if err := w.inFlight.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}

		wg.Add(1)
		go func(hotel schema.HotelSummary) {
			defer wg.Done()
			defer w.inFlight.Release(1)

			record := w.enrichHotel(ctx, hotel, recordContext)

			mu.Lock()
			records = append(records, record)
			mu.Unlock()
		}(hotel)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	if len(records) > 0 {
		if err := w.store.UpsertHotels(ctx, records); err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
		w.manifest.AddRecords(len(records))
	}

	return nil
}

// enrichHotel fetches description and images for one hotel. Either call
// failing is non-fatal: the record is emitted with whatever was obtained and
// the failure lands in the manifest.
func (w *walker) enrichHotel(ctx context.Context, hotel schema.HotelSummary, recordContext mapping.RecordContext) schema.HotelRecord {
	description, images := "", []schema.HotelImage(nil)

	if err := w.pace.Wait(ctx); err == nil {
		var descriptionErr error
		description, descriptionErr = fetchDescription(ctx, w.client, w.session, hotel.ID)
		if descriptionErr != nil {
			w.manifest.Fail(schema.LevelHotel, hotel.ID, hotel.Name, "description: "+descriptionErr.Error())
		}
	}

	if err := w.pace.Wait(ctx); err == nil {
		var imagesErr error
		images, imagesErr = fetchImages(ctx, w.client, w.session, hotel.ID)
		if imagesErr != nil {
			w.manifest.Fail(schema.LevelHotel, hotel.ID, hotel.Name, "images: "+imagesErr.Error())
		}
	}

	w.manifest.Succeed(schema.LevelHotel)

	return mapping.Record(hotel, recordContext, description, images)
}

func (w *walker) countries(ctx context.Context) ([]schema.Country, error) {
	result, err := w.session.invoke(ctx, w.client, schema.CatalogSync, "GetCountries", func(token string) megatec.Params {
		return megatec.Params{
			{Name: "guid", Value: token},
		}
	})
	if err != nil {
		return nil, err
	}

	countries := []schema.Country{}
	for _, row := range megatec.Records(result, "Country") {
		if country, ok := parseCountryRow(row); ok {
			countries = append(countries, country)
		}
	}

	return countries, nil
}

func (w *walker) regions(ctx context.Context, countryKey int) ([]schema.Region, error) {
	result, err := w.session.invoke(ctx, w.client, schema.CatalogSync, "GetRegions", func(token string) megatec.Params {
		return megatec.Params{
			{Name: "guid", Value: token},
			{Name: "countryKey", Value: countryKey},
		}
	})
	if err != nil {
		return nil, err
	}

	regions := []schema.Region{}
	for _, row := range megatec.Records(result, "Region") {
		if region, ok := parseRegionRow(row); ok {
			regions = append(regions, region)
		}
	}

	return regions, nil
}

func (w *walker) cities(ctx context.Context, countryKey int, regionKey int) ([]schema.City, error) {
	result, err := w.session.invoke(ctx, w.client, schema.CatalogSync, "GetCities", func(token string) megatec.Params {
		return megatec.Params{
			{Name: "guid", Value: token},
			{Name: "countryKey", Value: countryKey},
			{Name: "regionKey", Value: regionKey},
		}
	})
	if err != nil {
		return nil, err
	}

	cities := []schema.City{}
	for _, row := range megatec.Records(result, "City") {
		if city, ok := parseCityRow(row); ok {
			cities = append(cities, city)
		}
	}

	return cities, nil
}

func (w *walker) hotels(ctx context.Context, cityKey int) ([]schema.HotelSummary, error) {
	result, err := w.session.invoke(ctx, w.client, schema.CatalogSync, "GetHotels", func(token string) megatec.Params {
		return megatec.Params{
			{Name: "guid", Value: token},
			{Name: "cityKey", Value: cityKey},
		}
	})
	if err != nil {
		return nil, err
	}

	hotels := []schema.HotelSummary{}
	for _, row := range megatec.Records(result, "Hotel") {
		summary, mapErr := mapping.Summary(row)
		if mapErr != nil {
			w.manifest.Fail(schema.LevelHotel, 0, megatec.FirstString(row, "Name", "HotelName"), mapErr.Error())
			continue
		}

		if summary.CityID == 0 {
			summary.CityID = cityKey
		}

		hotels = append(hotels, summary)
	}

	return hotels, nil
}
