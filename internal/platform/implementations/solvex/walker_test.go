package solvex_test

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/storage/memory"
)

func catalogSyncParams(t *testing.T, configuration schema.SolvexConfiguration) schema.CatalogSyncRequestParams {
	return schema.CatalogSyncRequestParams{
		Configuration: requestConfiguration(t, configuration),
		Timeouts:      defaultTimeouts(),
	}
}

func bodyInt(body string, tag string) int {
	match := regexp.MustCompile(`<` + tag + `>(-?\d+)</` + tag + `>`).FindStringSubmatch(body)
	if match == nil {
		return 0
	}
	value, _ := strconv.Atoi(match[1])
	return value
}

func emptyDataSet(method string) string {
	return soapResult(method, "<NewDataSet></NewDataSet>")
}

// catalogFixture answers the walk for two countries: country 1 has no region
// layer and one empty city, country 2 has 2 regions with 2 cities of 2
// hotels each.
func catalogFixture(method string, body string) (int, string) {
	switch method {
	case "GetCountries":
		return http.StatusOK, soapResult("GetCountries", `
			<NewDataSet>
				<Country><ID>1</ID><Name>Primorie</Name></Country>
				<Country><ID>2</ID><Name>Pirin</Name></Country>
			</NewDataSet>`)

	case "GetRegions":
		if bodyInt(body, "countryKey") == 2 {
			return http.StatusOK, soapResult("GetRegions", `
				<NewDataSet>
					<Region><ID>21</ID><Name>North</Name></Region>
					<Region><ID>22</ID><Name>South</Name></Region>
				</NewDataSet>`)
		}
		return http.StatusOK, emptyDataSet("GetRegions")

	case "GetCities":
		country := bodyInt(body, "countryKey")
		region := bodyInt(body, "regionKey")

		if country == 1 && region == -1 {
			return http.StatusOK, soapResult("GetCities", `
				<NewDataSet>
					<City><ID>101</ID><Name>Ahtopol</Name><CountryID>1</CountryID></City>
				</NewDataSet>`)
		}

		base := 0
		switch region {
		case 21:
			base = 200
		case 22:
			base = 202
		}

		return http.StatusOK, soapResult("GetCities", `
			<NewDataSet>
				<City><ID>`+strconv.Itoa(base+1)+`</ID><Name>City `+strconv.Itoa(base+1)+`</Name></City>
				<City><ID>`+strconv.Itoa(base+2)+`</ID><Name>City `+strconv.Itoa(base+2)+`</Name></City>
			</NewDataSet>`)

	case "GetHotels":
		city := bodyInt(body, "cityKey")
		if city == 101 {
			return http.StatusOK, emptyDataSet("GetHotels")
		}

		first := strconv.Itoa(city*10 + 1)
		second := strconv.Itoa(city*10 + 2)
		return http.StatusOK, soapResult("GetHotels", `
			<NewDataSet>
				<Hotel><ID>`+first+`</ID><Name>Hotel `+first+` 4*</Name></Hotel>
				<Hotel><ID>`+second+`</ID><Name>Hotel `+second+`</Name></Hotel>
			</NewDataSet>`)

	case "GetHotelDescription":
		return http.StatusOK, soapResult("GetHotelDescription",
			"<Description>Cosy 3* place near the lift.</Description>")

	case "GetHotelImages":
		return http.StatusOK, soapResult("GetHotelImages", `
			<NewDataSet>
				<Image><Url>https://img.example/a.jpg</Url><ImageName>Pool</ImageName></Image>
				<Image><Url>https://img.example/a.jpg</Url></Image>
				<Image><Url>https://img.example/b.jpg</Url></Image>
			</NewDataSet>`)
	}

	return http.StatusNotFound, ""
}

func TestCatalogWalkScenario(t *testing.T) {
	log := zerolog.Nop()

	server := newSoapServer(t, catalogFixture)

	configuration := defaultConfiguration(server.URL)
	noDelay := 0
	configuration.InterBatchDelayMs = &noDelay

	redisClient, _ := redismock.NewClientMock()
	store := memory.New()
	service := solvex.New(redisClient, store)

	response, err := service.SyncCatalog(context.Background(), catalogSyncParams(t, configuration), &log)
	require.NoError(t, err)
	assert.Empty(t, *response.Errors)

	manifest := response.Manifest
	require.NotNil(t, manifest)
	assert.NotEmpty(t, manifest.RunID)

	assert.Equal(t, schema.WalkUnitCount{Attempted: 2, Succeeded: 2}, manifest.Countries)
	assert.Equal(t, schema.WalkUnitCount{Attempted: 5, Succeeded: 5}, manifest.Cities)
	assert.Equal(t, schema.WalkUnitCount{Attempted: 8, Succeeded: 8}, manifest.Hotels)
	assert.Equal(t, 8, manifest.Records)
	assert.Empty(t, manifest.Failures)

	require.Equal(t, 8, store.Len())
	for _, id := range store.IDs() {
		assert.True(t, strings.HasPrefix(id, "solvex_"), "id %q not prefixed", id)
	}

	record, ok, err := store.Hotel(context.Background(), "solvex_2011")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2011, record.SupplierKey)
	assert.Equal(t, "Hotel 2011 4*", record.Name)
	assert.Equal(t, 4, record.StarRating)
	assert.Equal(t, "City 201", record.CityName)
	assert.Equal(t, "Pirin", record.CountryName)
	assert.Equal(t, "Cosy 3* place near the lift.", record.Description)
	require.Len(t, record.Images, 2)
	assert.True(t, record.Images[0].IsMain)
	assert.False(t, record.Images[1].IsMain)

	// the name carries no star token, the description's 3* fills in
	plain, ok, err := store.Hotel(context.Background(), "solvex_2012")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, plain.StarRating)
}

func TestCatalogWalkIsIdempotent(t *testing.T) {
	log := zerolog.Nop()

	server := newSoapServer(t, catalogFixture)

	configuration := defaultConfiguration(server.URL)
	noDelay := 0
	configuration.InterBatchDelayMs = &noDelay

	redisClient, _ := redismock.NewClientMock()
	store := memory.New()
	service := solvex.New(redisClient, store)

	first, err := service.SyncCatalog(context.Background(), catalogSyncParams(t, configuration), &log)
	require.NoError(t, err)
	require.Equal(t, 8, store.Len())

	before, _, _ := store.Hotel(context.Background(), "solvex_2011")

	second, err := service.SyncCatalog(context.Background(), catalogSyncParams(t, configuration), &log)
	require.NoError(t, err)

	assert.Equal(t, 8, store.Len())
	after, _, _ := store.Hotel(context.Background(), "solvex_2011")
	assert.Equal(t, before, after)

	assert.Equal(t, first.Manifest.Records, second.Manifest.Records)
}

func TestCatalogWalkTargetCountryFilter(t *testing.T) {
	log := zerolog.Nop()

	server := newSoapServer(t, catalogFixture)

	configuration := defaultConfiguration(server.URL)
	noDelay := 0
	configuration.InterBatchDelayMs = &noDelay
	configuration.TargetCountryIds = []int{2}

	redisClient, _ := redismock.NewClientMock()
	store := memory.New()
	service := solvex.New(redisClient, store)

	response, err := service.SyncCatalog(context.Background(), catalogSyncParams(t, configuration), &log)
	require.NoError(t, err)

	assert.Equal(t, schema.WalkUnitCount{Attempted: 1, Succeeded: 1}, response.Manifest.Countries)
	assert.Equal(t, schema.WalkUnitCount{Attempted: 4, Succeeded: 4}, response.Manifest.Cities)
	assert.Equal(t, 8, store.Len())
}

func TestCatalogWalkPartialHotelContent(t *testing.T) {
	log := zerolog.Nop()

	fixture := func(method string, body string) (int, string) {
		switch method {
		case "GetCountries":
			return http.StatusOK, soapResult("GetCountries",
				"<NewDataSet><Country><ID>1</ID><Name>Primorie</Name></Country></NewDataSet>")
		case "GetRegions":
			return http.StatusOK, emptyDataSet("GetRegions")
		case "GetCities":
			return http.StatusOK, soapResult("GetCities",
				"<NewDataSet><City><ID>7</ID><Name>Varna</Name></City></NewDataSet>")
		case "GetHotels":
			return http.StatusOK, soapResult("GetHotels", `
				<NewDataSet>
					<Hotel><ID>42</ID><Name>Lilia</Name></Hotel>
					<Hotel><ID>43</ID><Name>Panorama 4*</Name></Hotel>
				</NewDataSet>`)
		case "GetHotelDescription":
			return http.StatusOK, soapResult("GetHotelDescription",
				"<Description>Seafront guest house.</Description>")
		case "GetHotelImages":
			if bodyInt(body, "hotelCode") == 42 {
				return http.StatusInternalServerError, ""
			}
			return http.StatusOK, soapResult("GetHotelImages",
				"<NewDataSet><Image><Url>https://img.example/43.jpg</Url></Image></NewDataSet>")
		}
		return http.StatusNotFound, ""
	}

	server := newSoapServer(t, fixture)

	configuration := defaultConfiguration(server.URL)
	noDelay := 0
	configuration.InterBatchDelayMs = &noDelay

	redisClient, _ := redismock.NewClientMock()
	store := memory.New()
	service := solvex.New(redisClient, store)

	response, err := service.SyncCatalog(context.Background(), catalogSyncParams(t, configuration), &log)
	require.NoError(t, err)

	manifest := response.Manifest
	assert.Equal(t, schema.WalkUnitCount{Attempted: 2, Succeeded: 2}, manifest.Hotels)
	require.Len(t, manifest.Failures, 1)
	assert.Equal(t, schema.LevelHotel, manifest.Failures[0].Level)
	assert.Equal(t, 42, manifest.Failures[0].Key)
	assert.Contains(t, manifest.Failures[0].Message, "images")

	// the failed images call must not block the record or its description
	partial, ok, err := store.Hotel(context.Background(), "solvex_42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Seafront guest house.", partial.Description)
	assert.Empty(t, partial.Images)
	// star rating stays unknown, never defaulted
	assert.Equal(t, 0, partial.StarRating)

	full, ok, err := store.Hotel(context.Background(), "solvex_43")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, full.Images, 1)
	assert.True(t, full.Images[0].IsMain)
}

func TestCatalogWalkCancelledContext(t *testing.T) {
	log := zerolog.Nop()

	server := newSoapServer(t, catalogFixture)

	configuration := defaultConfiguration(server.URL)

	redisClient, _ := redismock.NewClientMock()
	store := memory.New()
	service := solvex.New(redisClient, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	response, err := service.SyncCatalog(ctx, catalogSyncParams(t, configuration), &log)
	require.NoError(t, err)

	require.NotEmpty(t, *response.Errors)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, response.Manifest.Records)
}
