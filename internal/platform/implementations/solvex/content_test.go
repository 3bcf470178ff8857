package solvex_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/storage/memory"
)

func hotelContentParams(t *testing.T, url string) schema.HotelContentRequestParams {
	return schema.HotelContentRequestParams{
		HotelID:       481,
		Configuration: requestConfiguration(t, defaultConfiguration(url)),
		Timeouts:      defaultTimeouts(),
	}
}

func TestGetHotelContent(t *testing.T) {
	log := zerolog.Nop()

	server := newSoapServer(t, func(method string, body string) (int, string) {
		assert.Contains(t, body, "<hotelCode>481</hotelCode>")

		switch method {
		case "GetHotelDescription":
			return http.StatusOK, soapResult("GetHotelDescription",
				"<Description>Seafront resort with two pools.</Description>")
		case "GetHotelImages":
			return http.StatusOK, soapResult("GetHotelImages", `
				<NewDataSet>
					<Image><Url>https://img.example/a.jpg</Url><ImageName>Pool</ImageName></Image>
					<Image><Url>https://img.example/a.jpg</Url></Image>
					<Image><Url>https://img.example/b.jpg</Url></Image>
					<Image><ImageName>broken, no url</ImageName></Image>
				</NewDataSet>`)
		}

		return http.StatusNotFound, ""
	})

	redisClient, _ := redismock.NewClientMock()
	service := solvex.New(redisClient, memory.New())

	response, err := service.GetHotelContent(context.Background(), hotelContentParams(t, server.URL), &log)
	require.NoError(t, err)

	assert.Empty(t, *response.Errors)
	assert.Equal(t, "Seafront resort with two pools.", response.Description)

	require.Len(t, response.Images, 2)
	assert.Equal(t, schema.HotelImage{URL: "https://img.example/a.jpg", AltText: "Pool", IsMain: true}, response.Images[0])
	assert.Equal(t, schema.HotelImage{URL: "https://img.example/b.jpg", IsMain: false}, response.Images[1])
}

func TestGetHotelContentPartialFailure(t *testing.T) {
	log := zerolog.Nop()

	server := newSoapServer(t, func(method string, body string) (int, string) {
		switch method {
		case "GetHotelDescription":
			return http.StatusInternalServerError, ""
		case "GetHotelImages":
			return http.StatusOK, soapResult("GetHotelImages",
				"<NewDataSet><Image><Url>https://img.example/a.jpg</Url></Image></NewDataSet>")
		}
		return http.StatusNotFound, ""
	})

	redisClient, _ := redismock.NewClientMock()
	service := solvex.New(redisClient, memory.New())

	response, err := service.GetHotelContent(context.Background(), hotelContentParams(t, server.URL), &log)
	require.NoError(t, err)

	// the failed description call is reported but the images survive
	require.Len(t, *response.Errors, 1)
	assert.Equal(t, schema.SupplierError, (*response.Errors)[0].Code)
	assert.Empty(t, response.Description)
	require.Len(t, response.Images, 1)
	assert.True(t, response.Images[0].IsMain)
}
