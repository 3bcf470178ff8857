package platform

import (
	"fmt"
	"net/http"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/errors"
	"bitbucket.org/olympichub/supplier-hub/internal/platform/factory"
	"bitbucket.org/olympichub/supplier-hub/internal/platform/interfaces"
	platformMiddleware "bitbucket.org/olympichub/supplier-hub/internal/platform/middleware"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/middleware"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/redisfactory"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/slowlog"
	"bitbucket.org/olympichub/supplier-hub/internal/trafficlight/grouping"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func RegisterRoutes(
	router *gin.Engine,
	factory *factory.Factory,
	redisFactory *redisfactory.Factory,
) {
	group := router.Group(
		"/:platform",
		platformMiddleware.PreparePlatform(factory),
		platformMiddleware.TapLogger,
	)

	group.POST("/countries",
		platformMiddleware.PrepareParams(schema.CountriesRequestParams{}),
		func(ctx *gin.Context) {
			platformWithCountries, ok := ctx.MustGet(platformMiddleware.PlatformKey).(interfaces.WithCountries)
			if !ok {
				middleware.HandleError(ctx, http.StatusBadRequest, "Countries not implemented", errors.ErrorNotImplemented)
				return
			}

			params, ok := ctx.MustGet(platformMiddleware.ParamsKey).(*schema.CountriesRequestParams)
			if !ok {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
				return
			}

			logger := ctx.MustGet("logger").(*zerolog.Logger)

			response, err := platformWithCountries.GetCountries(ctx.Request.Context(), *params, logger)
			if err != nil {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Failed requesting countries", nil)
				return
			}

			ctx.JSON(http.StatusOK, response)
		},
	)

	group.POST("/regions",
		platformMiddleware.PrepareParams(schema.RegionsRequestParams{}),
		func(ctx *gin.Context) {
			platformWithRegions, ok := ctx.MustGet(platformMiddleware.PlatformKey).(interfaces.WithRegions)
			if !ok {
				middleware.HandleError(ctx, http.StatusBadRequest, "Regions not implemented", errors.ErrorNotImplemented)
				return
			}

			params, ok := ctx.MustGet(platformMiddleware.ParamsKey).(*schema.RegionsRequestParams)
			if !ok {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
				return
			}

			logger := ctx.MustGet("logger").(*zerolog.Logger)

			response, err := platformWithRegions.GetRegions(ctx.Request.Context(), *params, logger)
			if err != nil {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Failed requesting regions", nil)
				return
			}

			ctx.JSON(http.StatusOK, response)
		},
	)

	group.POST("/cities",
		platformMiddleware.PrepareParams(schema.CitiesRequestParams{}),
		func(ctx *gin.Context) {
			platformWithCities, ok := ctx.MustGet(platformMiddleware.PlatformKey).(interfaces.WithCities)
			if !ok {
				middleware.HandleError(ctx, http.StatusBadRequest, "Cities not implemented", errors.ErrorNotImplemented)
				return
			}

			params, ok := ctx.MustGet(platformMiddleware.ParamsKey).(*schema.CitiesRequestParams)
			if !ok {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
				return
			}

			logger := ctx.MustGet("logger").(*zerolog.Logger)

			response, err := platformWithCities.GetCities(ctx.Request.Context(), *params, logger)
			if err != nil {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Failed requesting cities", nil)
				return
			}

			ctx.JSON(http.StatusOK, response)
		},
	)

	group.POST("/hotels",
		platformMiddleware.PrepareParams(schema.HotelsRequestParams{}),
		func(ctx *gin.Context) {
			platformWithHotels, ok := ctx.MustGet(platformMiddleware.PlatformKey).(interfaces.WithHotels)
			if !ok {
				middleware.HandleError(ctx, http.StatusBadRequest, "Hotels not implemented", errors.ErrorNotImplemented)
				return
			}

			params, ok := ctx.MustGet(platformMiddleware.ParamsKey).(*schema.HotelsRequestParams)
			if !ok {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
				return
			}

			logger := ctx.MustGet("logger").(*zerolog.Logger)

			response, err := platformWithHotels.GetHotels(ctx.Request.Context(), *params, logger)
			if err != nil {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Failed requesting hotels", nil)
				return
			}

			ctx.JSON(http.StatusOK, response)
		},
	)

	group.POST("/hotel-content",
		platformMiddleware.PrepareParams(schema.HotelContentRequestParams{}),
		func(ctx *gin.Context) {
			platformWithContent, ok := ctx.MustGet(platformMiddleware.PlatformKey).(interfaces.WithHotelContent)
			if !ok {
				middleware.HandleError(ctx, http.StatusBadRequest, "Hotel content not implemented", errors.ErrorNotImplemented)
				return
			}

			params, ok := ctx.MustGet(platformMiddleware.ParamsKey).(*schema.HotelContentRequestParams)
			if !ok {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
				return
			}

			logger := ctx.MustGet("logger").(*zerolog.Logger)

			response, err := platformWithContent.GetHotelContent(ctx.Request.Context(), *params, logger)
			if err != nil {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Failed requesting hotel content", nil)
				return
			}

			ctx.JSON(http.StatusOK, response)
		},
	)

	group.POST("/search",
		platformMiddleware.PrepareParams(schema.SearchRequestParams{}),
		grouping.Middleware(grouping.MiddlewareOptions{
			CreateManager: grouping.NewRequestManager,
			RedisClient:   redisFactory.TrafficlightClient(),
		}),
		func(ctx *gin.Context) {
			logger := ctx.MustGet("logger").(*zerolog.Logger)

			slowLog := slowlog.CreateLogger(logger)
			key := fmt.Sprintf("%s:search", ctx.Params.ByName("platform"))
			slowLog.Start(key)

			platformWithSearch, ok := ctx.MustGet(platformMiddleware.PlatformKey).(interfaces.WithSearchHotels)
			if !ok {
				middleware.HandleError(ctx, http.StatusBadRequest, "Search not implemented", errors.ErrorNotImplemented)
				return
			}

			params, ok := ctx.MustGet(platformMiddleware.ParamsKey).(*schema.SearchRequestParams)
			if !ok {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
				return
			}

			response, err := platformWithSearch.SearchHotels(ctx.Request.Context(), *params, logger)
			if err != nil {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Failed requesting search", nil)
				return
			}

			ctx.JSON(http.StatusOK, response)

			slowLog.Stop(key)
		},
	)

	group.POST("/catalog-sync",
		platformMiddleware.PrepareParams(schema.CatalogSyncRequestParams{}),
		func(ctx *gin.Context) {
			logger := ctx.MustGet("logger").(*zerolog.Logger)

			slowLog := slowlog.CreateLogger(logger)
			key := fmt.Sprintf("%s:catalog-sync", ctx.Params.ByName("platform"))
			slowLog.Start(key)

			platformWithCatalogSync, ok := ctx.MustGet(platformMiddleware.PlatformKey).(interfaces.WithCatalogSync)
			if !ok {
				middleware.HandleError(ctx, http.StatusBadRequest, "Catalog sync not implemented", errors.ErrorNotImplemented)
				return
			}

			params, ok := ctx.MustGet(platformMiddleware.ParamsKey).(*schema.CatalogSyncRequestParams)
			if !ok {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
				return
			}

			response, err := platformWithCatalogSync.SyncCatalog(ctx.Request.Context(), *params, logger)
			if err != nil {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Failed running catalog sync", nil)
				return
			}

			ctx.JSON(http.StatusOK, response)

			slowLog.Stop(key)
		},
	)
}
