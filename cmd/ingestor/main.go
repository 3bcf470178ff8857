package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/storage"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/converting"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/logger"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/redisfactory"
	"github.com/joho/godotenv"
)

type config struct {
	SupplierApiUrl    string
	Login             string
	Password          string
	TargetCountryIds  []int
	Workers           int
	InterBatchDelayMs int
	CallTimeoutMs     int
}

func load() config {
	atoi := func(key string, def int) int {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}

	var countryIds []int
	for _, raw := range strings.Split(os.Getenv("SOLVEX_TARGET_COUNTRY_IDS"), ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			countryIds = append(countryIds, id)
		}
	}

	return config{
		SupplierApiUrl:    os.Getenv("SOLVEX_API_URL"),
		Login:             os.Getenv("SOLVEX_LOGIN"),
		Password:          os.Getenv("SOLVEX_PASSWORD"),
		TargetCountryIds:  countryIds,
		Workers:           atoi("INGEST_WORKERS", 10),
		InterBatchDelayMs: atoi("INGEST_INTER_BATCH_DELAY_MS", 300),
		CallTimeoutMs:     atoi("INGEST_CALL_TIMEOUT_MS", 30000),
	}
}

func main() {
	_ = godotenv.Load(".env")
	log := logger.New(os.Getenv("LOG_LEVEL"))

	cfg := load()
	if cfg.SupplierApiUrl == "" || cfg.Login == "" {
		log.Fatal().Msg("SOLVEX_API_URL and SOLVEX_LOGIN are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.FromEnv(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize catalog store")
	}

	platform := solvex.New(redisfactory.New().ResponsesCacheClient(), store)

	configurationBytes, _ := json.Marshal(schema.SolvexConfiguration{
		Login:            cfg.Login,
		Password:         cfg.Password,
		SupplierApiUrl:   cfg.SupplierApiUrl,
		TargetCountryIds: cfg.TargetCountryIds,

		MaxConcurrentHotelEnrichment: converting.PointerToValue(cfg.Workers),
		InterBatchDelayMs:            converting.PointerToValue(cfg.InterBatchDelayMs),
		CallTimeoutMs:                converting.PointerToValue(cfg.CallTimeoutMs),
	})

	var configuration schema.RequestConfiguration
	_ = configuration.UnmarshalJSON(configurationBytes)

	log.Info().
		Str("url", cfg.SupplierApiUrl).
		Int("workers", cfg.Workers).
		Ints("countries", cfg.TargetCountryIds).
		Msg("Ingestor starting")

	response, err := platform.SyncCatalog(ctx, schema.CatalogSyncRequestParams{
		Configuration: configuration,
		Timeouts:      schema.Timeouts{Default: cfg.CallTimeoutMs},
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Catalog sync failed")
	}

	manifestJson, _ := json.Marshal(response.Manifest)
	log.Info().RawJSON("manifest", manifestJson).Msg("Ingestion completed")

	if response.Errors != nil && len(*response.Errors) > 0 {
		for _, supplierError := range *response.Errors {
			log.Error().
				Str("code", string(supplierError.Code)).
				Msg(supplierError.Message)
		}
		os.Exit(1)
	}
}
