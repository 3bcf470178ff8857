package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/client"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
)

type propertyRow struct {
	ID          string              `json:"id"`
	SupplierKey int                 `json:"supplier_key"`
	Name        string              `json:"name"`
	StarRating  int                 `json:"star_rating"`
	CityID      int                 `json:"city_id"`
	CityName    string              `json:"city_name,omitempty"`
	CountryName string              `json:"country_name,omitempty"`
	Latitude    *float64            `json:"latitude,omitempty"`
	Longitude   *float64            `json:"longitude,omitempty"`
	Description string              `json:"description,omitempty"`
	Images      []schema.HotelImage `json:"images"`
}

type upsertQueryOptions struct {
	OnConflict string `url:"on_conflict"`
}

type selectQueryOptions struct {
	ID     string `url:"id"`
	Select string `url:"select"`
	Limit  int    `url:"limit"`
}

type serviceClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Store struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	logger     *zerolog.Logger
}

// New builds a PostgREST-backed store. The service key signature is verified
// by the upstream, not here; claims are only peeked to surface the key's role
// and expiry at startup.
func New(logger *zerolog.Logger, serviceKey string, optionFuncs ...client.OptionFunc) (*Store, error) {
	options, err := client.NewOptions(optionFuncs...)
	if err != nil {
		return nil, err
	}

	token, _ := jwt.ParseWithClaims(serviceKey, &serviceClaims{}, func(token *jwt.Token) (interface{}, error) {
		return nil, nil
	})
	if token != nil {
		if claims, ok := token.Claims.(*serviceClaims); ok {
			event := logger.Info().Str("role", claims.Role)
			if claims.ExpiresAt != nil {
				event = event.Time("expiresAt", claims.ExpiresAt.Time)
				if claims.ExpiresAt.Before(time.Now()) {
					event = logger.Warn().Str("role", claims.Role).Time("expiresAt", claims.ExpiresAt.Time)
				}
			}
			event.Msg("Supabase service key claims")
		}
	}

	return &Store{
		httpClient: &http.Client{
			Timeout:   options.Timeout(),
			Transport: client.NewOutgoingLoggerRoundTripper(logger, "supabase"),
		},
		baseURL:    options.BaseURL("supabase", ""),
		serviceKey: serviceKey,
		logger:     logger,
	}, nil
}

func (s *Store) authorize(request *http.Request) {
	request.Header.Set("apikey", s.serviceKey)
	request.Header.Set("Authorization", "Bearer "+s.serviceKey)
}

func (s *Store) UpsertHotels(ctx context.Context, records []schema.HotelRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]propertyRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, rowFromRecord(record))
	}

	body, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	v, _ := query.Values(upsertQueryOptions{OnConflict: "id"})

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/rest/v1/properties?%s", s.baseURL, v.Encode()),
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}

	s.authorize(request)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Prefer", "resolution=merge-duplicates")

	response, err := s.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("error upserting hotels: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusMultipleChoices {
		excerpt, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return fmt.Errorf("upsert rejected with status %d: %s", response.StatusCode, string(excerpt))
	}

	return nil
}

func (s *Store) Hotel(ctx context.Context, id string) (schema.HotelRecord, bool, error) {
	v, _ := query.Values(selectQueryOptions{
		ID:     "eq." + id,
		Select: "*",
		Limit:  1,
	})

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/rest/v1/properties?%s", s.baseURL, v.Encode()),
		nil,
	)
	if err != nil {
		return schema.HotelRecord{}, false, err
	}

	s.authorize(request)

	response, err := s.httpClient.Do(request)
	if err != nil {
		return schema.HotelRecord{}, false, fmt.Errorf("error querying hotel: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return schema.HotelRecord{}, false, fmt.Errorf("query rejected with status %d", response.StatusCode)
	}

	var rows []propertyRow
	if err := json.NewDecoder(response.Body).Decode(&rows); err != nil {
		return schema.HotelRecord{}, false, err
	}

	if len(rows) == 0 {
		return schema.HotelRecord{}, false, nil
	}

	return rows[0].record(), true, nil
}

func rowFromRecord(record schema.HotelRecord) propertyRow {
	return propertyRow{
		ID:          record.ID,
		SupplierKey: record.SupplierKey,
		Name:        record.Name,
		StarRating:  record.StarRating,
		CityID:      record.CityID,
		CityName:    record.CityName,
		CountryName: record.CountryName,
		Latitude:    record.Latitude,
		Longitude:   record.Longitude,
		Description: record.Description,
		Images:      record.Images,
	}
}

func (r propertyRow) record() schema.HotelRecord {
	return schema.HotelRecord{
		ID:          r.ID,
		SupplierKey: r.SupplierKey,
		Name:        r.Name,
		StarRating:  r.StarRating,
		CityID:      r.CityID,
		CityName:    r.CityName,
		CountryName: r.CountryName,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Description: r.Description,
		Images:      r.Images,
	}
}
