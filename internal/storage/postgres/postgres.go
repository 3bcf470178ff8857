package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type hotelRow struct {
	bun.BaseModel `bun:"table:hotels,alias:h"`

	ID          string              `bun:"id,pk"`
	SupplierKey int                 `bun:"supplier_key"`
	Name        string              `bun:"name"`
	StarRating  int                 `bun:"star_rating"`
	CityID      int                 `bun:"city_id"`
	CityName    string              `bun:"city_name"`
	CountryName string              `bun:"country_name"`
	Latitude    *float64            `bun:"latitude"`
	Longitude   *float64            `bun:"longitude"`
	Description string              `bun:"description"`
	Images      []schema.HotelImage `bun:"images,type:jsonb"`
}

func rowFromRecord(record schema.HotelRecord) hotelRow {
	return hotelRow{
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

func (r hotelRow) record() schema.HotelRecord {
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

type Store struct {
	db *bun.DB
}

func New(dsn string) (*Store, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// InitSchema creates the hotels table if it doesn't exist
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*hotelRow)(nil)).
		IfNotExists().
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to create hotels table: %w", err)
	}

	return nil
}

func (s *Store) UpsertHotels(ctx context.Context, records []schema.HotelRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]hotelRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, rowFromRecord(record))
	}

	_, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("supplier_key = EXCLUDED.supplier_key").
		Set("name = EXCLUDED.name").
		Set("star_rating = EXCLUDED.star_rating").
		Set("city_id = EXCLUDED.city_id").
		Set("city_name = EXCLUDED.city_name").
		Set("country_name = EXCLUDED.country_name").
		Set("latitude = EXCLUDED.latitude").
		Set("longitude = EXCLUDED.longitude").
		Set("description = EXCLUDED.description").
		Set("images = EXCLUDED.images").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("error upserting hotels: %w", err)
	}

	return nil
}

func (s *Store) Hotel(ctx context.Context, id string) (schema.HotelRecord, bool, error) {
	var row hotelRow
	err := s.db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return schema.HotelRecord{}, false, nil
	}
	if err != nil {
		return schema.HotelRecord{}, false, fmt.Errorf("error querying hotel: %w", err)
	}

	return row.record(), true, nil
}
