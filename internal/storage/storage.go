// Package storage defines the catalog persistence boundary. Records are
// keyed by their prefixed id, upserts are idempotent: re-writing an unchanged
// record is a no-op, a changed one replaces the previous version in full.
package storage

import (
	"context"

	"bitbucket.org/olympichub/supplier-hub/internal/schema"
)

type Store interface {
	// UpsertHotels writes a batch of canonical records keyed by record ID.
	UpsertHotels(ctx context.Context, records []schema.HotelRecord) error

	// Hotel fetches one record by its prefixed id. The second return is
	// false when the id is unknown.
	Hotel(ctx context.Context, id string) (schema.HotelRecord, bool, error)
}
