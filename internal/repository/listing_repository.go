package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DP-Tech1324/realtor-jigar-suite/internal/model"
)

const listingColumns = 27

// ListingRepository writes normalized listings into the ddf_listings staging
// table. listing_key is the conflict target: a matching row is fully
// overwritten, anything else is inserted, so re-running a sync is idempotent.
type ListingRepository struct {
	DB *pgxpool.Pool
}

// Migrate creates the staging and audit tables. The CHECK constraints mirror
// the mapper's enums; the mapper guarantees they can never trip.
func (r *ListingRepository) Migrate(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ddf_listings (
			listing_key             TEXT PRIMARY KEY,
			listing_id              TEXT NOT NULL DEFAULT '',
			title                   TEXT NOT NULL,
			description             TEXT NOT NULL DEFAULT '',
			address                 TEXT NOT NULL,
			city                    TEXT NOT NULL,
			province                TEXT NOT NULL,
			postal_code             TEXT NOT NULL DEFAULT '',
			country                 TEXT NOT NULL DEFAULT '',
			property_type           TEXT NOT NULL CHECK (property_type IN
				('detached','semi_detached','townhouse','condo','multi_family',
				 'vacant_land','commercial','farm','other')),
			home_type               TEXT NOT NULL CHECK (home_type IN
				('bungalow','apartment','loft','penthouse','duplex','triplex',
				 'fourplex','condo','detached','semi-detached','townhouse',
				 'estate','other')),
			status                  TEXT NOT NULL CHECK (status IN
				('active','pending','sold','leased','expired','terminated',
				 'withdrawn','coming_soon')),
			price                   NUMERIC(14,2),
			bedrooms                INTEGER,
			bathrooms               NUMERIC(4,1),
			living_area             NUMERIC(12,2),
			lot_size                NUMERIC(14,2),
			year_built              INTEGER,
			images                  TEXT[] NOT NULL DEFAULT '{}',
			cover_image             TEXT,
			latitude                DOUBLE PRECISION,
			longitude               DOUBLE PRECISION,
			mls_number              TEXT NOT NULL DEFAULT '',
			originating_system_name TEXT NOT NULL DEFAULT '',
			standard_status         TEXT NOT NULL DEFAULT '',
			modification_timestamp  TIMESTAMPTZ,
			source                  TEXT NOT NULL DEFAULT 'ddf',
			created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_ddf_listings_city          ON ddf_listings(city);
		CREATE INDEX IF NOT EXISTS idx_ddf_listings_price         ON ddf_listings(price);
		CREATE INDEX IF NOT EXISTS idx_ddf_listings_property_type ON ddf_listings(property_type);
		CREATE INDEX IF NOT EXISTS idx_ddf_listings_status        ON ddf_listings(status);

		CREATE TABLE IF NOT EXISTS ddf_sync_runs (
			id          UUID PRIMARY KEY,
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL,
			status      TEXT NOT NULL,
			fetched     INTEGER NOT NULL DEFAULT 0,
			mapped      INTEGER NOT NULL DEFAULT 0,
			skipped     INTEGER NOT NULL DEFAULT 0,
			upserted    INTEGER NOT NULL DEFAULT 0,
			error       TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("repository: migrate: %w", err)
	}
	return nil
}

// UpsertBatch writes one batch as a single multi-row statement.
func (r *ListingRepository) UpsertBatch(ctx context.Context, batch []model.Listing) error {
	if len(batch) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*listingColumns)

	for idx, l := range batch {
		base := idx * listingColumns
		placeholders := make([]string, listingColumns)
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("$%d", base+i+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.ListingKey, l.ListingID, l.Title, l.Description,
			l.Address, l.City, l.Province, l.PostalCode, l.Country,
			l.PropertyType, l.HomeType, l.Status,
			l.Price, l.Bedrooms, l.Bathrooms, l.LivingArea, l.LotSize, l.YearBuilt,
			l.Images, l.CoverImage, l.Latitude, l.Longitude,
			l.MLSNumber, l.OriginatingSystemName, l.StandardStatus,
			l.ModificationTimestamp, l.Source,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO ddf_listings (
			listing_key, listing_id, title, description,
			address, city, province, postal_code, country,
			property_type, home_type, status,
			price, bedrooms, bathrooms, living_area, lot_size, year_built,
			images, cover_image, latitude, longitude,
			mls_number, originating_system_name, standard_status,
			modification_timestamp, source
		)
		VALUES %s
		ON CONFLICT (listing_key) DO UPDATE SET
			listing_id              = EXCLUDED.listing_id,
			title                   = EXCLUDED.title,
			description             = EXCLUDED.description,
			address                 = EXCLUDED.address,
			city                    = EXCLUDED.city,
			province                = EXCLUDED.province,
			postal_code             = EXCLUDED.postal_code,
			country                 = EXCLUDED.country,
			property_type           = EXCLUDED.property_type,
			home_type               = EXCLUDED.home_type,
			status                  = EXCLUDED.status,
			price                   = EXCLUDED.price,
			bedrooms                = EXCLUDED.bedrooms,
			bathrooms               = EXCLUDED.bathrooms,
			living_area             = EXCLUDED.living_area,
			lot_size                = EXCLUDED.lot_size,
			year_built              = EXCLUDED.year_built,
			images                  = EXCLUDED.images,
			cover_image             = EXCLUDED.cover_image,
			latitude                = EXCLUDED.latitude,
			longitude               = EXCLUDED.longitude,
			mls_number              = EXCLUDED.mls_number,
			originating_system_name = EXCLUDED.originating_system_name,
			standard_status         = EXCLUDED.standard_status,
			modification_timestamp  = EXCLUDED.modification_timestamp,
			source                  = EXCLUDED.source,
			updated_at              = NOW()
	`, strings.Join(valueStrings, ","))

	if _, err := r.DB.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("repository: upsert batch of %d: %w", len(batch), err)
	}
	return nil
}

// Materialize copies the staging table into the production listings table via
// the store-side procedure. The admin console owns that procedure; failures
// here never roll back the staged upsert.
func (r *ListingRepository) Materialize(ctx context.Context) error {
	if _, err := r.DB.Exec(ctx, `SELECT ddf_sync_listings()`); err != nil {
		return fmt.Errorf("repository: materialize: %w", err)
	}
	return nil
}
