package model

import "time"

// Source tag stamped on every row written by this pipeline.
const SourceDDF = "ddf"

// Property type enumeration. The listings table enforces these with a CHECK
// constraint, so the mapper must never emit anything outside this set.
const (
	PropertyDetached     = "detached"
	PropertySemiDetached = "semi_detached"
	PropertyTownhouse    = "townhouse"
	PropertyCondo        = "condo"
	PropertyMultiFamily  = "multi_family"
	PropertyVacantLand   = "vacant_land"
	PropertyCommercial   = "commercial"
	PropertyFarm         = "farm"
	PropertyOther        = "other"
)

// Home type enumeration.
const (
	HomeBungalow     = "bungalow"
	HomeApartment    = "apartment"
	HomeLoft         = "loft"
	HomePenthouse    = "penthouse"
	HomeDuplex       = "duplex"
	HomeTriplex      = "triplex"
	HomeFourplex     = "fourplex"
	HomeCondo        = "condo"
	HomeDetached     = "detached"
	HomeSemiDetached = "semi-detached"
	HomeTownhouse    = "townhouse"
	HomeEstate       = "estate"
	HomeOther        = "other"
)

// Listing status enumeration.
const (
	StatusActive     = "active"
	StatusPending    = "pending"
	StatusSold       = "sold"
	StatusLeased     = "leased"
	StatusExpired    = "expired"
	StatusTerminated = "terminated"
	StatusWithdrawn  = "withdrawn"
	StatusComingSoon = "coming_soon"
)

// Listing is the canonical shape persisted to the store. ListingKey is the
// natural key: the upsert conflict target that keeps repeated syncs idempotent.
type Listing struct {
	ListingKey string
	ListingID  string

	Title       string
	Description string
	Address     string
	City        string
	Province    string
	PostalCode  string
	Country     string

	PropertyType string
	HomeType     string
	Status       string

	Price      *float64
	Bedrooms   *int
	Bathrooms  *float64
	LivingArea *float64
	LotSize    *float64
	YearBuilt  *int

	// Images is never nil; CoverImage is the first image or nil.
	Images     []string
	CoverImage *string

	Latitude  *float64
	Longitude *float64

	MLSNumber             string
	OriginatingSystemName string
	StandardStatus        string
	ModificationTimestamp *time.Time

	Source string
}

// RunStatus values recorded for a sync run.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
	RunEmpty     = "empty"
)

// SyncRun is the audit record for one pipeline invocation.
type SyncRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Fetched    int
	Mapped     int
	Skipped    int
	Upserted   int
	Error      string
}
