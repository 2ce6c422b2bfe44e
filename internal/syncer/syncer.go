package syncer

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/DP-Tech1324/realtor-jigar-suite/internal/ddf"
	"github.com/DP-Tech1324/realtor-jigar-suite/internal/model"
	"github.com/DP-Tech1324/realtor-jigar-suite/internal/observability"
)

// TokenSource exchanges client credentials for a bearer token.
type TokenSource interface {
	GetAccessToken(ctx context.Context) (string, error)
}

// Fetcher pulls the full filtered catalog from the provider.
type Fetcher interface {
	FetchAll(ctx context.Context, token, filter string, maxRecords int) ([]ddf.Property, error)
}

// ListingStore is the upsert-capable store keyed by listing_key.
type ListingStore interface {
	UpsertBatch(ctx context.Context, batch []model.Listing) error
	Materialize(ctx context.Context) error
}

// RunRecorder persists the audit row for a finished run.
type RunRecorder interface {
	Save(run model.SyncRun) (string, error)
}

// StatusStore publishes the last-run snapshot for the admin console.
type StatusStore interface {
	SetLastSync(ctx context.Context, run model.SyncRun) error
}

// Syncer sequences one ingestion run:
// authenticate -> fetch -> map -> upsert -> optional materialization.
// Runs are serialized by the external scheduler; a failed run is retried by
// re-invoking the whole job, which the keyed upsert makes safe.
type Syncer struct {
	Tokens TokenSource
	Feed   Fetcher
	Store  ListingStore
	Runs   RunRecorder // optional
	Status StatusStore // optional

	Filter      string
	MaxRecords  int
	BatchSize   int
	Materialize bool

	authRetry *retryConfig
}

// Summary is what one run did, stage by stage.
type Summary struct {
	RunID    string
	Status   string
	Fetched  int
	Mapped   int
	Skipped  int
	Upserted int
}

func (s *Syncer) batchSize() int {
	if s.BatchSize > 0 {
		return s.BatchSize
	}
	return 100
}

// Run executes the pipeline once. The returned summary is valid even when err
// is non-nil: committed batches stay committed and their count is reported.
func (s *Syncer) Run(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: uuid.New().String()}
	started := time.Now()

	log.Printf("[sync %s] authenticating", sum.RunID)
	var token string
	auth := s.authRetry
	if auth == nil {
		auth = &retryConfig{MaxAttempts: 3, BaseDelay: 2 * time.Second}
	}
	err := auth.Do("token exchange", func() error {
		var tokenErr error
		token, tokenErr = s.Tokens.GetAccessToken(ctx)
		return tokenErr
	})
	if err != nil {
		return s.finish(ctx, sum, started, err)
	}

	log.Printf("[sync %s] fetching (filter=%q max=%d)", sum.RunID, s.Filter, s.MaxRecords)
	records, err := s.Feed.FetchAll(ctx, token, s.Filter, s.MaxRecords)
	if err != nil {
		return s.finish(ctx, sum, started, err)
	}
	sum.Fetched = len(records)
	observability.ListingsFetched.Add(float64(sum.Fetched))

	// A catalog that shifts between page requests can repeat a record
	// across pages. The conflict key must not appear twice in one upsert
	// statement, so duplicates collapse here, last occurrence winning.
	listings := make([]model.Listing, 0, len(records))
	index := make(map[string]int, len(records))
	duplicates := 0
	for _, raw := range records {
		l, ok := ddf.Normalize(raw)
		if !ok {
			sum.Skipped++
			continue
		}
		if i, seen := index[l.ListingKey]; seen {
			listings[i] = l
			duplicates++
			continue
		}
		index[l.ListingKey] = len(listings)
		listings = append(listings, l)
	}
	sum.Mapped = len(listings)
	observability.ListingsSkipped.Add(float64(sum.Skipped))
	log.Printf("[sync %s] mapped %d of %d records (%d skipped, %d duplicates)",
		sum.RunID, sum.Mapped, sum.Fetched, sum.Skipped, duplicates)

	if sum.Mapped == 0 {
		// An empty feed is a legitimate outcome, not a failure.
		log.Printf("[sync %s] nothing to upsert", sum.RunID)
		sum.Status = model.RunEmpty
		return s.finish(ctx, sum, started, nil)
	}

	sum.Upserted, err = s.upsertAll(ctx, sum.RunID, listings)
	observability.ListingsUpserted.Add(float64(sum.Upserted))
	if err != nil {
		return s.finish(ctx, sum, started, err)
	}

	if s.Materialize {
		if err := s.Store.Materialize(ctx); err != nil {
			// The staged rows are already committed; surface and move on.
			log.Printf("[sync %s] materialization failed: %v", sum.RunID, err)
		}
	}

	sum.Status = model.RunSucceeded
	return s.finish(ctx, sum, started, nil)
}

// upsertAll partitions listings into fixed-size batches and stops on the
// first failure. A failed batch usually means a systemic schema mismatch that
// would recur on every later batch, so under-syncing loudly beats silently.
func (s *Syncer) upsertAll(ctx context.Context, runID string, listings []model.Listing) (int, error) {
	size := s.batchSize()
	inserted := 0

	for i := 0; i < len(listings); i += size {
		end := i + size
		if end > len(listings) {
			end = len(listings)
		}
		if err := s.Store.UpsertBatch(ctx, listings[i:end]); err != nil {
			log.Printf("[sync %s] batch %d failed: %v", runID, i/size, err)
			return inserted, err
		}
		inserted += end - i
	}

	return inserted, nil
}

func (s *Syncer) finish(ctx context.Context, sum Summary, started time.Time, err error) (Summary, error) {
	if err != nil {
		sum.Status = model.RunFailed
	}
	observability.SyncRuns.WithLabelValues(sum.Status).Inc()

	run := model.SyncRun{
		ID:         sum.RunID,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Status:     sum.Status,
		Fetched:    sum.Fetched,
		Mapped:     sum.Mapped,
		Skipped:    sum.Skipped,
		Upserted:   sum.Upserted,
	}
	if err != nil {
		run.Error = err.Error()
	}

	// Audit trail and status snapshot are best-effort; losing them must not
	// turn a committed sync into a failure.
	if s.Runs != nil {
		if _, saveErr := s.Runs.Save(run); saveErr != nil {
			log.Printf("[sync %s] could not record run: %v", sum.RunID, saveErr)
		}
	}
	if s.Status != nil {
		if statusErr := s.Status.SetLastSync(ctx, run); statusErr != nil {
			log.Printf("[sync %s] could not publish status: %v", sum.RunID, statusErr)
		}
	}

	log.Printf("[sync %s] %s: fetched=%d mapped=%d skipped=%d upserted=%d",
		sum.RunID, sum.Status, sum.Fetched, sum.Mapped, sum.Skipped, sum.Upserted)

	return sum, err
}
