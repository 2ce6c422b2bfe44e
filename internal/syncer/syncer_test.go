package syncer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DP-Tech1324/realtor-jigar-suite/internal/ddf"
	"github.com/DP-Tech1324/realtor-jigar-suite/internal/model"
)

type fakeTokens struct {
	token string
	err   error
	calls int
}

func (f *fakeTokens) GetAccessToken(ctx context.Context) (string, error) {
	f.calls++
	return f.token, f.err
}

type fakeFeed struct {
	records   []ddf.Property
	err       error
	gotToken  string
	gotFilter string
	gotMax    int
}

func (f *fakeFeed) FetchAll(ctx context.Context, token, filter string, maxRecords int) ([]ddf.Property, error) {
	f.gotToken = token
	f.gotFilter = filter
	f.gotMax = maxRecords
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeStore struct {
	batches        [][]model.Listing
	failAtBatch    int // 1-based; 0 = never fail
	materialized   int
	materializeErr error
}

func (f *fakeStore) UpsertBatch(ctx context.Context, batch []model.Listing) error {
	if f.failAtBatch > 0 && len(f.batches)+1 == f.failAtBatch {
		return errors.New("schema mismatch")
	}
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeStore) Materialize(ctx context.Context) error {
	f.materialized++
	return f.materializeErr
}

func rawRecords(n int) []ddf.Property {
	records := make([]ddf.Property, n)
	for i := range records {
		records[i] = ddf.Property{
			ListingKey:      fmt.Sprintf("KEY%04d", i),
			UnparsedAddress: fmt.Sprintf("%d Main St", i+1),
			City:            "Toronto",
			StateOrProvince: "ON",
			PropertySubType: "Condo",
		}
	}
	return records
}

func noRetry() *retryConfig { return &retryConfig{MaxAttempts: 1} }

func TestRunHappyPath(t *testing.T) {
	store := &fakeStore{}
	s := &Syncer{
		Tokens:    &fakeTokens{token: "tok-1"},
		Feed:      &fakeFeed{records: rawRecords(7)},
		Store:     store,
		BatchSize: 3,
		authRetry: noRetry(),
	}

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.Status != model.RunSucceeded {
		t.Errorf("status = %q; want %q", sum.Status, model.RunSucceeded)
	}
	if sum.Fetched != 7 || sum.Mapped != 7 || sum.Skipped != 0 || sum.Upserted != 7 {
		t.Errorf("counts = %+v", sum)
	}
	if len(store.batches) != 3 {
		t.Fatalf("batches = %d; want 3", len(store.batches))
	}
	if len(store.batches[0]) != 3 || len(store.batches[2]) != 1 {
		t.Errorf("batch sizes = %d,%d,%d",
			len(store.batches[0]), len(store.batches[1]), len(store.batches[2]))
	}
	if store.materialized != 0 {
		t.Errorf("materialize called without being enabled")
	}
}

func TestRunPassesTokenAndFilter(t *testing.T) {
	feed := &fakeFeed{records: rawRecords(1)}
	s := &Syncer{
		Tokens:     &fakeTokens{token: "tok-9"},
		Feed:       feed,
		Store:      &fakeStore{},
		Filter:     "StateOrProvince eq 'Ontario'",
		MaxRecords: 500,
		authRetry:  noRetry(),
	}

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if feed.gotToken != "tok-9" {
		t.Errorf("token = %q", feed.gotToken)
	}
	if feed.gotFilter != "StateOrProvince eq 'Ontario'" {
		t.Errorf("filter = %q", feed.gotFilter)
	}
	if feed.gotMax != 500 {
		t.Errorf("max = %d", feed.gotMax)
	}
}

func TestRunBatchFailFast(t *testing.T) {
	store := &fakeStore{failAtBatch: 2}
	s := &Syncer{
		Tokens:    &fakeTokens{token: "tok-1"},
		Feed:      &fakeFeed{records: rawRecords(50)},
		Store:     store,
		BatchSize: 10,
		authRetry: noRetry(),
	}

	sum, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected error from failing batch")
	}

	if sum.Status != model.RunFailed {
		t.Errorf("status = %q; want %q", sum.Status, model.RunFailed)
	}
	// Only batch 1 committed; batches 3..5 never attempted.
	if sum.Upserted != 10 {
		t.Errorf("upserted = %d; want 10", sum.Upserted)
	}
	if len(store.batches) != 1 {
		t.Errorf("committed batches = %d; want 1", len(store.batches))
	}
}

func TestRunSkipsInvalidRecords(t *testing.T) {
	records := rawRecords(5)
	records[1].UnparsedAddress = ""
	records[3].City = ""

	store := &fakeStore{}
	s := &Syncer{
		Tokens:    &fakeTokens{token: "tok-1"},
		Feed:      &fakeFeed{records: records},
		Store:     store,
		authRetry: noRetry(),
	}

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Fetched != 5 || sum.Mapped != 3 || sum.Skipped != 2 || sum.Upserted != 3 {
		t.Errorf("counts = %+v", sum)
	}
}

func TestRunCollapsesRepeatedListingKeys(t *testing.T) {
	// A shifting catalog can serve the same record on two pages; the store
	// must never see one key twice, in a batch or across batches.
	records := rawRecords(6)
	records[4].ListingKey = records[1].ListingKey
	records[4].City = "Ottawa"
	records[5].ListingKey = records[1].ListingKey
	records[5].City = "Hamilton"

	store := &fakeStore{}
	s := &Syncer{
		Tokens:    &fakeTokens{token: "tok-1"},
		Feed:      &fakeFeed{records: records},
		Store:     store,
		BatchSize: 2,
		authRetry: noRetry(),
	}

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.Mapped != 4 || sum.Upserted != 4 {
		t.Errorf("mapped = %d upserted = %d; want 4 and 4", sum.Mapped, sum.Upserted)
	}

	seen := make(map[string]int)
	var dupCity string
	for _, batch := range store.batches {
		for _, l := range batch {
			seen[l.ListingKey]++
			if l.ListingKey == records[1].ListingKey {
				dupCity = l.City
			}
		}
	}
	for key, n := range seen {
		if n != 1 {
			t.Errorf("key %s reached the store %d times", key, n)
		}
	}
	if dupCity != "Hamilton" {
		t.Errorf("duplicate key kept city %q; want the last copy (Hamilton)", dupCity)
	}
}

func TestRunEmptyFeedIsSuccess(t *testing.T) {
	store := &fakeStore{}
	s := &Syncer{
		Tokens:    &fakeTokens{token: "tok-1"},
		Feed:      &fakeFeed{},
		Store:     store,
		authRetry: noRetry(),
	}

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("empty feed must not be an error: %v", err)
	}
	if sum.Status != model.RunEmpty {
		t.Errorf("status = %q; want %q", sum.Status, model.RunEmpty)
	}
	if len(store.batches) != 0 {
		t.Errorf("no upserts expected, got %d batches", len(store.batches))
	}
}

func TestRunAuthFailure(t *testing.T) {
	store := &fakeStore{}
	s := &Syncer{
		Tokens:    &fakeTokens{err: errors.New("invalid_client")},
		Feed:      &fakeFeed{records: rawRecords(3)},
		Store:     store,
		authRetry: noRetry(),
	}

	sum, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected auth error")
	}
	if sum.Status != model.RunFailed {
		t.Errorf("status = %q", sum.Status)
	}
	if sum.Fetched != 0 || len(store.batches) != 0 {
		t.Error("no work should happen after a failed token exchange")
	}
}

func TestRunAuthRetries(t *testing.T) {
	tokens := &fakeTokens{err: errors.New("transient")}
	s := &Syncer{
		Tokens:    tokens,
		Feed:      &fakeFeed{},
		Store:     &fakeStore{},
		authRetry: &retryConfig{MaxAttempts: 3},
	}

	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("expected auth error")
	}
	if tokens.calls != 3 {
		t.Errorf("token attempts = %d; want 3", tokens.calls)
	}
}

func TestRunFetchFailureDiscardsRun(t *testing.T) {
	store := &fakeStore{}
	s := &Syncer{
		Tokens:    &fakeTokens{token: "tok-1"},
		Feed:      &fakeFeed{err: errors.New("status 500 at $skip=20")},
		Store:     store,
		authRetry: noRetry(),
	}

	sum, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if sum.Status != model.RunFailed || sum.Upserted != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if len(store.batches) != 0 {
		t.Error("nothing may be upserted after a fetch failure")
	}
}

func TestRunMaterializeFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{materializeErr: errors.New("function missing")}
	s := &Syncer{
		Tokens:      &fakeTokens{token: "tok-1"},
		Feed:        &fakeFeed{records: rawRecords(2)},
		Store:       store,
		Materialize: true,
		authRetry:   noRetry(),
	}

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("materialization failure must not fail the run: %v", err)
	}
	if sum.Status != model.RunSucceeded {
		t.Errorf("status = %q", sum.Status)
	}
	if store.materialized != 1 {
		t.Errorf("materialize calls = %d; want 1", store.materialized)
	}
}

type fakeStatus struct{ last *model.SyncRun }

func (f *fakeStatus) SetLastSync(ctx context.Context, run model.SyncRun) error {
	f.last = &run
	return nil
}

type fakeRuns struct{ saved []model.SyncRun }

func (f *fakeRuns) Save(run model.SyncRun) (string, error) {
	f.saved = append(f.saved, run)
	return run.ID, nil
}

func TestRunRecordsAuditAndStatus(t *testing.T) {
	runs := &fakeRuns{}
	st := &fakeStatus{}
	s := &Syncer{
		Tokens:    &fakeTokens{token: "tok-1"},
		Feed:      &fakeFeed{records: rawRecords(4)},
		Store:     &fakeStore{},
		Runs:      runs,
		Status:    st,
		authRetry: noRetry(),
	}

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(runs.saved) != 1 {
		t.Fatalf("audit rows = %d; want 1", len(runs.saved))
	}
	saved := runs.saved[0]
	if saved.ID != sum.RunID || saved.Status != model.RunSucceeded || saved.Upserted != 4 {
		t.Errorf("audit row = %+v", saved)
	}
	if st.last == nil || st.last.Upserted != 4 {
		t.Errorf("status snapshot = %+v", st.last)
	}
}
