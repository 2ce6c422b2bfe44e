package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DP-Tech1324/realtor-jigar-suite/internal/config"
	"github.com/DP-Tech1324/realtor-jigar-suite/internal/db"
	"github.com/DP-Tech1324/realtor-jigar-suite/internal/ddf"
	"github.com/DP-Tech1324/realtor-jigar-suite/internal/observability"
	"github.com/DP-Tech1324/realtor-jigar-suite/internal/repository"
	"github.com/DP-Tech1324/realtor-jigar-suite/internal/status"
	"github.com/DP-Tech1324/realtor-jigar-suite/internal/syncer"
)

// go run cmd/ddfsync/main.go
// go run cmd/ddfsync/main.go -filter="StateOrProvince eq 'Ontario'" -max=500
func main() {
	filter := flag.String("filter", "", "provider-side $filter override")
	maxRecords := flag.Int("max", 0, "override for the max-record cap")
	timeout := flag.Duration("timeout", 30*time.Minute, "wall-clock budget for the run")
	flag.Parse()

	cfg := config.Load()
	if *filter != "" {
		cfg.Filter = *filter
	}
	if *maxRecords > 0 {
		cfg.MaxRecords = *maxRecords
	}

	observability.Start(cfg.MetricsPort)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("could not create connection pool: %v", err)
	}
	defer pool.Close()

	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("could not open database: %v", err)
	}
	defer sqlDB.Close()

	listingRepo := &repository.ListingRepository{DB: pool}
	if err := listingRepo.Migrate(ctx); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	client := &ddf.Client{
		TokenURL:     cfg.DDFTokenURL,
		APIURL:       cfg.DDFAPIURL,
		ClientID:     cfg.DDFClientID,
		ClientSecret: cfg.DDFClientSecret,
		Scope:        cfg.DDFScope,
		PageSize:     cfg.BatchSize,
	}

	s := &syncer.Syncer{
		Tokens:      client,
		Feed:        client,
		Store:       listingRepo,
		Runs:        &repository.RunRepository{DB: sqlDB},
		Filter:      cfg.Filter,
		MaxRecords:  cfg.MaxRecords,
		BatchSize:   cfg.BatchSize,
		Materialize: cfg.Materialize,
	}

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		s.Status = &status.Store{Client: redis.NewClient(opt)}
	}

	if _, err := s.Run(ctx); err != nil {
		log.Fatalf("sync failed: %v", err)
	}

	log.Println("Sync finished")
}
