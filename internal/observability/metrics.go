package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ListingsFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ddf_listings_fetched_total",
			Help: "Raw records fetched from the DDF feed",
		},
	)
	ListingsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ddf_listings_skipped_total",
			Help: "Records dropped by the required-field gate",
		},
	)
	ListingsUpserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ddf_listings_upserted_total",
			Help: "Normalized listings committed to the store",
		},
	)
	SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ddf_sync_runs_total",
			Help: "Sync runs by outcome",
		},
		[]string{"status"},
	)
)

func Start(port string) {
	prometheus.MustRegister(ListingsFetched, ListingsSkipped, ListingsUpserted, SyncRuns)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
