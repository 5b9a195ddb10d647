package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// IngestRequests counts accepted POST /receive calls.
	IngestRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmwatch_ingest_requests_total",
		Help: "Accepted ingest requests.",
	})

	// RecordsUpserted counts individual record upserts across all batches.
	RecordsUpserted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmwatch_records_upserted_total",
		Help: "Record upserts applied to the store.",
	})

	// StoreEvicted counts records removed by the background sweep.
	StoreEvicted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmwatch_store_evicted_total",
		Help: "Stale records removed by the sweep.",
	})

	// AlertsFired counts alert rule firings by severity.
	AlertsFired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "farmwatch_alerts_fired_total",
		Help: "Alert rule firings.",
	}, []string{"severity"})
)

func init() {
	prometheus.MustRegister(IngestRequests, RecordsUpserted, StoreEvicted, AlertsFired)
}

// RegisterStoreSize exposes the store's current record count (including
// stale records) as a gauge. Call once at startup.
func RegisterStoreSize(count func() int) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "farmwatch_store_records",
		Help: "Records currently held, including stale ones.",
	}, func() float64 { return float64(count()) }))
}
