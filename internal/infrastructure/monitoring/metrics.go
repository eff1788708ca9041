package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	MutationsTotal  *prometheus.CounterVec
	AssetBytesTotal prometheus.Counter
	AssetsRemoved   *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
	EventsReceived  *prometheus.CounterVec
}

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_dashboard_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "invoice_dashboard_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "invoice_dashboard_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		MutationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_dashboard_mutations_total",
				Help: "Customer and invoice mutations by outcome.",
			},
			[]string{"entity", "operation", "outcome"},
		),
		AssetBytesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "invoice_dashboard_asset_bytes_written_total",
				Help: "Bytes of customer images written to the asset store.",
			},
		),
		AssetsRemoved: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_dashboard_assets_removed_total",
				Help: "Customer images removed, by reason.",
			},
			[]string{"reason"},
		),
		CacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_dashboard_view_cache_lookups_total",
				Help: "Report view cache lookups by result.",
			},
			[]string{"result"},
		),
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_dashboard_events_published_total",
				Help: "Mutation events published, by routing key and status.",
			},
			[]string{"routing_key", "status"},
		),
		EventsReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_dashboard_events_received_total",
				Help: "Mutation events consumed from peers, by routing key.",
			},
			[]string{"routing_key"},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordMutation(entity, operation, outcome string) {
	Business.MutationsTotal.WithLabelValues(entity, operation, outcome).Inc()
}

func RecordAssetWritten(bytes int) {
	Business.AssetBytesTotal.Add(float64(bytes))
}

func RecordAssetRemoved(reason string) {
	Business.AssetsRemoved.WithLabelValues(reason).Inc()
}

func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	Business.CacheLookups.WithLabelValues(result).Inc()
}

func RecordEventPublished(routingKey, status string) {
	Business.EventsPublished.WithLabelValues(routingKey, status).Inc()
}

func RecordEventReceived(routingKey string) {
	Business.EventsReceived.WithLabelValues(routingKey).Inc()
}

// QueryStatus maps a query error to the "status" label value.
func QueryStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
