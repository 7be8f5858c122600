package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion worker and advisor

var (
	// Stats API metrics
	StatsAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_edge_stats_api_calls_total",
			Help: "Total number of stats API calls",
		},
		[]string{"endpoint", "status"},
	)

	StatsAPICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nba_edge_stats_api_call_duration_seconds",
			Help:    "Duration of stats API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Sportsbook scraper metrics
	BookFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_edge_book_fetches_total",
			Help: "Total number of sportsbook fetches",
		},
		[]string{"sportsbook", "status"},
	)

	BookFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nba_edge_book_fetch_duration_seconds",
			Help:    "Duration of sportsbook fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sportsbook"},
	)

	SessionRefreshesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_edge_session_refreshes_total",
			Help: "Total number of odds-site session cookie refreshes",
		},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_edge_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_edge_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_edge_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_edge_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_edge_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// Sync metrics
	SyncOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_edge_sync_operations_total",
			Help: "Total number of sync operations",
		},
		[]string{"type", "status"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nba_edge_sync_duration_seconds",
			Help:    "Duration of sync operations in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"type"},
	)

	TeamsIngested = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_edge_teams_ingested_total",
			Help: "Total number of teams in database",
		},
	)

	GamesIngested = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_edge_games_ingested_total",
			Help: "Total number of games in database",
		},
	)

	ActiveGames = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_edge_active_games",
			Help: "Number of currently active games",
		},
	)

	// Line movement metrics
	LineMovementsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_edge_line_movements_detected_total",
			Help: "Total number of line movements detected",
		},
	)

	// Advisor metrics
	AdvisorRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_edge_advisor_runs_total",
			Help: "Total number of advisor runs",
		},
		[]string{"outcome"}, // bet, abstain, abandoned
	)

	AdvisorRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nba_edge_advisor_run_duration_seconds",
			Help:    "Duration of advisor runs per game in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_edge_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	LastSuccessfulSync = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_edge_last_successful_sync_timestamp",
			Help: "Timestamp of last successful sync operation",
		},
	)

	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_edge_system_uptime_seconds",
			Help: "Worker uptime in seconds",
		},
	)
)

// RecordStatsAPICall records a stats API call metric
func RecordStatsAPICall(endpoint, status string, duration float64) {
	StatsAPICallsTotal.WithLabelValues(endpoint, status).Inc()
	StatsAPICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordBookFetch records a sportsbook fetch metric
func RecordBookFetch(sportsbook, status string, duration float64) {
	BookFetchesTotal.WithLabelValues(sportsbook, status).Inc()
	BookFetchDuration.WithLabelValues(sportsbook).Observe(duration)
}

// RecordSessionRefresh records an odds-site cookie refresh
func RecordSessionRefresh() {
	SessionRefreshesTotal.Inc()
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordSync records a sync operation
func RecordSync(syncType, status string, duration float64) {
	SyncOperationsTotal.WithLabelValues(syncType, status).Inc()
	SyncDuration.WithLabelValues(syncType).Observe(duration)

	if status == "success" {
		LastSuccessfulSync.SetToCurrentTime()
	}
}

// RecordAdvisorRun records one advisor run
func RecordAdvisorRun(outcome string, duration float64) {
	AdvisorRunsTotal.WithLabelValues(outcome).Inc()
	AdvisorRunDuration.Observe(duration)
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// RecordLineMovement records a line movement detection
func RecordLineMovement() {
	LineMovementsDetected.Inc()
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(active, idle int32) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}

// UpdateIngestionStats updates ingestion statistics
func UpdateIngestionStats(teams, games, activeGames int64) {
	TeamsIngested.Set(float64(teams))
	GamesIngested.Set(float64(games))
	ActiveGames.Set(float64(activeGames))
}
