package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Signal metrics
	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_signals_total",
			Help: "Total number of parsed trading signals",
		},
		[]string{"symbol", "order_type"},
	)

	parseRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signal_bot_parse_rejections_total",
			Help: "Total number of rejected signal texts",
		},
	)

	// Order metrics
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_orders_total",
			Help: "Total number of order legs placed",
		},
		[]string{"symbol", "order_type", "result"},
	)

	// Account metrics
	accountBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_bot_account_balance",
			Help: "Last observed account balance",
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(signalsTotal)
	prometheus.MustRegister(parseRejectionsTotal)
	prometheus.MustRegister(ordersTotal)
	prometheus.MustRegister(accountBalance)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler serves the Prometheus metrics endpoint.
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordSignal records one successfully parsed signal.
func RecordSignal(symbol, orderType string) {
	signalsTotal.WithLabelValues(symbol, orderType).Inc()
}

// RecordParseRejection records one rejected signal text.
func RecordParseRejection() {
	parseRejectionsTotal.Inc()
}

// RecordOrder records one placed order leg and its result.
func RecordOrder(symbol, orderType, result string) {
	ordersTotal.WithLabelValues(symbol, orderType, result).Inc()
}

// UpdateBalance updates the account balance gauge.
func UpdateBalance(balance float64) {
	accountBalance.Set(balance)
}

// RecordError records an error metric by category.
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
