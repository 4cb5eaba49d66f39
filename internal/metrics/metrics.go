package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_booking_attempts_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"result"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymflow_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	BillingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_billing_runs_total",
			Help: "Daily billing runs by outcome",
		},
		[]string{"status"},
	)

	BillingChargesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymflow_billing_charges_total",
			Help: "Membership charges applied",
		},
	)

	BillingChargedCents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymflow_billing_charged_cents_total",
			Help: "Sum of membership charges in cents",
		},
	)

	BillingFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymflow_billing_failures_total",
			Help: "Accounts that failed to bill during a run",
		},
	)

	BillingRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gymflow_billing_run_duration_seconds",
			Help:    "Duration of a daily billing run",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymflow_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_events_published_total",
			Help: "Domain events published to the broker",
		},
		[]string{"queue", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingAttempt(result string) {
	BookingAttemptsTotal.WithLabelValues(result).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordBillingRun(status string, seconds float64) {
	BillingRunsTotal.WithLabelValues(status).Inc()
	BillingRunDuration.Observe(seconds)
}

func RecordBillingCharge(amountCents int64) {
	BillingChargesTotal.Inc()
	BillingChargedCents.Add(float64(amountCents))
}

func RecordBillingFailure() {
	BillingFailuresTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordEvent(queue, status string) {
	EventsPublishedTotal.WithLabelValues(queue, status).Inc()
}
