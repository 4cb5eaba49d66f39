package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/classes/:classID/book", "201", 0.05)
	RecordHTTPRequest("POST", "/classes/:classID/book", "201", 0.07)
	RecordHTTPRequest("POST", "/classes/:classID/book", "400", 0.01)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/classes/:classID/book", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/classes/:classID/book", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordBookingAttempt(t *testing.T) {
	BookingAttemptsTotal.Reset()

	RecordBookingAttempt("success")
	RecordBookingAttempt("full")
	RecordBookingAttempt("full")

	assert.Equal(t, float64(1), testutil.ToFloat64(BookingAttemptsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(BookingAttemptsTotal.WithLabelValues("full")))
}

func TestRecordBookingCancellation(t *testing.T) {
	testCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gymflow_booking_cancellations_total_test",
		Help: "Total number of booking cancellations",
	})

	old := BookingCancellationsTotal
	BookingCancellationsTotal = testCounter
	defer func() { BookingCancellationsTotal = old }()

	RecordBookingCancellation()
	RecordBookingCancellation()

	assert.Equal(t, float64(2), testutil.ToFloat64(testCounter))
}

func TestRecordBillingCharge(t *testing.T) {
	charges := prometheus.NewCounter(prometheus.CounterOpts{Name: "gymflow_billing_charges_total_test", Help: "test"})
	cents := prometheus.NewCounter(prometheus.CounterOpts{Name: "gymflow_billing_charged_cents_total_test", Help: "test"})

	oldCharges, oldCents := BillingChargesTotal, BillingChargedCents
	BillingChargesTotal, BillingChargedCents = charges, cents
	defer func() { BillingChargesTotal, BillingChargedCents = oldCharges, oldCents }()

	RecordBillingCharge(500)
	RecordBillingCharge(1500)

	assert.Equal(t, float64(2), testutil.ToFloat64(charges))
	assert.Equal(t, float64(2000), testutil.ToFloat64(cents))
}

func TestRecordBillingRun(t *testing.T) {
	BillingRunsTotal.Reset()

	RecordBillingRun("completed", 1.2)
	RecordBillingRun("skipped", 0)

	assert.Equal(t, float64(1), testutil.ToFloat64(BillingRunsTotal.WithLabelValues("completed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BillingRunsTotal.WithLabelValues("skipped")))
}

func TestRecordEmailAndEvent(t *testing.T) {
	EmailsSentTotal.Reset()
	EventsPublishedTotal.Reset()

	RecordEmail("booking_confirmation", "queued")
	RecordEvent("booking.created", "ok")
	RecordEvent("booking.created", "failed")

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("booking_confirmation", "queued")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("booking.created", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("booking.created", "failed")))
}

func TestEmailQueueLength(t *testing.T) {
	EmailQueueLength.Set(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(EmailQueueLength))

	EmailQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}
