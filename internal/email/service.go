package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"gymflow/internal/logger"
	"gymflow/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
	pollTimeout    = 2 * time.Second
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues outgoing mail in redis and delivers it over SMTP from a
// background worker (Start).
type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string

	retryDelay time.Duration
	// pollBackoff is the pause after the queue itself is unreachable.
	pollBackoff time.Duration
	// gaugeEvery is how often Start refreshes the queue length gauge.
	gaugeEvery time.Duration
	sendMail   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(rdb *redis.Client, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass string) *Service {
	return &Service{
		redis:    rdb,
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,

		retryDelay:  5 * time.Second,
		pollBackoff: 5 * time.Second,
		gaugeEvery:  15 * time.Second,
		sendMail:    smtp.SendMail,
	}
}

func (s *Service) enqueue(ctx context.Context, job EmailJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("Failed to queue email", "to", job.To, "error", err)
		metrics.RecordEmail(job.Type, "queue_failed")
		return err
	}

	metrics.RecordEmail(job.Type, "queued")
	logger.Debug("Email queued", "type", job.Type, "to", job.To)
	return nil
}

// Start consumes the queue until ctx is cancelled. While redis is
// unreachable it logs and waits pollBackoff between attempts.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	var lastGauge time.Time
	for ctx.Err() == nil {
		if time.Since(lastGauge) >= s.gaugeEvery {
			s.QueueLength(ctx)
			lastGauge = time.Now()
		}

		err := s.processNext(ctx)
		if err == nil || ctx.Err() != nil {
			continue
		}

		logger.Error("Email queue unavailable", "error", err, "retry_in", s.pollBackoff.String())
		select {
		case <-ctx.Done():
		case <-time.After(s.pollBackoff):
		}
	}
	logger.Info("Email worker stopped")
}

// processNext delivers at most one job. It returns an error only when the
// queue could not be read; delivery failures are retried or parked.
func (s *Service) processNext(ctx context.Context) error {
	result, err := s.redis.BRPop(ctx, pollTimeout, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pop email job: %w", err)
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("Bad email payload", "error", err)
		return nil
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Error("Failed to send email", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			s.retry(ctx, job)
		} else {
			s.saveFailed(ctx, job, err)
		}
		return nil
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("Email sent", "type", job.Type, "to", job.To)
	return nil
}

func (s *Service) retry(ctx context.Context, job EmailJob) {
	select {
	case <-ctx.Done():
	case <-time.After(s.retryDelay):
	}

	data, _ := json.Marshal(job)
	// The job must survive shutdown, so it is re-queued on a fresh context.
	if err := s.redis.LPush(context.Background(), queueKey, string(data)).Err(); err != nil {
		logger.Error("Failed to re-queue email", "to", job.To, "error", err)
	}
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return s.sendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	if pushErr := s.redis.LPush(context.Background(), failedQueueKey, string(data)).Err(); pushErr != nil {
		logger.Error("Failed to park email", "to", job.To, "error", pushErr)
	}
	metrics.RecordEmail(job.Type, "failed")
	logger.Error("Email moved to failed queue", "to", job.To)
}

// QueueLength reads the pending job count and publishes it as a gauge. The
// gauge is left unchanged when redis cannot answer.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendBookingConfirmation(ctx context.Context, email, name, className, location string, when time.Time) error {
	body := fmt.Sprintf(`Hi %s,

Your place is booked!

Class: %s
Location: %s
Time: %s

See you at the gym!

- GymFlow Team`, name, className, location, when.Format("Jan 2, 2006 at 3:04 PM"))

	return s.enqueue(ctx, EmailJob{
		To:      email,
		Name:    name,
		Type:    "booking_confirmation",
		Subject: "Booking Confirmed - " + className,
		Body:    body,
		Created: time.Now(),
	})
}

func (s *Service) SendCancellation(ctx context.Context, email, name, className string, when time.Time) error {
	body := fmt.Sprintf(`Hi %s,

Your booking has been cancelled:

Class: %s
Time: %s

- GymFlow Team`, name, className, when.Format("Jan 2, 2006 at 3:04 PM"))

	return s.enqueue(ctx, EmailJob{
		To:      email,
		Name:    name,
		Type:    "booking_cancellation",
		Subject: "Booking Cancelled - " + className,
		Body:    body,
		Created: time.Now(),
	})
}

func (s *Service) SendMembershipCharge(ctx context.Context, email, name, planName string, amountCents, owedCents int64, nextBilling time.Time) error {
	body := fmt.Sprintf(`Hi %s,

Your %s membership has been charged %s.
Balance owed: %s
Next billing date: %s

- GymFlow Team`, name, planName, formatCents(amountCents), formatCents(owedCents), nextBilling.Format("Jan 2, 2006"))

	return s.enqueue(ctx, EmailJob{
		To:      email,
		Name:    name,
		Type:    "membership_charge",
		Subject: "Membership charge - " + planName,
		Body:    body,
		Created: time.Now(),
	})
}

func formatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
