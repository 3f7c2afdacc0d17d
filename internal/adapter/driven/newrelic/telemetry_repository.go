package newrelic

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/repository"
	"github.com/diillson/aws-finops-reporter-go/internal/shared/types"
	"github.com/sirupsen/logrus"
)

const (
	usCollectorURL = "https://insights-collector.newrelic.com"
	euCollectorURL = "https://insights-collector.eu01.nr-data.net"

	maxAttempts    = 3
	requestTimeout = 15 * time.Second
)

// TelemetryRepositoryImpl ships event batches to the New Relic Events API
// as gzipped JSON. Delivery is retried with exponential backoff and
// jitter; retries live here because the core treats Send as one attempt.
type TelemetryRepositoryImpl struct {
	licenseKey string
	accountID  string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// Option customizes the repository, mainly for tests.
type Option func(*TelemetryRepositoryImpl)

// WithBaseURL overrides the collector endpoint.
func WithBaseURL(url string) Option {
	return func(r *TelemetryRepositoryImpl) { r.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *TelemetryRepositoryImpl) { r.httpClient = client }
}

// NewTelemetryRepository creates a new TelemetryRepository implementation.
// EU license keys are routed to the EU collector.
func NewTelemetryRepository(licenseKey, accountID string, logger *logrus.Logger, opts ...Option) repository.TelemetryRepository {
	repo := &TelemetryRepositoryImpl{
		licenseKey: licenseKey,
		accountID:  accountID,
		baseURL:    usCollectorURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
	if strings.HasPrefix(licenseKey, "eu") {
		repo.baseURL = euCollectorURL
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Send delivers the batch. An empty batch is a no-op.
func (r *TelemetryRepositoryImpl) Send(ctx context.Context, events []entity.EventRecord) error {
	if len(events) == 0 {
		r.logger.Info("no events to send")
		return nil
	}

	payload, err := compressEvents(events)
	if err != nil {
		return &types.SinkError{Err: err}
	}

	url := fmt.Sprintf("%s/v1/accounts/%s/events", r.baseURL, r.accountID)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(1<<(attempt-2))*time.Second + time.Duration(rand.Int63n(int64(time.Second)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return &types.SinkError{Err: ctx.Err()}
			}
		}

		lastErr = r.post(ctx, url, payload)
		if lastErr == nil {
			r.logger.WithField("events", len(events)).Info("sent events to New Relic")
			return nil
		}
		r.logger.WithError(lastErr).Warnf("New Relic send attempt %d/%d failed", attempt, maxAttempts)
	}

	return &types.SinkError{Err: lastErr}
}

func (r *TelemetryRepositoryImpl) post(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Api-Key", r.licenseKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned status %d", resp.StatusCode)
	}
	return nil
}

func compressEvents(events []entity.EventRecord) ([]byte, error) {
	// The Events API takes a flat array of attribute maps.
	flat := make([]map[string]any, 0, len(events))
	for _, ev := range events {
		flat = append(flat, ev.Attributes)
	}

	raw, err := json.Marshal(flat)
	if err != nil {
		return nil, fmt.Errorf("could not marshal events: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
