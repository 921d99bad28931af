package util

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/semaphore"

	"github.com/nodepulse/nodepulse/config"
	"github.com/nodepulse/nodepulse/metrics"
	"github.com/nodepulse/nodepulse/sentry_integration"
	"github.com/nodepulse/nodepulse/types"
)

const (
	DefaultTimeout           = 15 * time.Second
	DefaultMaxRetries        = 2
	DefaultInitialDelay      = 300 * time.Millisecond
	DefaultBackoffMultiplier = 2.0
)

// retryableStatuses are HTTP statuses worth another attempt; everything else
// fails immediately without consuming retry budget.
var retryableStatuses = map[int]struct{}{
	fiber.StatusRequestTimeout:      {},
	fiber.StatusTooEarly:            {},
	fiber.StatusTooManyRequests:     {},
	fiber.StatusInternalServerError: {},
	fiber.StatusBadGateway:          {},
	fiber.StatusServiceUnavailable:  {},
	fiber.StatusGatewayTimeout:      {},
}

var limiter *semaphore.Weighted

func InitLimiter(cfg *config.Config) {
	limiter = semaphore.NewWeighted(int64(cfg.GetMaxConcurrentRequests()))
}

// FetchOptions controls one logical request. Zero fields fall back to the
// package defaults. The timeout applies per attempt, so every retry gets a
// fresh full window.
type FetchOptions struct {
	Timeout           time.Duration
	MaxRetries        int
	InitialDelay      time.Duration
	BackoffMultiplier float64

	// RetriesSet distinguishes an explicit MaxRetries of zero from an
	// unset field.
	RetriesSet bool
}

func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		Timeout:           DefaultTimeout,
		MaxRetries:        DefaultMaxRetries,
		InitialDelay:      DefaultInitialDelay,
		BackoffMultiplier: DefaultBackoffMultiplier,
		RetriesSet:        true,
	}
}

func (o FetchOptions) normalized() FetchOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if !o.RetriesSet {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = DefaultInitialDelay
	}
	if o.BackoffMultiplier < 1 {
		o.BackoffMultiplier = DefaultBackoffMultiplier
	}
	return o
}

// Get performs one logical GET against a volatile remote host, retrying
// retryable failures with exponential backoff.
func Get(ctx context.Context, client *fiber.Client, opts FetchOptions, baseUrl, path string, params map[string]string) ([]byte, error) {
	opts = opts.normalized()

	parsedUrl, err := url.Parse(fmt.Sprintf("%s%s", baseUrl, path))
	if err != nil {
		return nil, types.NewInvalidValueError("url", baseUrl+path, "unparsable request URL")
	}
	if params != nil {
		query := parsedUrl.Query()
		for key, value := range params {
			query.Set(key, value)
		}
		parsedUrl.RawQuery = query.Encode()
	}
	endpoint := parsedUrl.String()

	return fetchWithRetry(ctx, opts, endpoint, func() ([]byte, error) {
		return doRequest(client.Get(endpoint), opts.Timeout, endpoint)
	})
}

// PostJSON performs one logical JSON POST with the same retry semantics as Get.
func PostJSON(ctx context.Context, client *fiber.Client, opts FetchOptions, endpoint string, payload any) ([]byte, error) {
	opts = opts.normalized()

	return fetchWithRetry(ctx, opts, endpoint, func() ([]byte, error) {
		req := client.Post(endpoint).JSON(payload)
		return doRequest(req, opts.Timeout, endpoint)
	})
}

// fetchWithRetry runs a bounded attempt loop. Attempt count and current
// delay are threaded explicitly through each iteration so a misclassified
// error can never retry unbounded.
func fetchWithRetry(ctx context.Context, opts FetchOptions, endpoint string, do func() ([]byte, error)) ([]byte, error) {
	delay := opts.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * opts.BackoffMultiplier)
		}

		body, err := do()
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}
		if httpErr := (*types.HTTPError)(nil); errors.As(err, &httpErr) && httpErr.Code == fiber.StatusTooManyRequests {
			metrics.RateLimitHitsTotal().WithLabelValues(endpoint).Inc()
		}
	}

	sentry_integration.CaptureCurrentHubException(lastErr, sentry.LevelWarning)
	return nil, lastErr
}

// isRetryable classifies a failed attempt. Transport-level failures
// (timeouts, connection resets, name resolution) are always retryable; HTTP
// statuses are retryable only when listed in retryableStatuses.
func isRetryable(err error) bool {
	var httpErr *types.HTTPError
	if errors.As(err, &httpErr) {
		_, ok := retryableStatuses[httpErr.Code]
		return ok
	}
	return true
}

func doRequest(req *fiber.Agent, timeout time.Duration, endpoint string) (body []byte, err error) {
	start := time.Now()

	metrics.ConcurrentRequestsActive().Inc()
	defer func() {
		metrics.ConcurrentRequestsActive().Dec()
	}()

	if limiter != nil {
		semaphoreStart := time.Now()
		if err := limiter.Acquire(context.Background(), 1); err != nil {
			return nil, types.NewInternalError("failed to acquire semaphore", err)
		}
		defer limiter.Release(1)
		metrics.SemaphoreWaitDuration().Observe(time.Since(semaphoreStart).Seconds())
	}

	// remote status must never be served from an intermediary cache
	req.Set(fiber.HeaderCacheControl, "no-cache")

	code, body, errs := req.Timeout(timeout).Bytes()
	duration := time.Since(start).Seconds()
	metrics.ExternalAPILatency().WithLabelValues(endpoint).Observe(duration)

	if err := errors.Join(errs...); err != nil {
		metrics.ExternalAPIRequestsTotal().WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}

	metrics.ExternalAPIRequestsTotal().WithLabelValues(endpoint, fmt.Sprintf("%d", code)).Inc()

	if code == fiber.StatusOK {
		return body, nil
	}
	return nil, &types.HTTPError{Code: code}
}
