package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() FetchOptions {
	return FetchOptions{
		Timeout:           2 * time.Second,
		MaxRetries:        2,
		InitialDelay:      10 * time.Millisecond,
		BackoffMultiplier: 2,
		RetriesSet:        true,
	}
}

func TestGetRetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	start := time.Now()
	body, err := Get(context.Background(), fiber.AcquireClient(), testOptions(), srv.URL+"/", "status", nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(3), calls.Load())
	// two backoff waits: 10ms then 20ms
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestGetExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := Get(context.Background(), fiber.AcquireClient(), testOptions(), srv.URL+"/", "status", nil)

	require.Error(t, err)
	assert.EqualError(t, err, "HTTP 503")
	// 1 initial attempt + 2 retries
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetNonRetryableStatusFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := Get(context.Background(), fiber.AcquireClient(), testOptions(), srv.URL+"/", "status", nil)

	require.Error(t, err)
	assert.EqualError(t, err, "HTTP 400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetSetsQueryParamsAndNoCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := Get(context.Background(), fiber.AcquireClient(), testOptions(), srv.URL+"/", "v1/block_heights", map[string]string{"format": "json"})
	require.NoError(t, err)
}

func TestGetTransportErrorRetries(t *testing.T) {
	// nothing listens on this port
	opts := testOptions()
	opts.Timeout = 200 * time.Millisecond

	start := time.Now()
	_, err := Get(context.Background(), fiber.AcquireClient(), opts, "http://127.0.0.1:1/", "status", nil)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestPostJSONSendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","result":42,"id":1}`))
	}))
	defer srv.Close()

	body, err := PostJSON(context.Background(), fiber.AcquireClient(), testOptions(), srv.URL, map[string]any{"method": "getBlockHeight"})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"result":42`)
}

func TestFetchWithRetryRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	opts := testOptions()
	opts.InitialDelay = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Get(ctx, fiber.AcquireClient(), opts, srv.URL+"/", "status", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
