package probe

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nodepulse/nodepulse/config"
)

func newTestProber(t *testing.T) *Prober {
	t.Helper()
	cfg := &config.Config{}
	cfg.SetFetchConfig(&config.FetchConfig{
		QueryTimeout:       2 * time.Second,
		AggregationTimeout: 2 * time.Second,
		MaxRetries:         0,
		RetryInitialDelay:  5 * time.Millisecond,
		BackoffMultiplier:  2,
	})
	cfg.SetRPCLatencySamples(3)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, logger)
}
