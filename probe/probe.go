// Package probe implements the status aggregation engine: it fans probes out
// across a network's block producer, RPC and explorer nodes, fetches their
// heterogeneous JSON surfaces, and normalizes the outcomes into card records.
// The build entry points are total: every internal failure ends up in the
// returned card's Error field, never as a returned error.
package probe

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nodepulse/nodepulse/config"
	"github.com/nodepulse/nodepulse/metrics"
	"github.com/nodepulse/nodepulse/types"
	"github.com/nodepulse/nodepulse/util"
)

type Prober struct {
	cfg    *config.Config
	logger *slog.Logger
	client *fiber.Client
}

func New(cfg *config.Config, logger *slog.Logger) *Prober {
	return &Prober{
		cfg:    cfg,
		logger: logger.With("module", "probe"),
		client: fiber.AcquireClient(),
	}
}

// BPRequest identifies one block producer probe.
type BPRequest struct {
	ID      string
	NodeKey string
	Entry   config.BPEntry
	Timeout time.Duration
}

// RPCRequest identifies one RPC probe. SkipLatencySampling suppresses the
// getVersion sampling sequence; the latency fields then stay nil without
// raising an error.
type RPCRequest struct {
	ID                  string
	NodeKey             string
	Entry               config.RPCEntry
	Timeout             time.Duration
	SkipLatencySampling bool
}

// ExplorerRequest identifies one explorer probe.
type ExplorerRequest struct {
	ID      string
	NodeKey string
	Entry   config.ExplorerEntry
	Timeout time.Duration
}

// fetchOptions builds per-call fetch options from config, with the request's
// timeout override when set.
func (p *Prober) fetchOptions(timeout time.Duration) util.FetchOptions {
	fc := p.cfg.GetFetchConfig()
	opts := util.FetchOptions{
		Timeout:           timeout,
		MaxRetries:        fc.MaxRetries,
		InitialDelay:      fc.RetryInitialDelay,
		BackoffMultiplier: fc.BackoffMultiplier,
		RetriesSet:        true,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = fc.AggregationTimeout
	}
	return opts
}

func (p *Prober) observe(kind types.CardKind, start time.Time, card *types.CardData) {
	metrics.ProbeDuration().WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if card.Error != nil {
		metrics.ProbeFailuresTotal().WithLabelValues(string(kind)).Inc()
	}
}

func strPtr(s string) *string {
	return &s
}

func sanitizedPtr(err error) *string {
	if err == nil {
		return nil
	}
	return strPtr(SanitizeError(err))
}
