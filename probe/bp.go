package probe

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nodepulse/nodepulse/types"
	"github.com/nodepulse/nodepulse/util"
)

// BuildBPCard probes one block producer. The heights and status calls run
// concurrently and each branch captures its own outcome; a failing branch
// never cancels or masks its sibling. Heights are essential: their failure
// is surfaced as the node error. The status call is enrichment, so its lone
// failure leaves the height rendering and surfaces no error.
func (p *Prober) BuildBPCard(ctx context.Context, req BPRequest) types.CardData {
	start := time.Now()
	card := types.CardData{
		Kind:    types.KindBlockProducer,
		ID:      req.ID,
		NodeKey: req.NodeKey,
		Title:   req.Entry.Title,
	}
	if req.Entry.Role != "" {
		card.Role = strPtr(req.Entry.Role)
	}
	defer p.observe(types.KindBlockProducer, start, &card)

	opts := p.fetchOptions(req.Timeout)

	var (
		heights    *types.BlockHeights
		heightsErr error
		status     *types.StatusSummary
		statusErr  error
	)

	var g errgroup.Group
	g.Go(func() error {
		body, err := util.Get(ctx, p.client, opts, req.Entry.BaseURL, "v1/block_heights", map[string]string{"format": "json"})
		if err != nil {
			heightsErr = err
			return nil
		}
		heights, heightsErr = parseBlockHeights(body)
		return nil
	})
	g.Go(func() error {
		body, err := util.Get(ctx, p.client, opts, req.Entry.BaseURL, "v1/status", map[string]string{"format": "json"})
		if err != nil {
			statusErr = err
			return nil
		}
		status, statusErr = parseStatusSummary(body)
		return nil
	})
	_ = g.Wait()

	if heights != nil {
		applied := heights.Applied
		card.Height = &applied
	}
	if status != nil {
		summary := summarizeBlocks(status, float64(time.Now().UnixMilli()))
		card.Leader = summary.Leader
		card.LastAppliedAgeSec = summary.LastAppliedAgeSec
		card.AvgProductionDelayMs = summary.AvgProductionDelayMs
		card.AvgVerificationDelayMs = summary.AvgVerificationDelayMs
		card.SparkSeries = summary.Spark
	}

	// first captured failure wins; a lone status failure is not surfaced
	card.Error = sanitizedPtr(heightsErr)
	if statusErr != nil {
		p.logger.Debug("status call failed",
			slog.String("node", req.NodeKey),
			slog.Any("error", statusErr))
	}

	return card
}
