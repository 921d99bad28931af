package probe

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nodepulse/nodepulse/config"
	"github.com/nodepulse/nodepulse/types"
	"github.com/nodepulse/nodepulse/util"
)

// BuildExplorerCard probes one explorer with a single timed call to its
// indexing API. Latency is reported only on success; a failed call's
// duration says nothing about the explorer's responsiveness.
func (p *Prober) BuildExplorerCard(ctx context.Context, req ExplorerRequest) types.CardData {
	start := time.Now()
	card := types.CardData{
		Kind:    types.KindExplorer,
		ID:      req.ID,
		NodeKey: req.NodeKey,
		Title:   req.Entry.Title,
	}
	defer p.observe(types.KindExplorer, start, &card)

	opts := p.fetchOptions(req.Timeout)

	callStart := time.Now()
	body, err := util.Get(ctx, p.client, opts, apiBase(req.Entry), "blocks/latest", nil)
	elapsedMs := float64(time.Since(callStart).Microseconds()) / 1000
	if err != nil {
		card.Error = sanitizedPtr(err)
		return card
	}

	latest, err := parseExplorerLatestBlock(body)
	if err != nil {
		card.Error = sanitizedPtr(err)
		return card
	}

	height := latest.Height
	card.Height = &height
	card.ExplorerLatencyMs = &elapsedMs
	if latest.TimestampSec != nil {
		age := float64(time.Now().Unix()) - *latest.TimestampSec
		if age < 0 {
			age = 0
		}
		card.ExplorerBlockAgeSec = &age
	}

	return card
}

// FetchTokenSupply queries the explorer indexing API for a token's supply
// and returns it as a decimal string, untouched by floating point.
func (p *Prober) FetchTokenSupply(ctx context.Context, entry config.ExplorerEntry, symbol string, timeout time.Duration) (string, error) {
	opts := p.fetchOptions(timeout)
	path := fmt.Sprintf("tokens/%s/supply", url.PathEscape(symbol))
	body, err := util.Get(ctx, p.client, opts, apiBase(entry), path, nil)
	if err != nil {
		return "", err
	}
	return parseTokenSupply(body)
}

// apiBase normalizes an explorer API base so paths append cleanly.
func apiBase(entry config.ExplorerEntry) string {
	if strings.HasSuffix(entry.APIBase, "/") {
		return entry.APIBase
	}
	return entry.APIBase + "/"
}
