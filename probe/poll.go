package probe

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/nodepulse/nodepulse/config"
	"github.com/nodepulse/nodepulse/types"
)

// PollOptions controls one batch poll cycle.
type PollOptions struct {
	// Light skips the RPC latency sampling sequence, the shell/light poll
	// variant.
	Light bool
}

// PollNetwork fans out every probe of a network in parallel and waits for
// all of them. A node failing never fails the batch; its card carries the
// error. Cards come back in deterministic order: block producers, RPCs,
// explorers, each sorted by node key.
func (p *Prober) PollNetwork(ctx context.Context, networkKey string, network config.Network, opts PollOptions) []types.CardData {
	fc := p.cfg.GetFetchConfig()
	timeout := fc.AggregationTimeout

	bpKeys := sortedKeys(network.BPs)
	rpcKeys := sortedKeys(network.RPCs)
	explorerKeys := sortedKeys(network.Explorers)

	cards := make([]types.CardData, len(bpKeys)+len(rpcKeys)+len(explorerKeys))

	var g errgroup.Group
	slot := 0
	for _, nodeKey := range bpKeys {
		i, key, entry := slot, nodeKey, network.BPs[nodeKey]
		g.Go(func() error {
			cards[i] = p.BuildBPCard(ctx, BPRequest{
				ID:      cardID(networkKey, key),
				NodeKey: key,
				Entry:   entry,
				Timeout: timeout,
			})
			return nil
		})
		slot++
	}
	for _, nodeKey := range rpcKeys {
		i, key, entry := slot, nodeKey, network.RPCs[nodeKey]
		g.Go(func() error {
			cards[i] = p.BuildRPCCard(ctx, RPCRequest{
				ID:                  cardID(networkKey, key),
				NodeKey:             key,
				Entry:               entry,
				Timeout:             timeout,
				SkipLatencySampling: opts.Light,
			})
			return nil
		})
		slot++
	}
	for _, nodeKey := range explorerKeys {
		i, key, entry := slot, nodeKey, network.Explorers[nodeKey]
		g.Go(func() error {
			cards[i] = p.BuildExplorerCard(ctx, ExplorerRequest{
				ID:      cardID(networkKey, key),
				NodeKey: key,
				Entry:   entry,
				Timeout: timeout,
			})
			return nil
		})
		slot++
	}
	_ = g.Wait()

	return cards
}

func cardID(networkKey, nodeKey string) string {
	return fmt.Sprintf("%s/%s", networkKey, nodeKey)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
