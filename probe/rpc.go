package probe

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nodepulse/nodepulse/types"
	"github.com/nodepulse/nodepulse/util"
)

// rpcSample is one timed getVersion call.
type rpcSample struct {
	durationMs float64
	info       *types.RPCBuildInfo
	err        error
}

// BuildRPCCard probes one RPC node: a height query and a latency sampling
// sequence run independently, and either failing leaves the other's result
// intact. The height failure wins the node error slot; a sampling failure is
// reported only when every sample failed and no earlier error was captured.
func (p *Prober) BuildRPCCard(ctx context.Context, req RPCRequest) types.CardData {
	start := time.Now()
	card := types.CardData{
		Kind:    types.KindRPC,
		ID:      req.ID,
		NodeKey: req.NodeKey,
		Title:   req.Entry.Title,
	}
	defer p.observe(types.KindRPC, start, &card)

	opts := p.fetchOptions(req.Timeout)

	var (
		height    *int64
		heightErr error
		samples   []rpcSample
	)

	var g errgroup.Group
	g.Go(func() error {
		payload := types.NewJSONRPCRequest("getBlockHeight", []any{"main"})
		body, err := util.PostJSON(ctx, p.client, opts, req.Entry.URL, payload)
		if err != nil {
			heightErr = err
			return nil
		}
		h, err := parseRPCHeight(body)
		if err != nil {
			heightErr = err
			return nil
		}
		height = &h
		return nil
	})
	if !req.SkipLatencySampling {
		g.Go(func() error {
			samples = p.sampleRPCLatency(ctx, req.Entry.URL, opts)
			return nil
		})
	}
	_ = g.Wait()

	card.Height = height

	var samplingErr error
	if !req.SkipLatencySampling {
		first, avg, info, err := foldSamples(samples)
		card.RPCFirstResponseMs = first
		card.RPCAverageResponseMs = avg
		if info != nil {
			card.RPCVersion = info.Version
			card.RPCCommit = info.Commit
			card.RPCBuildTime = info.BuildTimeUTC
		}
		samplingErr = err
	}

	// first captured failure wins
	if heightErr != nil {
		card.Error = sanitizedPtr(heightErr)
	} else if samplingErr != nil {
		card.Error = sanitizedPtr(samplingErr)
	}

	return card
}

// sampleRPCLatency issues the configured number of getVersion calls: the
// first is awaited alone for an immediate reading, the remainder fire
// together. Samples never retry; a retried call is not a latency
// measurement.
func (p *Prober) sampleRPCLatency(ctx context.Context, endpoint string, opts util.FetchOptions) []rpcSample {
	total := p.cfg.GetRPCLatencySamples()
	if total < 1 {
		total = 1
	}
	sampleOpts := opts
	sampleOpts.MaxRetries = 0
	sampleOpts.RetriesSet = true

	samples := make([]rpcSample, total)
	samples[0] = p.versionSample(ctx, endpoint, sampleOpts)

	var wg sync.WaitGroup
	for i := 1; i < total; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			samples[i] = p.versionSample(ctx, endpoint, sampleOpts)
		}(i)
	}
	wg.Wait()

	return samples
}

func (p *Prober) versionSample(ctx context.Context, endpoint string, opts util.FetchOptions) rpcSample {
	start := time.Now()
	payload := types.NewJSONRPCRequest("getVersion", nil)
	body, err := util.PostJSON(ctx, p.client, opts, endpoint, payload)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		return rpcSample{durationMs: elapsed, err: err}
	}
	info, err := parseBuildInfo(body)
	if err != nil {
		return rpcSample{durationMs: elapsed, err: err}
	}
	return rpcSample{durationMs: elapsed, info: info}
}

// foldSamples derives the latency fields: first successful response time,
// average across all successful samples, and build info from the first
// success. With zero successes both fields stay nil and the first captured
// sample failure is returned.
func foldSamples(samples []rpcSample) (first, avg *float64, info *types.RPCBuildInfo, err error) {
	var sum float64
	var successes int
	var firstErr error

	for _, sample := range samples {
		if sample.err != nil {
			if firstErr == nil {
				firstErr = sample.err
			}
			continue
		}
		if successes == 0 {
			d := sample.durationMs
			first = &d
			info = sample.info
		}
		sum += sample.durationMs
		successes++
	}

	if successes == 0 {
		return nil, nil, nil, firstErr
	}
	mean := sum / float64(successes)
	return first, &mean, info, nil
}
