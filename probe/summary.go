package probe

import (
	"github.com/nodepulse/nodepulse/types"
)

// blockSummary holds the display fields derived from a block-sample window.
type blockSummary struct {
	Leader                 *string
	LastAppliedAgeSec      *float64
	AvgProductionDelayMs   *float64
	AvgVerificationDelayMs *float64
	Spark                  []float64
}

// summarizeBlocks folds a chronologically ordered sample window into card
// fields. localNowMs is the fallback clock; the server-reported time wins
// when the status payload carried one. An empty or absent window yields an
// all-nil summary.
func summarizeBlocks(status *types.StatusSummary, localNowMs float64) blockSummary {
	var summary blockSummary
	if status == nil || len(status.Blocks) == 0 {
		return summary
	}

	blocks := status.Blocks
	last := blocks[len(blocks)-1]

	// prefer the fully-qualified address form of the leader identity
	if last.RaftLeaderPha != nil {
		summary.Leader = last.RaftLeaderPha
	} else if last.RaftLeader != nil {
		summary.Leader = last.RaftLeader
	}

	nowMs := localNowMs
	if status.NowMs != nil {
		nowMs = *status.NowMs
	}
	age := (nowMs - last.TimeAppliedMs) / 1000
	if age < 0 {
		age = 0
	}
	summary.LastAppliedAgeSec = &age

	var prodSum, verifSum float64
	spark := make([]float64, 0, len(blocks))
	for _, block := range blocks {
		prodSum += block.ProductionDelayMs
		verifSum += block.VerificationDelayMs
		spark = append(spark, block.ProductionDelayMs)
	}
	n := float64(len(blocks))
	avgProd := prodSum / n
	avgVerif := verifSum / n
	summary.AvgProductionDelayMs = &avgProd
	summary.AvgVerificationDelayMs = &avgVerif
	summary.Spark = spark

	return summary
}
