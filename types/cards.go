package types

// CardKind identifies which probe produced a card.
type CardKind string

const (
	KindBlockProducer CardKind = "bp"
	KindRPC           CardKind = "rpc"
	KindExplorer      CardKind = "explorer"
)

// CardData is the engine's output record for one node. Fields that do not
// apply to the card's kind stay nil. Every card is a complete snapshot for
// its kind: consumers that merge partial refreshes skip nil fields, so a
// populated field is never clobbered by a transient nil from a failed poll.
type CardData struct {
	Kind    CardKind `json:"kind"`
	ID      string   `json:"id"`
	NodeKey string   `json:"node_key"`
	Title   string   `json:"title"`
	Role    *string  `json:"role,omitempty"`

	Height *int64  `json:"height"`
	Error  *string `json:"error"`

	// block producer fields
	Leader                 *string   `json:"leader,omitempty"`
	AvgProductionDelayMs   *float64  `json:"avg_production_delay_ms,omitempty"`
	AvgVerificationDelayMs *float64  `json:"avg_verification_delay_ms,omitempty"`
	LastAppliedAgeSec      *float64  `json:"last_applied_age_sec,omitempty"`
	SparkSeries            []float64 `json:"spark_series,omitempty"`

	// rpc fields
	RPCVersion           *string  `json:"rpc_version,omitempty"`
	RPCCommit            *string  `json:"rpc_commit,omitempty"`
	RPCBuildTime         *string  `json:"rpc_build_time,omitempty"`
	RPCFirstResponseMs   *float64 `json:"rpc_first_response_ms,omitempty"`
	RPCAverageResponseMs *float64 `json:"rpc_average_response_ms,omitempty"`

	// explorer fields
	ExplorerBlockAgeSec *float64 `json:"explorer_block_age_sec,omitempty"`
	ExplorerLatencyMs   *float64 `json:"explorer_latency_ms,omitempty"`
}
