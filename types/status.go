package types

// BlockHeights reports a block producer's ledger progress at the different
// durability stages. No ordering between stages is guaranteed; a lagging
// stage may momentarily exceed another due to sampling skew.
type BlockHeights struct {
	Applied   int64 `json:"applied"`
	Proven    int64 `json:"proven"`
	Committed int64 `json:"committed"`
	Appended  int64 `json:"appended"`
	Known     int64 `json:"known"`
}

// StatusBlock is one historical block sample from a block producer's status
// endpoint. Samples arrive in chronological order, most recent last.
// NumTransactions and NumChanges are pointers so that an absent count stays
// distinguishable from a block with zero transactions.
type StatusBlock struct {
	Index               int64
	TimeAppliedMs       float64
	ProductionDelayMs   float64
	VerificationDelayMs float64
	NumTransactions     *int64
	NumChanges          *int64
	RaftLeader          *string
	RaftLeaderPha       *string
}

// TokenInfo carries optional token metadata from a status payload.
type TokenInfo struct {
	Symbol   *string
	Decimals *float64
}

// StatusSummary is a snapshot of a block producer node. Older node versions
// omit parts of the status surface, so every field is independently optional.
// Blocks is nil when the payload carried no valid samples, which is not the
// same as an empty list.
type StatusSummary struct {
	Name      *string
	NowMs     *float64
	CPU       *float64
	RAM       *float64
	Address   *string
	Blocks    []StatusBlock
	GasToken  *TokenInfo
	DataToken *TokenInfo
}

// RPCBuildInfo is the getVersion payload of an RPC node.
type RPCBuildInfo struct {
	Version      *string
	Commit       *string
	BuildTimeUTC *string
}

// ExplorerLatestBlock is the most recent block known to an explorer's
// indexing API.
type ExplorerLatestBlock struct {
	Height       int64
	TimestampSec *float64
}
