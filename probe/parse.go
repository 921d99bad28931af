package probe

import (
	"encoding/json"

	"github.com/nodepulse/nodepulse/types"
	"github.com/nodepulse/nodepulse/util"
)

// decodeRecord unmarshals a payload, requires a top-level JSON object, and
// raises any error the API reported inside an otherwise valid payload. The
// error field may be a plain string or a record with a message string.
func decodeRecord(endpoint string, body []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, types.NewPayloadError(endpoint, "response is not valid JSON")
	}
	rec, ok := util.AsRecord(raw)
	if !ok {
		return nil, types.NewPayloadError(endpoint, "response is not a JSON object")
	}
	if msg, found := apiErrorMessage(rec); found {
		return nil, types.NewRemoteAPIError(endpoint, msg)
	}
	return rec, nil
}

func apiErrorMessage(rec map[string]any) (string, bool) {
	v, ok := rec["error"]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := util.AsString(v); ok {
		return s, true
	}
	if errRec, ok := util.AsRecord(v); ok {
		if msg := util.StrField(errRec, "message"); msg != nil {
			return *msg, true
		}
	}
	return "unspecified error", true
}

// resultOrSelf unwraps a nested result sub-record when the endpoint wraps
// its payload that way.
func resultOrSelf(rec map[string]any) map[string]any {
	if result, ok := util.RecField(rec, "result"); ok {
		return result
	}
	return rec
}

func parseBlockHeights(body []byte) (*types.BlockHeights, error) {
	rec, err := decodeRecord("block_heights", body)
	if err != nil {
		return nil, err
	}
	rec = resultOrSelf(rec)

	applied := util.NumField(rec, "applied")
	proven := util.NumField(rec, "proven")
	committed := util.NumField(rec, "committed")
	appended := util.NumField(rec, "appended")
	known := util.NumField(rec, "known")
	if applied == nil || proven == nil || committed == nil || appended == nil || known == nil {
		return nil, types.NewPayloadError("block_heights", "missing numeric fields")
	}

	return &types.BlockHeights{
		Applied:   int64(*applied),
		Proven:    int64(*proven),
		Committed: int64(*committed),
		Appended:  int64(*appended),
		Known:     int64(*known),
	}, nil
}

func parseStatusSummary(body []byte) (*types.StatusSummary, error) {
	rec, err := decodeRecord("status", body)
	if err != nil {
		return nil, err
	}
	rec = resultOrSelf(rec)

	summary := &types.StatusSummary{
		Name:    util.StrField(rec, "name"),
		NowMs:   util.NumField(rec, "now"),
		CPU:     util.NumField(rec, "cpu"),
		RAM:     util.NumField(rec, "ram"),
		Address: util.StrField(rec, "id_pha"),
	}
	if arr, ok := util.ArrField(rec, "blocks"); ok {
		summary.Blocks = parseStatusBlocks(arr)
	}
	if tokenRec, ok := util.RecField(rec, "gas_token"); ok {
		summary.GasToken = parseTokenInfo(tokenRec)
	}
	if tokenRec, ok := util.RecField(rec, "data_token"); ok {
		summary.DataToken = parseTokenInfo(tokenRec)
	}
	return summary, nil
}

// parseStatusBlocks drops malformed entries instead of failing the whole
// sequence; a partial valid list beats total failure. Returns nil, not an
// empty slice, when no entry validated, so callers can tell "no block data"
// from "zero blocks".
func parseStatusBlocks(arr []any) []types.StatusBlock {
	var blocks []types.StatusBlock
	for _, entry := range arr {
		rec, ok := util.AsRecord(entry)
		if !ok {
			continue
		}
		index := util.NumField(rec, "index")
		timeApplied := util.NumField(rec, "time_applied")
		productionDelay := util.NumField(rec, "production_delay")
		verificationDelay := util.NumField(rec, "verification_delay")
		if index == nil || timeApplied == nil || productionDelay == nil || verificationDelay == nil {
			continue
		}

		block := types.StatusBlock{
			Index:               int64(*index),
			TimeAppliedMs:       *timeApplied,
			ProductionDelayMs:   *productionDelay,
			VerificationDelayMs: *verificationDelay,
			RaftLeader:          util.StrField(rec, "raft_leader"),
			RaftLeaderPha:       util.StrField(rec, "raft_leader_pha"),
		}
		if n := util.NumField(rec, "num_transactions"); n != nil {
			count := int64(*n)
			block.NumTransactions = &count
		}
		if n := util.NumField(rec, "num_changes"); n != nil {
			count := int64(*n)
			block.NumChanges = &count
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func parseTokenInfo(rec map[string]any) *types.TokenInfo {
	return &types.TokenInfo{
		Symbol:   util.StrField(rec, "symbol"),
		Decimals: util.NumField(rec, "decimals"),
	}
}

func parseRPCHeight(body []byte) (int64, error) {
	rec, err := decodeRecord("getBlockHeight", body)
	if err != nil {
		return 0, err
	}
	height := util.NumField(rec, "result")
	if height == nil {
		return 0, types.NewPayloadError("getBlockHeight", "missing numeric result")
	}
	return int64(*height), nil
}

func parseBuildInfo(body []byte) (*types.RPCBuildInfo, error) {
	rec, err := decodeRecord("getVersion", body)
	if err != nil {
		return nil, err
	}
	rec = resultOrSelf(rec)

	return &types.RPCBuildInfo{
		Version:      util.StrField(rec, "version"),
		Commit:       util.StrField(rec, "commit"),
		BuildTimeUTC: util.StrField(rec, "buildTimeUtc"),
	}, nil
}

func parseExplorerLatestBlock(body []byte) (*types.ExplorerLatestBlock, error) {
	rec, err := decodeRecord("latest_block", body)
	if err != nil {
		return nil, err
	}
	rec = resultOrSelf(rec)

	height := util.NumField(rec, "height")
	if height == nil {
		height = util.NumField(rec, "blockHeight")
	}
	if height == nil {
		return nil, types.NewPayloadError("latest_block", "missing numeric fields")
	}

	timestamp := util.NumField(rec, "timestamp")
	if timestamp == nil {
		timestamp = util.NumField(rec, "utcTimestamp")
	}

	return &types.ExplorerLatestBlock{
		Height:       int64(*height),
		TimestampSec: timestamp,
	}, nil
}

// parseTokenSupply keeps the supply in its decimal string form; converting
// through float64 would lose precision on large token-supply figures.
func parseTokenSupply(body []byte) (string, error) {
	rec, err := decodeRecord("token_supply", body)
	if err != nil {
		return "", err
	}
	rec = resultOrSelf(rec)

	supply := util.StrField(rec, "supply")
	if supply == nil {
		supply = util.StrField(rec, "totalSupply")
	}
	if supply == nil {
		return "", types.NewPayloadError("token_supply", "missing supply field")
	}
	return *supply, nil
}
