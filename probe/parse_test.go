package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlockHeights(t *testing.T) {
	t.Run("top-level payload", func(t *testing.T) {
		body := []byte(`{"applied":10,"proven":9,"committed":8,"appended":11,"known":12}`)
		heights, err := parseBlockHeights(body)
		require.NoError(t, err)
		assert.Equal(t, int64(10), heights.Applied)
		assert.Equal(t, int64(12), heights.Known)
	})

	t.Run("result-nested payload", func(t *testing.T) {
		body := []byte(`{"result":{"applied":10,"proven":9,"committed":8,"appended":11,"known":12}}`)
		heights, err := parseBlockHeights(body)
		require.NoError(t, err)
		assert.Equal(t, int64(10), heights.Applied)
	})

	t.Run("numeric strings accepted", func(t *testing.T) {
		body := []byte(`{"applied":"10","proven":"9","committed":"8","appended":"11","known":"12"}`)
		heights, err := parseBlockHeights(body)
		require.NoError(t, err)
		assert.Equal(t, int64(11), heights.Appended)
	})

	t.Run("missing field fails", func(t *testing.T) {
		body := []byte(`{"applied":10,"proven":9,"committed":8,"appended":11}`)
		_, err := parseBlockHeights(body)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing numeric fields")
	})

	t.Run("api-reported error raised", func(t *testing.T) {
		body := []byte(`{"error":"node is catching up"}`)
		_, err := parseBlockHeights(body)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "node is catching up")
	})

	t.Run("error record with message", func(t *testing.T) {
		body := []byte(`{"error":{"message":"internal failure"}}`)
		_, err := parseBlockHeights(body)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "internal failure")
	})

	t.Run("non-object payload fails", func(t *testing.T) {
		_, err := parseBlockHeights([]byte(`[1,2,3]`))
		require.Error(t, err)

		_, err = parseBlockHeights([]byte(`not json`))
		require.Error(t, err)
	})
}

func TestParseStatusSummary(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		body := []byte(`{"result":{
			"name":"bp-1","now":1700000000000,"cpu":0.5,"ram":0.8,"id_pha":"00aabb",
			"blocks":[
				{"index":1,"time_applied":1699999000000,"production_delay":120,"verification_delay":30,"num_transactions":4,"num_changes":2,"raft_leader":"node-a","raft_leader_pha":"00ccdd"},
				{"index":2,"time_applied":1699999500000,"production_delay":150,"verification_delay":40}
			],
			"gas_token":{"symbol":"GAS","decimals":8}
		}}`)

		summary, err := parseStatusSummary(body)
		require.NoError(t, err)
		require.NotNil(t, summary.Name)
		assert.Equal(t, "bp-1", *summary.Name)
		require.NotNil(t, summary.NowMs)
		require.Len(t, summary.Blocks, 2)
		require.NotNil(t, summary.Blocks[0].NumTransactions)
		assert.Equal(t, int64(4), *summary.Blocks[0].NumTransactions)
		assert.Nil(t, summary.Blocks[1].NumTransactions)
		require.NotNil(t, summary.GasToken)
		assert.Equal(t, "GAS", *summary.GasToken.Symbol)
		assert.Nil(t, summary.DataToken)
	})

	t.Run("all fields optional", func(t *testing.T) {
		summary, err := parseStatusSummary([]byte(`{"result":{}}`))
		require.NoError(t, err)
		assert.Nil(t, summary.Name)
		assert.Nil(t, summary.NowMs)
		assert.Nil(t, summary.Blocks)
	})

	t.Run("malformed blocks dropped, valid kept", func(t *testing.T) {
		body := []byte(`{"result":{"blocks":[
			{"index":1,"time_applied":1000,"production_delay":10,"verification_delay":5},
			{"index":2},
			"not a record",
			{"index":3,"time_applied":3000,"production_delay":30,"verification_delay":15}
		]}}`)
		summary, err := parseStatusSummary(body)
		require.NoError(t, err)
		require.Len(t, summary.Blocks, 2)
		assert.Equal(t, int64(1), summary.Blocks[0].Index)
		assert.Equal(t, int64(3), summary.Blocks[1].Index)
	})

	t.Run("no valid blocks yields nil, not empty", func(t *testing.T) {
		body := []byte(`{"result":{"blocks":[{"index":1},"junk"]}}`)
		summary, err := parseStatusSummary(body)
		require.NoError(t, err)
		assert.Nil(t, summary.Blocks)
	})
}

func TestParseRPCHeight(t *testing.T) {
	t.Run("numeric result", func(t *testing.T) {
		height, err := parseRPCHeight([]byte(`{"jsonrpc":"2.0","result":424242,"id":1}`))
		require.NoError(t, err)
		assert.Equal(t, int64(424242), height)
	})

	t.Run("jsonrpc error raised", func(t *testing.T) {
		_, err := parseRPCHeight([]byte(`{"jsonrpc":"2.0","error":{"code":-32601,"message":"method not found"},"id":1}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "method not found")
	})

	t.Run("missing result fails", func(t *testing.T) {
		_, err := parseRPCHeight([]byte(`{"jsonrpc":"2.0","id":1}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing numeric result")
	})
}

func TestParseBuildInfo(t *testing.T) {
	info, err := parseBuildInfo([]byte(`{"result":{"version":"1.2.3","commit":"abc123","buildTimeUtc":"2024-01-01T00:00:00Z"}}`))
	require.NoError(t, err)
	require.NotNil(t, info.Version)
	assert.Equal(t, "1.2.3", *info.Version)
	require.NotNil(t, info.Commit)
	require.NotNil(t, info.BuildTimeUTC)

	// fields degrade independently
	info, err = parseBuildInfo([]byte(`{"result":{"version":"1.2.3"}}`))
	require.NoError(t, err)
	require.NotNil(t, info.Version)
	assert.Nil(t, info.Commit)
}

func TestParseExplorerLatestBlock(t *testing.T) {
	t.Run("height and timestamp", func(t *testing.T) {
		latest, err := parseExplorerLatestBlock([]byte(`{"blockHeight":777,"utcTimestamp":1700000000}`))
		require.NoError(t, err)
		assert.Equal(t, int64(777), latest.Height)
		require.NotNil(t, latest.TimestampSec)
		assert.Equal(t, float64(1700000000), *latest.TimestampSec)
	})

	t.Run("timestamp optional", func(t *testing.T) {
		latest, err := parseExplorerLatestBlock([]byte(`{"height":777}`))
		require.NoError(t, err)
		assert.Nil(t, latest.TimestampSec)
	})

	t.Run("missing height fails", func(t *testing.T) {
		_, err := parseExplorerLatestBlock([]byte(`{"timestamp":1700000000}`))
		require.Error(t, err)
	})
}

func TestParseTokenSupply(t *testing.T) {
	supply, err := parseTokenSupply([]byte(`{"supply":"123456789012345678901234567890"}`))
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", supply)

	supply, err = parseTokenSupply([]byte(`{"result":{"totalSupply":"1000"}}`))
	require.NoError(t, err)
	assert.Equal(t, "1000", supply)

	_, err = parseTokenSupply([]byte(`{}`))
	require.Error(t, err)
}
