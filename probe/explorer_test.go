package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodepulse/nodepulse/config"
	"github.com/nodepulse/nodepulse/types"
)

func explorerRequest(apiBase string) ExplorerRequest {
	return ExplorerRequest{
		ID:      "testnet/explorer-1",
		NodeKey: "explorer-1",
		Entry:   config.ExplorerEntry{Title: "Explorer 1", URL: "https://explorer.example", APIBase: apiBase},
	}
}

func TestBuildExplorerCardSuccess(t *testing.T) {
	now := time.Now().Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blocks/latest", r.URL.Path)
		fmt.Fprintf(w, `{"height": 987654, "timestamp": %d}`, now-42)
	}))
	defer srv.Close()

	card := newTestProber(t).BuildExplorerCard(context.Background(), explorerRequest(srv.URL))

	assert.Equal(t, types.KindExplorer, card.Kind)
	assert.Nil(t, card.Error)
	require.NotNil(t, card.Height)
	assert.Equal(t, int64(987654), *card.Height)
	require.NotNil(t, card.ExplorerLatencyMs)
	assert.Greater(t, *card.ExplorerLatencyMs, 0.0)
	require.NotNil(t, card.ExplorerBlockAgeSec)
	assert.InDelta(t, 42, *card.ExplorerBlockAgeSec, 2)
}

func TestBuildExplorerCardAltFieldNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"blockHeight": 1000, "utcTimestamp": %d}`, time.Now().Unix())
	}))
	defer srv.Close()

	card := newTestProber(t).BuildExplorerCard(context.Background(), explorerRequest(srv.URL))

	assert.Nil(t, card.Error)
	require.NotNil(t, card.Height)
	assert.Equal(t, int64(1000), *card.Height)
	require.NotNil(t, card.ExplorerBlockAgeSec)
}

func TestBuildExplorerCardMissingTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"height": 500}`)
	}))
	defer srv.Close()

	card := newTestProber(t).BuildExplorerCard(context.Background(), explorerRequest(srv.URL))

	assert.Nil(t, card.Error)
	require.NotNil(t, card.Height)
	assert.Nil(t, card.ExplorerBlockAgeSec)
	require.NotNil(t, card.ExplorerLatencyMs)
}

func TestBuildExplorerCardFutureTimestampClamped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"height": 500, "timestamp": %d}`, time.Now().Unix()+3600)
	}))
	defer srv.Close()

	card := newTestProber(t).BuildExplorerCard(context.Background(), explorerRequest(srv.URL))

	require.NotNil(t, card.ExplorerBlockAgeSec)
	assert.Equal(t, 0.0, *card.ExplorerBlockAgeSec)
}

func TestBuildExplorerCardFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	card := newTestProber(t).BuildExplorerCard(context.Background(), explorerRequest(srv.URL))

	assert.Nil(t, card.Height)
	assert.Nil(t, card.ExplorerLatencyMs)
	assert.Nil(t, card.ExplorerBlockAgeSec)
	require.NotNil(t, card.Error)
	assert.Equal(t, "not found", *card.Error)
}

func TestBuildExplorerCardMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"something": "else"}`)
	}))
	defer srv.Close()

	card := newTestProber(t).BuildExplorerCard(context.Background(), explorerRequest(srv.URL))

	assert.Nil(t, card.Height)
	assert.Nil(t, card.ExplorerLatencyMs)
	require.NotNil(t, card.Error)
	assert.Equal(t, "unexpected response", *card.Error)
}

func TestFetchTokenSupply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tokens/PULSE/supply", r.URL.Path)
		fmt.Fprint(w, `{"supply": "123456789000000"}`)
	}))
	defer srv.Close()

	entry := config.ExplorerEntry{Title: "Explorer 1", APIBase: srv.URL}
	supply, err := newTestProber(t).FetchTokenSupply(context.Background(), entry, "PULSE", 0)
	require.NoError(t, err)
	assert.Equal(t, "123456789000000", supply)
}

func TestFetchTokenSupplyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	entry := config.ExplorerEntry{Title: "Explorer 1", APIBase: srv.URL}
	_, err := newTestProber(t).FetchTokenSupply(context.Background(), entry, "PULSE", 0)
	require.Error(t, err)
	assert.Equal(t, "HTTP 502", err.Error())
}
