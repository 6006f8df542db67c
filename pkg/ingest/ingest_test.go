package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricecore/oracle-core/pkg/quote"
	"github.com/pricecore/oracle-core/pkg/retry"
)

func TestMockIngestor_FetchQuotes_ReturnsSeeded(t *testing.T) {
	m := NewMockIngestor("mock")
	m.Seed("AAPL", quote.RawQuote{Symbol: "AAPL", Price: 100, Timestamp: 1, Source: "mock"})

	raws, err := m.FetchQuotes(context.Background(), []string{"AAPL", "UNSEEDED"})
	require.NoError(t, err)
	assert.Len(t, raws, 1)
	assert.Equal(t, "AAPL", raws[0].Symbol)
}

func TestHTTPIngestor_FetchQuotes_DecodesJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]wireQuote{
			{Symbol: "AAPL", Price: 100.5, Timestamp: 1000, Source: "mock"},
		})
	}))
	defer server.Close()

	ing := NewHTTPIngestor(HTTPIngestorConfig{
		Name:        "test",
		BaseURL:     server.URL,
		RetryPolicy: retry.Policy{MaxAttempts: 1, Delay: time.Millisecond, Mode: retry.Fixed},
	})

	raws, err := ing.FetchQuotes(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "AAPL", raws[0].Symbol)
	assert.Equal(t, 100.5, raws[0].Price)
}

func TestHTTPIngestor_FetchQuotes_RetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode([]wireQuote{{Symbol: "AAPL", Price: 1, Timestamp: 1, Source: "mock"}})
	}))
	defer server.Close()

	ing := NewHTTPIngestor(HTTPIngestorConfig{
		Name:        "test",
		BaseURL:     server.URL,
		RetryPolicy: retry.Policy{MaxAttempts: 3, Delay: time.Millisecond, Mode: retry.Fixed},
	})

	_, err := ing.FetchQuotes(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestHTTPIngestor_FetchQuotes_ExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ing := NewHTTPIngestor(HTTPIngestorConfig{
		Name:        "test",
		BaseURL:     server.URL,
		RetryPolicy: retry.Policy{MaxAttempts: 2, Delay: time.Millisecond, Mode: retry.Fixed},
	})

	_, err := ing.FetchQuotes(context.Background(), []string{"AAPL"})
	assert.ErrorIs(t, err, ErrProviderError)
}

func TestWebSocketIngestor_FetchQuotesUnsupported(t *testing.T) {
	w := NewWebSocketIngestor(WebSocketIngestorConfig{Name: "ws", URL: "ws://example.invalid"})
	_, err := w.FetchQuotes(context.Background(), nil)
	assert.ErrorIs(t, err, ErrStreamingNotSupported)
}

func TestWebSocketIngestor_StartsDisconnected(t *testing.T) {
	w := NewWebSocketIngestor(WebSocketIngestorConfig{Name: "ws", URL: "ws://example.invalid"})
	assert.Equal(t, StateDisconnected, w.State())
}

func TestWebSocketIngestor_StreamDeliversQuoteAndTransitionsToOpen(t *testing.T) {
	upgrader := websocket.Upgrader{}
	connected := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		close(connected)

		payload, _ := json.Marshal(wireQuote{Symbol: "AAPL", Price: 100, Timestamp: 1, Source: "mock"})
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))

		// Hold the connection open until the client disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	w := NewWebSocketIngestor(WebSocketIngestorConfig{Name: "ws", URL: wsURL})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := w.Stream(ctx)
	require.NoError(t, err)

	select {
	case <-connected:
	case <-time.After(time.Second):
		t.Fatal("server never observed a client connection")
	}

	select {
	case raw := <-events:
		assert.Equal(t, "AAPL", raw.Symbol)
		assert.Equal(t, 100.0, raw.Price)
	case <-time.After(time.Second):
		t.Fatal("did not receive streamed quote")
	}

	require.Eventually(t, func() bool {
		return w.State() == StateOpen
	}, time.Second, 5*time.Millisecond)
}
