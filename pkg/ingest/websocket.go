package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pricecore/oracle-core/pkg/quote"
)

// State is one node of the reconnecting WebSocket ingestor's state
// machine, per spec.md §9: {disconnected, connecting, open, backoff},
// plus a terminal destroyed state that inhibits further transitions.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateOpen         State = "open"
	StateBackoff      State = "backoff"
	StateDestroyed    State = "destroyed"
)

// WebSocketIngestor is a StreamingIngestor backed by a reconnecting
// gorilla/websocket connection. Reconnection applies exponential
// backoff, resetting the attempt count on a successful open, per
// spec.md §4.6.
type WebSocketIngestor struct {
	name          string
	url           string
	headers       http.Header
	baseDelay     time.Duration
	maxDelay      time.Duration
	handshakeWait time.Duration

	mu    sync.Mutex
	state State
}

var _ StreamingIngestor = (*WebSocketIngestor)(nil)

// WebSocketIngestorConfig configures a WebSocketIngestor.
type WebSocketIngestorConfig struct {
	Name          string
	URL           string
	Headers       http.Header
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	HandshakeWait time.Duration
}

// NewWebSocketIngestor builds a WebSocketIngestor from cfg, applying
// defaults for unset delays.
func NewWebSocketIngestor(cfg WebSocketIngestorConfig) *WebSocketIngestor {
	baseDelay := cfg.BaseDelay
	if baseDelay == 0 {
		baseDelay = time.Second
	}
	maxDelay := cfg.MaxDelay
	if maxDelay == 0 {
		maxDelay = 60 * time.Second
	}
	handshakeWait := cfg.HandshakeWait
	if handshakeWait == 0 {
		handshakeWait = 10 * time.Second
	}
	return &WebSocketIngestor{
		name:          cfg.Name,
		url:           cfg.URL,
		headers:       cfg.Headers,
		baseDelay:     baseDelay,
		maxDelay:      maxDelay,
		handshakeWait: handshakeWait,
		state:         StateDisconnected,
	}
}

// Name implements Ingestor.
func (w *WebSocketIngestor) Name() string { return w.name }

// FetchQuotes implements Ingestor by returning ErrStreamingNotSupported;
// WebSocketIngestor is push-only, per spec.md §6.
func (w *WebSocketIngestor) FetchQuotes(_ context.Context, _ []string) ([]quote.RawQuote, error) {
	return nil, ErrStreamingNotSupported
}

// State returns the ingestor's current state-machine node.
func (w *WebSocketIngestor) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Stream implements StreamingIngestor: connects, reconnects with
// exponential backoff on failure, and emits RawQuote events until ctx
// is canceled. Malformed payloads are dropped rather than surfaced on
// the channel.
func (w *WebSocketIngestor) Stream(ctx context.Context) (<-chan quote.RawQuote, error) {
	if !w.transition(StateDisconnected, StateConnecting) {
		return nil, ErrAlreadyOpen
	}

	out := make(chan quote.RawQuote, 256)
	go w.run(ctx, out)
	return out, nil
}

func (w *WebSocketIngestor) run(ctx context.Context, out chan<- quote.RawQuote) {
	defer close(out)
	defer w.setState(StateDestroyed)

	attempt := 0
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, w.headers)
		if err != nil {
			attempt++
			w.setState(StateBackoff)
			if !w.sleepBackoff(ctx, attempt) {
				return
			}
			w.setState(StateConnecting)
			continue
		}

		w.setState(StateOpen)
		attempt = 0 // reset on successful open, per spec.md §4.6

		w.readLoop(ctx, conn, out)
		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}
		w.setState(StateConnecting)
	}
}

// readLoop reads frames until the connection fails or ctx is canceled,
// decoding each as a wireQuote and dropping malformed payloads.
func (w *WebSocketIngestor) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- quote.RawQuote) {
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var w2 wireQuote
		if err := json.Unmarshal(payload, &w2); err != nil {
			continue // malformed payload dropped, per spec.md §6
		}
		if w2.Symbol == "" || w2.Source == "" {
			continue
		}

		raw := quote.RawQuote{
			Symbol:    w2.Symbol,
			Price:     w2.Price,
			Timestamp: w2.Timestamp,
			Source:    w2.Source,
		}
		select {
		case out <- raw:
		case <-ctx.Done():
			return
		}
	}
}

// sleepBackoff sleeps the exponential-backoff delay for attempt,
// returning false if ctx is canceled first.
func (w *WebSocketIngestor) sleepBackoff(ctx context.Context, attempt int) bool {
	delay := w.baseDelay * time.Duration(1<<uint(attempt-1))
	if delay > w.maxDelay {
		delay = w.maxDelay
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (w *WebSocketIngestor) setState(s State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateDestroyed {
		return // terminal: inhibits further transitions
	}
	w.state = s
}

// transition moves from "from" to "to", returning false if the current
// state isn't "from" (e.g. Stream called twice).
func (w *WebSocketIngestor) transition(from, to State) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != from {
		return false
	}
	w.state = to
	return true
}
