package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pricecore/oracle-core/pkg/cache"
	"github.com/pricecore/oracle-core/pkg/commitment"
	"github.com/pricecore/oracle-core/pkg/engine"
	"github.com/pricecore/oracle-core/pkg/ingest"
	"github.com/pricecore/oracle-core/pkg/logging"
	"github.com/pricecore/oracle-core/pkg/metrics"
	"github.com/pricecore/oracle-core/pkg/normalize"
	"github.com/pricecore/oracle-core/pkg/publish"
	"github.com/pricecore/oracle-core/pkg/quote"
)

// Config wires a Scheduler's collaborators and timing, per spec.md
// §4.5 and §6.
type Config struct {
	Ingestors      []ingest.Ingestor
	Registry       *normalize.Registry
	Engine         *engine.Engine
	Cache          *cache.Cache
	Publisher      publish.Publisher
	Symbols        []string
	Options        quote.AggregationOptions
	IntervalMillis int64  // wins over CronExpression when both are set
	CronExpression string // only used when IntervalMillis is unset
	Logger         *logging.Logger
}

// Scheduler is the Fetch Orchestrator: a single-flight periodic driver
// of fetch→normalize→aggregate→publish, per spec.md §4.5.
type Scheduler struct {
	cfg Config

	running  atomic.Bool
	inFlight atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	streamMu  sync.Mutex
	streamed  map[string][]quote.RawQuote // buffered by ingestor name, drained each tick
}

// New builds a Scheduler from cfg.
func New(cfg Config) *Scheduler {
	return &Scheduler{cfg: cfg, streamed: make(map[string][]quote.RawQuote)}
}

// Start begins the periodic loop: runOnce executes immediately, then
// recurs every IntervalMillis (or on CronExpression if IntervalMillis
// is unset). A second Start is a no-op with a logged warning, per
// spec.md §4.5.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.cfg.Logger.Warn("scheduler already started, ignoring Start")
		return ErrAlreadyStarted
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	doneCh := s.done
	s.mu.Unlock()

	s.startStreaming(loopCtx)

	go func() {
		defer close(doneCh)
		defer s.running.Store(false)
		s.loop(loopCtx)
	}()

	return nil
}

// startStreaming spins up one background consumer per StreamingIngestor
// among s.cfg.Ingestors, buffering events into s.streamed until the
// next tick drains them. Per spec.md §6, the scheduler consumes both
// polling and streaming ingestors via the uniform Ingestor adapter;
// FetchQuotes is never called on a StreamingIngestor.
func (s *Scheduler) startStreaming(ctx context.Context) {
	for _, ing := range s.cfg.Ingestors {
		streaming, ok := ing.(ingest.StreamingIngestor)
		if !ok {
			continue
		}
		events, err := streaming.Stream(ctx)
		if err != nil {
			s.cfg.Logger.Warn("failed to start stream", "ingestor", ing.Name(), "error", err)
			continue
		}
		go s.consumeStream(ing.Name(), events)
	}
}

func (s *Scheduler) consumeStream(name string, events <-chan quote.RawQuote) {
	for raw := range events {
		s.streamMu.Lock()
		s.streamed[name] = append(s.streamed[name], raw)
		s.streamMu.Unlock()
	}
}

// drainStreamed returns and clears every raw quote buffered since the
// last call, across all streaming ingestors.
func (s *Scheduler) drainStreamed() []quote.RawQuote {
	s.streamMu.Lock()
	defer s.streamMu.Unlock()

	var out []quote.RawQuote
	for name, quotes := range s.streamed {
		out = append(out, quotes...)
		delete(s.streamed, name)
	}
	return out
}

// Stop cancels the loop's waiting interval. An in-flight cycle
// receives the same cancellation signal and is expected to wind down
// cooperatively rather than be killed outright.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if done != nil {
		<-done
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	s.tick(ctx)

	if s.cfg.IntervalMillis > 0 {
		s.loopInterval(ctx)
		return
	}
	if s.cfg.CronExpression != "" {
		s.loopCron(ctx)
		return
	}
}

func (s *Scheduler) loopInterval(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(s.cfg.IntervalMillis) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) loopCron(ctx context.Context) {
	schedule, err := cron.ParseStandard(s.cfg.CronExpression)
	if err != nil {
		s.cfg.Logger.Error("invalid cron expression, scheduler idle", "expression", s.cfg.CronExpression, "error", err)
		return
	}

	next := schedule.Next(time.Now())
	for {
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.tick(ctx)
			next = schedule.Next(time.Now())
		}
	}
}

// tick enforces the at-most-one-in-flight guarantee of spec.md §4.5: a
// tick that arrives while a cycle is still running is skipped, not
// queued.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		metrics.RecordCycleSkipped()
		s.cfg.Logger.Warn("skipping cycle: previous cycle still in flight")
		return
	}
	defer s.inFlight.Store(false)

	if err := s.RunOnce(ctx); err != nil {
		s.cfg.Logger.Error("cycle failed", "error", err)
	}
}

// RunOnce executes exactly one fetch→normalize→aggregate→publish
// cycle, tolerating partial failure at every stage per spec.md §7.
// It never returns an error that should abort the scheduler — the
// returned error is purely informational for logging.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()

	raws := s.fetchAll(ctx)

	successes, failures := s.cfg.Registry.NormalizeBatch(raws)
	for _, f := range failures {
		metrics.RecordNormalizationOutcome("failure")
		s.cfg.Logger.Warn("normalization failed", "source", f.Raw.Source, "symbol", f.Raw.Symbol, "error", f.ErrKind)
	}
	for range successes {
		metrics.RecordNormalizationOutcome("success")
	}

	bySymbol := normalize.GroupBySymbol(successes)
	now := quote.NowMillis()
	aggStart := time.Now()
	results, aggFailures := s.cfg.Engine.AggregateMany(bySymbol, s.cfg.Options, now)
	aggDuration := time.Since(aggStart)
	for symbol, err := range aggFailures {
		metrics.RecordAggregationFailure(err.Error())
		s.cfg.Logger.Warn("aggregation failed", "symbol", symbol, "error", err)
	}

	for symbol, consensus := range results {
		metrics.RecordAggregation(string(consensus.Method), symbol, aggDuration, consensus.Confidence)
		s.cfg.Cache.Set(symbol, consensus, bySymbol[symbol], now)
		s.publish(ctx, consensus)
	}

	metrics.RecordCycle("completed", time.Since(start))
	return nil
}

// fetchAll queries every configured ingestor concurrently, tolerating
// per-ingestor failure, per spec.md §4.5 step 1.
func (s *Scheduler) fetchAll(ctx context.Context) []quote.RawQuote {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		all []quote.RawQuote
	)

	all = append(all, s.drainStreamed()...)

	for _, ingestor := range s.cfg.Ingestors {
		if _, streaming := ingestor.(ingest.StreamingIngestor); streaming {
			continue
		}
		wg.Add(1)
		go func(ing ingest.Ingestor) {
			defer wg.Done()
			raws, err := ing.FetchQuotes(ctx, s.cfg.Symbols)
			if err != nil {
				metrics.RecordIngestionFetch(ing.Name(), "failure")
				s.cfg.Logger.Warn("ingestor fetch failed", "ingestor", ing.Name(), "error", err)
				return
			}
			metrics.RecordIngestionFetch(ing.Name(), "success")
			mu.Lock()
			all = append(all, raws...)
			mu.Unlock()
		}(ingestor)
	}

	wg.Wait()
	return all
}

// publish invokes the commitment hook and hands (consensus, digest) to
// the publisher collaborator, per spec.md §4.5 step 3. Publish
// failures are logged and counted, never retried here.
func (s *Scheduler) publish(ctx context.Context, consensus quote.ConsensusPrice) {
	if s.cfg.Publisher == nil {
		return
	}

	digest := commitment.Digest(consensus.Price, consensus.ComputedAt, consensus.Symbol, nil)

	_, err := s.cfg.Publisher.Publish(ctx, publish.Submission{
		AssetID:          consensus.Symbol,
		Price:            consensus.Price.String(),
		TimestampMillis:  consensus.ComputedAt,
		CommitmentDigest: digest,
	})
	if err != nil {
		metrics.RecordPublishOutcome("failure")
		s.cfg.Logger.Warn("publish failed", "symbol", consensus.Symbol, "error", err)
		return
	}
	metrics.RecordPublishOutcome("success")
}
