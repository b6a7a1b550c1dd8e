// Package bench stress-tests the orchestrator's scheduling fairness.
// It runs N independent actor passes released from a shared start
// barrier and measures timing skew between them. The harness is
// diagnostic only: it consumes timings, never violations, and never
// gates the code-quality report.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/stubsift-dev/stubsift/internal/analyzer/orchestrator"
	"github.com/stubsift-dev/stubsift/internal/analyzer/rules"
	"github.com/stubsift-dev/stubsift/internal/analyzer/walker"
	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
	"golang.org/x/sync/errgroup"
)

// Empirical thresholds. Tuned against sample workloads; flag for
// recalibration before trusting them on a new corpus.
const (
	// ContentionVariationPct flags likely actor interference when the
	// timing variation percentage exceeds it.
	ContentionVariationPct = 150.0
	// MinHealthyThroughput flags a possible bottleneck when aggregate
	// member-operations per second fall below it.
	MinHealthyThroughput = 10_000.0
)

// Config controls one benchmark invocation.
type Config struct {
	// Actors is the number of concurrent orchestrator passes.
	Actors int
	// Batches is how many times each actor repeats its pass.
	Batches int
	// Orchestrator carries the per-run configuration each actor uses.
	Orchestrator orchestrator.Config
	// Walker carries the filter configuration each actor uses.
	Walker walker.Config
}

// ActorTiming records one actor's pass.
type ActorTiming struct {
	Actor      int           `json:"actor" yaml:"actor"`
	Duration   time.Duration `json:"duration_ms" yaml:"duration_ms"`
	Operations int           `json:"operations" yaml:"operations"`
	Failed     bool          `json:"failed,omitempty" yaml:"failed,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result is the complete outcome of one benchmark invocation. Created
// once, read-only afterwards.
type Result struct {
	Actors        int           `json:"actors" yaml:"actors"`
	Batches       int           `json:"batches" yaml:"batches"`
	Operations    int           `json:"operations" yaml:"operations"`
	Elapsed       time.Duration `json:"elapsed_ms" yaml:"elapsed_ms"`
	ActorTimings  []ActorTiming `json:"actor_timings" yaml:"actor_timings"`
	Throughput    float64       `json:"throughput_ops_sec" yaml:"throughput_ops_sec"`
	VariationPct  float64       `json:"variation_pct" yaml:"variation_pct"`
	Contention    bool          `json:"contention" yaml:"contention"`
	LowThroughput bool          `json:"low_throughput" yaml:"low_throughput"`
}

// Harness wraps the orchestrator as a black box for fairness
// measurement.
type Harness struct {
	assemblies []*metadata.Assembly
	phases     []orchestrator.Phase
	cfg        Config
}

// New creates a harness over the given assemblies. Each actor analyzes
// its own round-robin partition of the assemblies so actors share no
// mutable state, only read-only metadata and the rule catalog.
func New(assemblies []*metadata.Assembly, phases []orchestrator.Phase, cfg Config) (*Harness, error) {
	if cfg.Actors < 1 {
		return nil, fmt.Errorf("actor count must be at least 1, got %d", cfg.Actors)
	}
	if cfg.Batches < 1 {
		cfg.Batches = 1
	}
	return &Harness{assemblies: assemblies, phases: phases, cfg: cfg}, nil
}

// Run releases all actors from a shared start barrier, waits for them,
// and derives the timing statistics. A failing actor is recorded as
// failed and omitted from the skew math; the remaining actors still
// report.
func (h *Harness) Run(ctx context.Context) (*Result, error) {
	timings := make([]ActorTiming, h.cfg.Actors)
	start := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	ready := make(chan struct{}, h.cfg.Actors)

	for i := 0; i < h.cfg.Actors; i++ {
		g.Go(func() error {
			ready <- struct{}{}
			select {
			case <-start:
			case <-gctx.Done():
				return gctx.Err()
			}
			timings[i] = h.runActor(gctx, i)
			return nil
		})
	}

	// Release the barrier only once every actor is parked on it, so
	// measured skew reflects scheduling, not goroutine spin-up.
	for i := 0; i < h.cfg.Actors; i++ {
		select {
		case <-ready:
		case <-ctx.Done():
			close(start)
			_ = g.Wait()
			return nil, ctx.Err()
		}
	}

	wallStart := time.Now()
	close(start)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	elapsed := time.Since(wallStart)

	return h.summarize(timings, elapsed), nil
}

// runActor executes one actor's batches over its assembly partition.
// Panics and run errors mark the actor failed rather than poisoning
// the benchmark.
func (h *Harness) runActor(ctx context.Context, actor int) (t ActorTiming) {
	t = ActorTiming{Actor: actor}
	defer func() {
		if p := recover(); p != nil {
			t.Failed = true
			t.Error = fmt.Sprintf("actor panic: %v", p)
		}
	}()

	partition := h.partition(actor)
	rctx := rules.NewContext(partition)

	begin := time.Now()
	for b := 0; b < h.cfg.Batches; b++ {
		w := walker.New(partition, h.cfg.Walker)
		o := orchestrator.New(w, rctx, h.phases, h.cfg.Orchestrator)
		rep, err := o.Run(ctx)
		if err != nil {
			t.Failed = true
			t.Error = err.Error()
			return t
		}
		t.Operations += rep.MembersEvaluated
	}
	t.Duration = time.Since(begin)
	return t
}

// partition returns the actor's round-robin share of the assemblies.
func (h *Harness) partition(actor int) []*metadata.Assembly {
	var out []*metadata.Assembly
	for i := actor; i < len(h.assemblies); i += h.cfg.Actors {
		out = append(out, h.assemblies[i])
	}
	return out
}

// summarize derives throughput, variation and the diagnostic flags
// from the per-actor timings.
func (h *Harness) summarize(timings []ActorTiming, elapsed time.Duration) *Result {
	res := &Result{
		Actors:       h.cfg.Actors,
		Batches:      h.cfg.Batches,
		Elapsed:      elapsed,
		ActorTimings: timings,
	}

	var (
		completed int
		total     time.Duration
		min, max  time.Duration
	)
	for _, t := range timings {
		if t.Failed {
			continue
		}
		res.Operations += t.Operations
		total += t.Duration
		if completed == 0 || t.Duration < min {
			min = t.Duration
		}
		if t.Duration > max {
			max = t.Duration
		}
		completed++
	}

	if elapsed > 0 {
		res.Throughput = float64(res.Operations) / elapsed.Seconds()
	}
	if completed > 1 && total > 0 {
		avg := total / time.Duration(completed)
		res.VariationPct = float64(max-min) / float64(avg) * 100
	}

	res.Contention = res.VariationPct > ContentionVariationPct
	res.LowThroughput = res.Throughput < MinHealthyThroughput
	return res
}
