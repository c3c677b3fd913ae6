// Package pipeline runs the archive through the parser and folds every match
// into an accumulator.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/pable/go-cricket-metrics/internal/aggregator"
	"github.com/pable/go-cricket-metrics/internal/archive"
	"github.com/pable/go-cricket-metrics/internal/logging"
	"github.com/pable/go-cricket-metrics/internal/metrics"
	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/parser"
)

// Options configures a run. Zero values pick sequential processing with no
// logging, metrics or progress output.
type Options struct {
	Workers       int
	ProgressEvery int
	Logger        *logging.Logger
	Metrics       *metrics.Metrics
}

// Result is the outcome of a run.
type Result struct {
	Accumulator *aggregator.Accumulator
	Summary     model.RunSummary
}

// matchResult is what one archive entry contributed.
type matchResult struct {
	name           string
	shard          *aggregator.Accumulator // nil when skipped or folded in place
	deliveries     int
	skippedInnings int
	reason         string // empty when the match was folded
	err            error
}

// Run reads every entry of arc and accumulates per-(season, player) stats.
// With one worker, matches are folded in archive order straight into the run
// accumulator. With more, each match is folded into its own shard which is
// merged once the match is complete; the totals are identical either way.
func Run(ctx context.Context, arc *archive.Archive, opts Options) (*Result, error) {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	r := &runner{
		decoder: parser.New(),
		log:     log.With("archive", arc.Path()),
		metrics: opts.Metrics,
		total:   arc.Len(),
		every:   opts.ProgressEvery,
		acc:     aggregator.New(),
	}
	r.summary.Archive = arc.Path()
	r.summary.StartedAt = time.Now().UTC().Format(time.RFC3339)

	start := time.Now()
	r.log.Info("aggregation started", "entries", r.total, "workers", opts.Workers)

	var err error
	if opts.Workers == 1 {
		err = r.runSequential(ctx, arc)
	} else {
		err = r.runParallel(ctx, arc, opts.Workers)
	}
	if err != nil {
		return nil, err
	}

	r.summary.Keys = r.acc.Len()
	r.metrics.RunFinished(r.summary.Keys, time.Since(start))
	r.log.Info("aggregation finished",
		"processed", r.summary.MatchesProcessed,
		"skipped", r.summary.MatchesSkipped(),
		"deliveries", r.summary.Deliveries,
		"keys", r.summary.Keys,
		"elapsed", time.Since(start))
	return &Result{Accumulator: r.acc, Summary: r.summary}, nil
}

type runner struct {
	decoder *parser.Decoder
	log     *logging.Logger
	metrics *metrics.Metrics
	total   int
	every   int

	acc     *aggregator.Accumulator
	summary model.RunSummary
}

func (r *runner) runSequential(ctx context.Context, arc *archive.Archive) error {
	return arc.Walk(ctx, func(e archive.Entry) error {
		r.progress(e.Index)
		r.record(r.fold(r.acc, e))
		return nil
	})
}

func (r *runner) runParallel(ctx context.Context, arc *archive.Archive, workers int) error {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return errors.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	results := make(chan matchResult, workers)

	var merger conc.WaitGroup
	merger.Go(func() {
		for res := range results {
			if res.shard != nil {
				r.acc.Merge(res.shard)
			}
			r.record(res)
		}
	})

	var tasks sync.WaitGroup
	walkErr := arc.Walk(ctx, func(e archive.Entry) error {
		r.progress(e.Index)
		tasks.Add(1)
		if err := pool.Submit(func() {
			defer tasks.Done()
			shard := aggregator.New()
			res := r.fold(shard, e)
			if res.reason == "" {
				res.shard = shard
			}
			results <- res
		}); err != nil {
			tasks.Done()
			return errors.Wrap(err, "submit match to worker pool")
		}
		return nil
	})

	tasks.Wait()
	close(results)
	merger.Wait()
	return walkErr
}

// fold decodes e and, if it is usable, applies it to acc. acc is untouched when
// the entry is skipped.
func (r *runner) fold(acc *aggregator.Accumulator, e archive.Entry) matchResult {
	res := matchResult{name: e.Name}
	if e.Err != nil {
		res.reason, res.err = metrics.ReasonUnreadable, e.Err
		return res
	}
	rec, err := r.decoder.Decode(e.Name, e.Data)
	if err != nil {
		res.reason, res.err = skipReason(err), err
		return res
	}
	res.deliveries = acc.ApplyMatch(rec)
	res.skippedInnings = rec.SkippedInnings
	return res
}

// record updates the summary, metrics and log for one entry. It is only ever
// called from a single goroutine.
func (r *runner) record(res matchResult) {
	r.summary.EntriesRead++
	switch res.reason {
	case "":
		r.summary.MatchesProcessed++
		r.summary.Deliveries += res.deliveries
		r.summary.InningsSkipped += res.skippedInnings
		r.metrics.MatchProcessed(res.deliveries, res.skippedInnings)
		if res.skippedInnings > 0 {
			r.log.Debug("innings without overs skipped", "entry", res.name, "count", res.skippedInnings)
		}
		return
	case metrics.ReasonMissingInfo:
		r.summary.SkippedNoInfo++
	case metrics.ReasonMissingInnings:
		r.summary.SkippedNoInnings++
	default:
		r.summary.SkippedMalformed++
	}
	r.metrics.MatchSkipped(res.reason)
	r.log.Warn("match skipped", "entry", res.name, "reason", res.reason, "error", res.err)
}

func (r *runner) progress(i int) {
	if r.every > 0 && i%r.every == 0 {
		r.log.Info("processing", "entry", i, "total", r.total)
	}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, parser.ErrMissingInfo):
		return metrics.ReasonMissingInfo
	case errors.Is(err, parser.ErrMissingInnings):
		return metrics.ReasonMissingInnings
	default:
		return metrics.ReasonMalformed
	}
}
