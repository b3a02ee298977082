package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/batchkit/batch"
	"github.com/kbukum/batchkit/logger"
	"github.com/kbukum/batchkit/util"
)

type zsetParams struct {
	batch       int
	interval    time.Duration
	withScores  bool
	advance     int64
	drain       bool
	untilScore  float64
	concurrency int
	quiet       bool
}

func newZsetCmd(a *app) *cobra.Command {
	var params zsetParams

	cmd := &cobra.Command{
		Use:   "zset KEY [KEY...]",
		Short: "Walk one or more sorted sets in batches",
		Long: `Walk sorted sets window by window, printing each member as "key<TAB>member".

Keys may be given as separate arguments or comma separated. Several keys are
walked concurrently, up to --concurrency at a time.`,
		Example: `  batchctl zset jobs:pending --batch 500
  batchctl zset a,b,c --with-scores --interval 100ms
  batchctl zset queue --drain --store sqlite`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := params.options(cmd, a.cfg.Batch)
			if err != nil {
				return err
			}
			keys := util.SplitList(args...)
			limit := params.concurrency
			if !cmd.Flags().Changed("concurrency") {
				limit = a.cfg.Batch.Concurrency
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store memberStore) error {
				w := &lineWriter{out: cmd.OutOrStdout(), quiet: params.quiet, scores: opts.WithScores}
				total, err := walkKeys(ctx, a, store, keys, opts, params.drain, limit, w)
				fmt.Fprintf(cmd.ErrOrStderr(), "processed %d members from %d keys\n", total, len(keys))
				return err
			})
		},
	}

	f := cmd.Flags()
	f.IntVarP(&params.batch, "batch", "b", 0, "members per window (default: batch.size from config)")
	f.DurationVar(&params.interval, "interval", 0, "pause between windows, e.g. 250ms (default: batch.interval from config)")
	f.BoolVar(&params.withScores, "with-scores", false, "fetch and print scores")
	f.Int64Var(&params.advance, "advance", 0, "fixed cursor advance per window instead of batch+1; 0 re-reads the head")
	f.BoolVar(&params.drain, "drain", false, "remove each window after it is printed; implies --advance 0")
	f.Float64Var(&params.untilScore, "until-score", 0, "stop once a window starts above this score; implies --with-scores")
	f.IntVar(&params.concurrency, "concurrency", 0, "keys walked at once (default: batch.concurrency from config)")
	f.BoolVarP(&params.quiet, "quiet", "q", false, "only print the summary")
	cmd.MarkFlagsMutuallyExclusive("drain", "advance")
	return cmd
}

// options merges flags over the configured batch defaults.
func (p zsetParams) options(cmd *cobra.Command, defaults BatchConfig) (batch.Options, error) {
	flags := cmd.Flags()
	opts := batch.Options{
		Batch:      defaults.Size,
		Interval:   defaults.Interval,
		WithScores: p.withScores,
	}
	if flags.Changed("batch") {
		opts.Batch = p.batch
	}
	if flags.Changed("interval") {
		opts.Interval = p.interval
	}
	if flags.Changed("concurrency") && p.concurrency < 1 {
		return opts, fmt.Errorf("--concurrency must be at least 1")
	}

	switch {
	case p.drain:
		opts.AlwaysStartAt = util.Ptr[int64](0)
	case flags.Changed("advance"):
		opts.AlwaysStartAt = util.Ptr(p.advance)
	}

	if flags.Changed("until-score") {
		opts.WithScores = true
		until := p.untilScore
		opts.DoneIf = func(_, _ int64, members []batch.Member) bool {
			return members[0].Score > until
		}
	}
	return opts, nil
}

// walkKeys processes every key, at most limit at a time, and returns the
// number of members handled across all of them.
func walkKeys(ctx context.Context, a *app, store memberStore, keys []string, opts batch.Options, drain bool, limit int, w *lineWriter) (int64, error) {
	proc := a.processor(store)
	var total atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, key := range keys {
		g.Go(func() error {
			progress := batch.NewProgressTracker(key, a.log.WithComponent("zset"))
			keyOpts := opts
			keyOpts.Progress = progress

			err := proc.ProcessSortedSet(ctx, key, batch.Direct(func(ctx context.Context, members []batch.Member) error {
				if err := w.write(key, members); err != nil {
					return err
				}
				if drain {
					if err := store.Remove(ctx, key, batch.Values(members)...); err != nil {
						return err
					}
				}
				progress.Incr(int64(len(members)))
				total.Add(int64(len(members)))
				return nil
			}), keyOpts)

			progress.Report()
			if err != nil {
				a.log.Error("zset walk failed", logger.MergeFields(
					logger.Fields(logger.FieldSetKey, key),
					logger.ErrorFields("process_sorted_set", err),
				))
				return fmt.Errorf("%s: %w", key, err)
			}
			return nil
		})
	}
	err := g.Wait()
	return total.Load(), err
}

// lineWriter serializes member output from concurrent walks.
type lineWriter struct {
	mu     sync.Mutex
	out    io.Writer
	quiet  bool
	scores bool
}

func (w *lineWriter) write(key string, members []batch.Member) error {
	if w.quiet {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, m := range members {
		var err error
		if w.scores {
			_, err = fmt.Fprintf(w.out, "%s\t%s\t%g\n", key, m.Value, m.Score)
		} else {
			_, err = fmt.Fprintf(w.out, "%s\t%s\n", key, m.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
