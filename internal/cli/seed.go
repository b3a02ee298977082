package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/batchkit/batch"
	"github.com/kbukum/batchkit/logger"
)

type seedParams struct {
	count      int
	prefix     string
	startScore float64
	step       float64
	chunk      int
}

func newSeedCmd(a *app) *cobra.Command {
	var params seedParams

	cmd := &cobra.Command{
		Use:   "seed KEY",
		Short: "Fill a sorted set with generated members",
		Long: `Write --count members named <prefix><n> into KEY, scored from --start-score
in steps of --step. Existing members with the same name are overwritten.`,
		Example: `  batchctl seed jobs:pending --count 10000
  batchctl seed queue --count 50 --prefix job- --store sqlite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if params.count < 0 {
				return fmt.Errorf("--count must not be negative")
			}
			key := args[0]
			chunk := params.chunk
			if !cmd.Flags().Changed("chunk") {
				chunk = a.cfg.Batch.Size
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store memberStore) error {
				members := params.members()
				err := batch.ProcessArray(ctx, members, batch.Direct(func(ctx context.Context, window []batch.Member) error {
					return store.Add(ctx, key, window...)
				}), batch.ArrayOptions{Batch: chunk})
				if err != nil {
					return err
				}
				a.log.Info("seeded sorted set", logger.Fields(
					logger.FieldSetKey, key,
					logger.FieldItems, len(members),
				))
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d members into %s\n", len(members), key)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.IntVarP(&params.count, "count", "n", 1000, "number of members to write")
	f.StringVar(&params.prefix, "prefix", "m", "member name prefix")
	f.Float64Var(&params.startScore, "start-score", 0, "score of the first member")
	f.Float64Var(&params.step, "step", 1, "score increment between members")
	f.IntVar(&params.chunk, "chunk", 0, "members per write (default: batch.size from config)")
	return cmd
}

func (p seedParams) members() []batch.Member {
	members := make([]batch.Member, p.count)
	for i := range members {
		members[i] = batch.Member{
			Value: fmt.Sprintf("%s%06d", p.prefix, i),
			Score: p.startScore + float64(i)*p.step,
		}
	}
	return members
}
