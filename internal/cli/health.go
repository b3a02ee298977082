package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the configured store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, _ memberStore) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "COMPONENT\tSTATUS\tMESSAGE")

				var unhealthy int
				for _, h := range a.registry.HealthAll(ctx) {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Name, h.Status, h.Message)
					if !h.Healthy() {
						unhealthy++
					}
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				if unhealthy > 0 {
					return fmt.Errorf("%d component(s) unhealthy", unhealthy)
				}
				return nil
			})
		},
	}
}
