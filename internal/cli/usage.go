// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"

	"github.com/ik5/intake/usage"
	"github.com/spf13/cobra"
)

func (c *CLI) newUsageCommand() *cobra.Command {
	var clearHistory bool

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show token usage and cost of past analyses",
		Long: `Show the token usage of the most recent analyses and their estimated
cost in NT$. Only the latest 100 analyses are kept.

Examples:
  intake usage
  intake usage --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUsage(cmd, clearHistory)
		},
	}

	cmd.Flags().BoolVar(&clearHistory, "clear", false, "Delete the usage history")

	return cmd
}

func (c *CLI) runUsage(cmd *cobra.Command, clearHistory bool) error {
	store, err := c.openUsage()
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	ctx := cmd.Context()

	if clearHistory {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		c.logger.Info().Msg("usage history cleared")
		fmt.Fprintln(w, "Usage history cleared.")
		return nil
	}

	history, err := store.History(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintln(w, "No analyses recorded yet.")
		return nil
	}

	for i := len(history) - 1; i >= 0; i-- {
		r := history[i]
		fmt.Fprintf(w, "%s  %-32s  in %7s  out %7s  %s\n",
			r.Time.Local().Format("2006-01-02 15:04"),
			r.File,
			usage.FormatTokens(int64(r.InputTokens)),
			usage.FormatTokens(int64(r.OutputTokens)),
			usage.FormatCost(r.CostNTD))
	}

	t, err := store.Totals(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nAnalyses: %d\n", t.Analyses)
	fmt.Fprintf(w, "Tokens:   %s (%s in, %s out)\n",
		usage.FormatTokens(t.TotalTokens),
		usage.FormatTokens(t.InputTokens),
		usage.FormatTokens(t.OutputTokens))
	fmt.Fprintf(w, "Cost:     %s (US$%.4f)\n", usage.FormatCost(t.CostNTD), t.CostUSD)
	return nil
}
