package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/toposort/pkg/errors"
	pkgio "github.com/matzehuels/toposort/pkg/io"
	"github.com/matzehuels/toposort/pkg/pipeline"
	"github.com/matzehuels/toposort/pkg/toposort"
)

// sortCommand creates the sort command.
func (c *CLI) sortCommand() *cobra.Command {
	var (
		in     inputFlags
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "sort [file|-]",
		Short: "Order the items of a relation file",
		Long: `Sort reads relations, one "before after" pair per line (or JSON/TOML, see
--input-format), and prints the items in an order that respects every pair.

Items are seeded in ascending order: numerically when every identifier is a
non-negative integer, lexicographically otherwise. Items on or behind a cycle
are left out with a warning, or fail the command with --strict.`,
		Example: `  toposort sort deps.txt
  printf '3 1\n1 2\n' | toposort sort
  toposort sort --format json --strict graph.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errs.ValidateFormat(format, pkgio.OrderFormats...); err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			rels, err := readInput(cmd, args, in.inputFormat)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Sort(ctx, pipeline.Options{
				Relations: rels,
				Mode:      in.mode,
				Strict:    strict,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			if err := res.WriteOrder(cmd.OutOrStdout(), format); err != nil {
				return fmt.Errorf("write order: %w", err)
			}
			if !res.Complete() {
				printRemaining(res.Strings.Remaining)
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pkgio.FormatText, "output format: text or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail if any item cannot be ordered")

	return cmd
}

// sampleCommand creates the sample command.
func (c *CLI) sampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Sort the bundled sample relations",
		Long: `Sample sorts the ten bundled relations
(9,2) (3,7) (7,5) (5,8) (8,6) (4,6) (1,3) (7,4) (9,5) (2,8)
and prints one item per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range toposort.Sort(toposort.Sample()) {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
