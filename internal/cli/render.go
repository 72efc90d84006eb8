package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/toposort/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		in       inputFlags
		format   string
		output   string
		noCache  bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Draw relations as a node-link diagram",
		Long: `Render sorts the relations and draws them with Graphviz. Items are
declared in output order; items on or behind a cycle are drawn dashed in red.

SVG output is cached by the content of its DOT source.`,
		Example: `  toposort render deps.txt -o deps.svg
  toposort render --format dot deps.txt | dot -Tpng > deps.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if !cmd.Flags().Changed("detailed") {
				detailed = c.Config.Render.Detailed
			}
			renderOpts := pipeline.RenderOptions{Format: format, Detailed: detailed, NoCache: noCache}
			if err := renderOpts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			rels, err := readInput(cmd, args, in.inputFormat)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(logger)
			res, err := runner.Sort(ctx, pipeline.Options{Relations: rels, Mode: in.mode, Logger: logger})
			if err != nil {
				return err
			}

			var spinner *Spinner
			if output != "" && renderOpts.Format == pipeline.FormatSVG {
				spinner = newSpinnerWithContext(ctx, "Rendering diagram...")
				spinner.Start()
			}
			data, cached, err := runner.Render(ctx, res, renderOpts)
			if spinner != nil {
				switch {
				case err != nil && spinner.Cancelled():
					spinner.Stop()
					return ctx.Err()
				case err != nil:
					spinner.StopWithError("Render failed")
				default:
					spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", renderOpts.Format))
				}
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done("Rendered diagram", "items", res.Stats.Nodes, "format", renderOpts.Format, "cached", cached)
			if spinner == nil {
				printSuccess("Rendered %s", renderOpts.Format)
			}
			printStats(res.Stats.Nodes, res.Stats.Relations, cached)
			printFile(output)
			if !res.Complete() {
				printRemaining(res.Strings.Remaining)
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the render cache")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label items with their output position")

	return cmd
}
