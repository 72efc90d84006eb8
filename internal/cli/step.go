package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/toposort/pkg/pipeline"
	"github.com/matzehuels/toposort/pkg/toposort"
)

// stepCommand creates the step command.
func (c *CLI) stepCommand() *cobra.Command {
	var (
		in    inputFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "step [file|-]",
		Short: "Step through the sort one event at a time",
		Long: `Step replays the sort and shows, for every step, the queue, the output so
far, and the number of pending predecessors of each item.

Keys: →/l/space next, ←/h previous, g first, G last, q quit.
With --plain the events are printed one per line instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rels, err := readInput(cmd, args, in.inputFormat)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			tr, err := runner.Trace(ctx, pipeline.Options{Relations: rels, Mode: in.mode, Logger: loggerFromContext(ctx)})
			if err != nil {
				return err
			}

			if plain {
				for _, e := range tr.Events {
					fmt.Fprintln(cmd.OutOrStdout(), describeEvent(tr, e))
				}
				return nil
			}

			p := tea.NewProgram(newStepModel(tr),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print events instead of starting the viewer")

	return cmd
}

// describeEvent renders one event as a line of text.
func describeEvent(tr *pipeline.Trace, e toposort.Event) string {
	id := tr.Name(e.ID)
	switch e.Kind {
	case toposort.EventCount:
		return fmt.Sprintf("count     %s (%d pending)", id, e.Count)
	case toposort.EventSeed:
		return fmt.Sprintf("seed      %s", id)
	case toposort.EventVisit:
		return fmt.Sprintf("visit     %s", id)
	case toposort.EventDecrement:
		return fmt.Sprintf("decrement %s via %s (%d left)", id, tr.Name(e.Via), e.Count)
	case toposort.EventEnqueue:
		return fmt.Sprintf("enqueue   %s via %s", id, tr.Name(e.Via))
	}
	return e.Kind.String()
}

// =============================================================================
// stepModel - Interactive step-through viewer
// =============================================================================

var (
	stepCurrentStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stepHeaderStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// stepModel is the bubbletea model for the step viewer. Pos is the number
// of events applied so far. The leading count events are always applied, so
// Pos never drops below start.
type stepModel struct {
	Trace *pipeline.Trace
	Pos   int
	start int
}

func newStepModel(tr *pipeline.Trace) stepModel {
	start := 0
	for start < len(tr.Events) && tr.Events[start].Kind == toposort.EventCount {
		start++
	}
	return stepModel{Trace: tr, Pos: start, start: start}
}

func (m stepModel) Init() tea.Cmd {
	return nil
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", " ", "n":
			if m.Pos < len(m.Trace.Events) {
				m.Pos++
			}
		case "left", "h", "p":
			if m.Pos > m.start {
				m.Pos--
			}
		case "home", "g":
			m.Pos = m.start
		case "end", "G":
			m.Pos = len(m.Trace.Events)
		}
	}
	return m, nil
}

// stepState is the algorithm state after a prefix of the events. Count
// events fill counts without touching the queue.
type stepState struct {
	queue  []int
	output []int
	counts map[int]int
}

func replay(events []toposort.Event) stepState {
	st := stepState{counts: make(map[int]int)}
	for _, e := range events {
		switch e.Kind {
		case toposort.EventSeed, toposort.EventEnqueue:
			st.queue = append(st.queue, e.ID)
		case toposort.EventVisit:
			if len(st.queue) > 0 {
				st.queue = st.queue[1:]
			}
			st.output = append(st.output, e.ID)
		}
		st.counts[e.ID] = e.Count
	}
	return st
}

func (m stepModel) View() string {
	var b strings.Builder
	events := m.Trace.Events

	b.WriteString(StyleTitle.Render("Topological sort"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  step %d/%d", m.Pos-m.start, len(events)-m.start)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ step  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if m.Pos == m.start {
		b.WriteString(StyleDim.Render("(nothing yet)"))
	} else {
		b.WriteString(stepCurrentStyle.Render(describeEvent(m.Trace, events[m.Pos-1])))
	}
	b.WriteString("\n\n")

	st := replay(events[:m.Pos])
	b.WriteString(stepHeaderStyle.Render("queue  "))
	b.WriteString(StyleValue.Render(m.names(st.queue)))
	b.WriteString("\n")
	b.WriteString(stepHeaderStyle.Render("output "))
	b.WriteString(StyleHighlight.Render(m.names(st.output)))
	b.WriteString("\n\n")

	if len(st.counts) > 0 {
		ids := make([]int, 0, len(st.counts))
		for id := range st.counts {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		rows := make([][]string, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, []string{m.Trace.Name(id), strconv.Itoa(st.counts[id])})
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(StyleDim).
			Headers("item", "pending").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return stepHeaderStyle
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if m.Pos == len(events) {
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("done"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m stepModel) names(ids []int) string {
	if len(ids) == 0 {
		return StyleDim.Render("-")
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = m.Trace.Name(id)
	}
	return strings.Join(parts, " ")
}
