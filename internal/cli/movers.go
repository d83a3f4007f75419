package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bestball/adp/internal/config"
	"github.com/bestball/adp/internal/snapshot"
	"github.com/bestball/adp/internal/ui"
	"github.com/bestball/adp/pkg/models"
)

func newMoversCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movers",
		Short: "Show the biggest ADP risers and fallers between two snapshots",
		Long: `Compare two snapshots and list the players whose ADP moved the most.
A positive change means the player is being drafted earlier. By default the
two most recent snapshots in --out-dir are compared.`,
		Example: `  adp movers
  adp movers --position WR --limit 10
  adp movers --from underdog_adp_2025-08-01.csv --to underdog_adp_2025-08-15.csv`,
		Args: cobra.NoArgs,
		RunE: runMovers,
	}
	f := cmd.Flags()
	f.String("from", "", "Older snapshot file")
	f.String("to", "", "Newer snapshot file")
	f.String("prefix", config.DefaultSourceName, "Source name the snapshot files start with")
	f.String("position", "", "Only show one position (QB, RB, WR, TE, K, DST)")
	f.Int("limit", 15, "Players per table (0 shows all)")
	return cmd
}

func runMovers(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return errors.New("application not initialized")
	}
	f := cmd.Flags()
	from, _ := f.GetString("from")
	to, _ := f.GetString("to")
	prefix, _ := f.GetString("prefix")
	posFlag, _ := f.GetString("position")
	limit, _ := f.GetInt("limit")

	pos := models.PosUnknown
	if posFlag != "" {
		pos = models.ParsePosition(posFlag)
		if pos == models.PosUnknown {
			return fmt.Errorf("unknown position %q", posFlag)
		}
	}

	older, newer, err := pickSnapshots(a.Config.OutputDir, prefix, from, to)
	if err != nil {
		return err
	}

	m := snapshot.Compare(older, newer)
	moves := m.Filter(pos)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s → %s\n", ui.Bold("ADP movement:"), older.Date, newer.Date)
	if pos != models.PosUnknown {
		fmt.Fprintf(out, "Position: %s\n", pos)
	}

	writeMoves(out, "Risers", snapshot.Risers(moves, limit))
	writeMoves(out, "Fallers", snapshot.Fallers(moves, limit))

	fmt.Fprintf(out, "\n%d players compared, %d added, %d dropped\n", len(moves), len(m.Added), len(m.Dropped))
	return nil
}

// pickSnapshots loads the explicit files, or the two most recent in dir.
func pickSnapshots(dir, prefix, from, to string) (*snapshot.Snapshot, *snapshot.Snapshot, error) {
	if from != "" || to != "" {
		if from == "" || to == "" {
			return nil, nil, errors.New("--from and --to must be used together")
		}
		older, err := snapshot.LoadPath(from)
		if err != nil {
			return nil, nil, err
		}
		newer, err := snapshot.LoadPath(to)
		if err != nil {
			return nil, nil, err
		}
		return older, newer, nil
	}

	infos, err := snapshot.List(dir, prefix)
	if err != nil {
		return nil, nil, err
	}
	if len(infos) < 2 {
		return nil, nil, fmt.Errorf("need at least two snapshots in %s, found %d", dir, len(infos))
	}
	older, err := snapshot.Load(infos[len(infos)-2])
	if err != nil {
		return nil, nil, err
	}
	newer, err := snapshot.Load(infos[len(infos)-1])
	if err != nil {
		return nil, nil, err
	}
	return older, newer, nil
}

func writeMoves(w io.Writer, title string, moves []snapshot.Move) {
	fmt.Fprintf(w, "\n%s\n", ui.Bold(title))
	if len(moves) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	t := ui.NewTable(w)
	t.AppendHeader(table.Row{"Player", "Pos", "Team", "Old ADP", "New ADP", "Change"})
	for _, mv := range moves {
		t.AppendRow(table.Row{
			mv.Name, mv.Position, mv.Team,
			strconv.FormatFloat(mv.OldADP, 'f', 1, 64),
			strconv.FormatFloat(mv.NewADP, 'f', 1, 64),
			ui.FormatDelta(mv.Delta),
		})
	}
	t.Render()
}
