package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bestball/adp/internal/config"
	"github.com/bestball/adp/internal/snapshot"
	"github.com/bestball/adp/internal/ui"
)

func newSnapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List saved ADP snapshots, oldest first",
		Example: `  adp snapshots
  adp snapshots --out-dir snapshots --prefix ppr`,
		Args: cobra.NoArgs,
		RunE: runSnapshots,
	}
	cmd.Flags().String("prefix", config.DefaultSourceName, "Source name the snapshot files start with")
	cmd.Flags().Bool("all", false, "List every CSV file regardless of prefix")
	return cmd
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	prefix, _ := cmd.Flags().GetString("prefix")
	if all, _ := cmd.Flags().GetBool("all"); all {
		prefix = ""
	}

	infos, err := snapshot.List(a.Config.OutputDir, prefix)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintf(out, "No snapshots found in %s\n", a.Config.OutputDir)
		return nil
	}

	t := ui.NewTable(out)
	t.AppendHeader(table.Row{"Date", "File", "Players", ""})
	for i, info := range infos {
		players := "?"
		if snap, err := snapshot.Load(info); err == nil {
			players = fmt.Sprint(len(snap.Entries))
		} else {
			a.Logger.Warn().Err(err).Str("file", info.Path).Msg("Could not read snapshot")
		}
		marker := ""
		if i == len(infos)-1 {
			marker = ui.Success("latest")
		}
		t.AppendRow(table.Row{info.Date, info.FileName, players, marker})
	}
	t.Render()
	return nil
}
