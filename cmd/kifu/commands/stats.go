package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Counts the stored players, games and events.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		stats, err := st.Stats()
		if err != nil {
			return err
		}
		events, err := st.Games.Events()
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Players", "Games", "Events"})
		t.AppendRow(table.Row{stats.Players, stats.Games, len(events)})
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
