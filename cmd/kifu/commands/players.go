package commands

import (
	"fmt"
	"github.com/avicd/go-kifu/model"
	"github.com/avicd/go-kifu/store"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"io"
)

var playerFilter store.PlayerFilter

func init() {
	flags := playersCmd.Flags()
	flags.StringVar(&playerFilter.Name, "name", "", "Part of the player name.")
	flags.StringVar(&playerFilter.Country, "country", "", "Country code.")
	flags.StringVar(&playerFilter.MinRank, "min-rank", "", "Weakest rank, e.g. 1d.")
	flags.StringVar(&playerFilter.MaxRank, "max-rank", "", "Strongest rank, e.g. 9p.")
	flags.IntVar(&playerFilter.MinWins, "min-wins", 0, "Minimum number of wins.")
	flags.StringVar(&playerFilter.OrderBy, "order", "rank", "One of rank, name, wins, id.")
	flags.BoolVar(&playerFilter.Desc, "desc", true, "Sort descending.")
	flags.IntVar(&playerFilter.Limit, "limit", 50, "Maximum number of rows.")
	flags.IntVar(&playerFilter.Offset, "offset", 0, "Rows to skip.")
	rootCmd.AddCommand(playersCmd)
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Searches the stored players.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		players, err := st.SearchPlayers(playerFilter)
		if err != nil {
			return err
		}
		renderPlayers(cmd.OutOrStdout(), players)
		return nil
	},
}

func renderPlayers(out io.Writer, players []model.Player) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Id", "Name", "Rank", "Country", "Wins", "Losses", "Win %"})
	for _, p := range players {
		record := model.Record{Wins: p.Wins, Losses: p.Losses}
		t.AppendRow(table.Row{p.Id, p.Name, p.Rank, p.Country, p.Wins, p.Losses, fmt.Sprintf("%.1f", 100*record.WinRate())})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d players", len(players))})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.Render()
}
