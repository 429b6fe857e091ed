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

var (
	gameFilter   store.GameFilter
	gameResigned string
	headToHead   bool
)

func init() {
	flags := gamesCmd.Flags()
	flags.Int64Var(&gameFilter.PlayerId, "player", 0, "Games of this player.")
	flags.Int64Var(&gameFilter.OpponentId, "opponent", 0, "Games against this player.")
	flags.StringVar(&gameFilter.Winner, "winner", "", "B or W.")
	flags.StringVar(&gameFilter.Event, "event", "", "Part of the event name.")
	flags.StringVar(&gameFilter.From, "from", "", "First date, YYYY-MM-DD.")
	flags.StringVar(&gameFilter.To, "to", "", "Last date, YYYY-MM-DD.")
	flags.StringVar(&gameResigned, "resigned", "", "true or false.")
	flags.BoolVar(&headToHead, "h2h", false, "All games between --player and --opponent with the record.")
	flags.IntVar(&gameFilter.Limit, "limit", 50, "Maximum number of rows.")
	flags.IntVar(&gameFilter.Offset, "offset", 0, "Rows to skip.")
	rootCmd.AddCommand(gamesCmd)
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Searches the stored games.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch gameResigned {
		case "":
		case "true", "false":
			resigned := gameResigned == "true"
			gameFilter.Resigned = &resigned
		default:
			return fmt.Errorf("--resigned must be true or false")
		}
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		if headToHead {
			if gameFilter.PlayerId == 0 || gameFilter.OpponentId == 0 {
				return fmt.Errorf("--h2h needs --player and --opponent")
			}
			record, games, err := st.HeadToHead(gameFilter.PlayerId, gameFilter.OpponentId)
			if err != nil {
				return err
			}
			renderGames(cmd.OutOrStdout(), games, &record)
			return nil
		}
		games, err := st.SearchGames(gameFilter)
		if err != nil {
			return err
		}
		var record *model.Record
		if gameFilter.PlayerId != 0 {
			r := model.RecordOf(gameFilter.PlayerId, games)
			record = &r
		}
		renderGames(cmd.OutOrStdout(), games, record)
		return nil
	},
}

func renderGames(out io.Writer, games []model.Game, record *model.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Id", "Date", "Black", "White", "Result", "Moves", "Event"})
	for _, g := range games {
		t.AppendRow(table.Row{g.Id, g.PlayedOn, g.BlackName, g.WhiteName, g.Result, g.Moves, g.Event})
	}
	footer := fmt.Sprintf("%d games", len(games))
	if record != nil {
		footer = fmt.Sprintf("%s, %d-%d", footer, record.Wins, record.Losses)
	}
	t.AppendFooter(table.Row{"", footer})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.Render()
}
