package commands

import (
	"fmt"
	"github.com/spf13/cobra"
	"strconv"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func parseIds(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid player id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <player-id>...",
	Short: "Fetches and stores the given players and their games.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIds(args)
		if err != nil {
			return err
		}
		pipeline, release, err := newPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer release()
		for _, id := range ids {
			page, err := pipeline.Scrape(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s (%s): %d games, %d opponents\n",
				page.Player.Id, page.Player.Name, page.Player.Rank, len(page.Games), len(page.Opponents))
		}
		return nil
	},
}
