package commands

import (
	"fmt"
	"github.com/spf13/cobra"
)

var crawlMaxPlayers *int

func init() {
	crawlMaxPlayers = crawlCmd.Flags().Int("max-players", -1, "Stop after this many players, overriding KIFU_MAX_PLAYERS.")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [seed-player-id]...",
	Short: "Crawls from the seed players over their opponents.",
	RunE: func(cmd *cobra.Command, args []string) error {
		seeds, err := parseIds(args)
		if err != nil {
			return err
		}
		pipeline, release, err := newPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer release()
		if *crawlMaxPlayers >= 0 {
			pipeline.Crawler.MaxPlayers = *crawlMaxPlayers
		}
		report, err := pipeline.Run(cmd.Context(), seeds)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %d players and %d games, %d failed, depth %d, took %s\n",
			report.Saved, report.Games, report.Failed, report.Depth, report.Elapsed.Round(1e6))
		return nil
	},
}
