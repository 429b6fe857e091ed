package commands

import (
	"context"
	"fmt"
	"github.com/avicd/go-kifu/config"
	"github.com/spf13/cobra"
	"os"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "kifu",
	Short:         "kifu scrapes go players and their game records into a database.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		return err
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
