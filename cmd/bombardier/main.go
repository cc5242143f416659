package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bombardier/internal/config"
	"bombardier/internal/theme"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var cfgPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bombardier",
		Short:         "Score social profiles for outreach",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), theme.Banner())
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "config path")

	root.AddCommand(
		newInitCmd(),
		newServeCmd(),
		newAnalyzeCmd(),
		newBotCmd(),
		newSentimentCmd(),
		newInterestsCmd(),
		newRankCmd(),
		newCampaignCmd(),
		newHistoryCmd(),
	)
	return root
}
