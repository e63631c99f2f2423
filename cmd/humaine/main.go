package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "humaine",
	Short: "Per-user personalization layer for LLM chat assistants",
	Long: `humaine learns how each user writes and reacts, keeps a per-user
profile across sessions, and rewrites prompts so LLM responses match the
user's preferred complexity, style, and level of detail.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the humaine version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("humaine version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(interactionsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
