// Package cli implements the progression command-line interface using
// Cobra. Subcommands operate on the local store; `serve` starts the HTTP
// API consumed by the dashboards.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "progression",
	Short: "SwanStudios gamification progression engine",
	Long: `The progression engine drives the SwanStudios points economy:
achievements, the dice board, group challenges, and kindness quests.

Run 'progression serve' to start the REST API for the dashboards, or use
the subcommands to inspect and mutate a profile locally.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
