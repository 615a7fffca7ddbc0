// Package main implements the todos CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/todos/internal/model"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "todos",
	Short: "A to-do list that reminds you about what is left",
	Long: `todos is a terminal to-do list. Checked tasks settle at the bottom of
the list, and leaving the app with open tasks schedules a reminder.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "path to the configuration file")
}
