// Package cli implements the kernel's command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "granville",
	Short: "Granville — a local inference kernel",
	Long: `Granville is a long-running local daemon that accepts text-generation
tasks over a local socket, ranks them for urgency with the model itself,
and dispatches them across a pool of loaded models.`,
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
