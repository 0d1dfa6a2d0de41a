package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/granville-run/granville/internal/infra/engine"
)

func init() {
	rootCmd.AddCommand(modelsCmd)
}

var modelsCmd = &cobra.Command{
	Use:   "models <model-spec>...",
	Short: "Validate model specs and show what a serve command would load",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runModels,
}

func runModels(cmd *cobra.Command, modelSpecs []string) error {
	for i, raw := range modelSpecs {
		spec, err := engine.ParseSpec(raw)
		if err != nil {
			return fmt.Errorf("spec %d (%q): %w", i, raw, err)
		}
		id := fmt.Sprintf("%d", spec.ID)
		if spec.ID == 0 {
			id = "auto"
		}
		fmt.Printf("%-12s id=%-6s %s\n", spec.Type, id, spec.Path)
	}
	return nil
}
