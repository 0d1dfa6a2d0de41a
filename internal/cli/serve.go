package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/granville-run/granville/internal/daemon"
)

func init() {
	serveCmd.Flags().StringVarP(&serveSocket, "socket", "s", "", "IPC socket/pipe path (overrides config)")
	serveCmd.Flags().IntVarP(&serveQueueSize, "queue-size", "q", 0, "Max ranked-queue size (overrides config)")
	serveCmd.Flags().IntVarP(&serveWorkers, "workers", "w", 0, "Worker count (default: min(models, 8))")
	serveCmd.Flags().StringVarP(&serveDriver, "driver", "d", "", "Path to the inference backend plugin (default: in-process mock)")
	serveCmd.Flags().IntVarP(&serveStatusPort, "port", "p", 0, "Status/metrics HTTP port (overrides config; the server is off when no port is set)")
	rootCmd.AddCommand(serveCmd)
}

var (
	serveSocket     string
	serveQueueSize  int
	serveWorkers    int
	serveDriver     string
	serveStatusPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve <model-spec>...",
	Short: "Start the kernel daemon",
	Long: `Start the kernel daemon, loading each given model spec into the pool.

A model spec has the form "path", "type:path" or "type:id:path", e.g.
"inference:./models/llama.gguf" or "embedding:2:./models/embed.gguf".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

func runServe(cmd *cobra.Command, modelSpecs []string) error {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}

	if serveSocket != "" {
		cfg.Socket.Path = serveSocket
	}
	if serveDriver != "" {
		cfg.Socket.DriverPath = serveDriver
	}
	if serveQueueSize > 0 {
		cfg.Queue.MaxSize = serveQueueSize
	}
	if serveWorkers > 0 {
		cfg.Queue.Workers = serveWorkers
	}
	if serveStatusPort > 0 {
		cfg.Status.Port = serveStatusPort
	}

	d, err := daemon.New(cfg, modelSpecs)
	if err != nil {
		return err
	}

	return d.Serve(context.Background())
}
