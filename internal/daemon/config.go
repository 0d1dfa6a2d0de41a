// Package daemon wires the kernel's components together and manages the
// daemon process lifecycle.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/granville-run/granville/internal/infra/queue"
	"github.com/granville-run/granville/internal/infra/transport"
	"github.com/granville-run/granville/internal/infra/worker"
)

// Config holds all daemon configuration. Flags passed to the serve command
// override whatever a config file sets.
type Config struct {
	Socket SocketConfig `toml:"socket"`
	Queue  QueueConfig  `toml:"queue"`
	Status StatusConfig `toml:"status"`
	Audit  AuditConfig  `toml:"audit"`
}

// SocketConfig controls the IPC transport.
type SocketConfig struct {
	Path       string `toml:"path"`
	DriverPath string `toml:"driver_path"`
}

// QueueConfig controls queue capacity and worker concurrency.
type QueueConfig struct {
	MaxSize int `toml:"max_size"`
	Workers int `toml:"workers"` // 0 = DefaultWorkerCount(numModels)
}

// StatusConfig controls the optional HTTP status/metrics endpoint.
type StatusConfig struct {
	Port int `toml:"port"` // 0 disables the status server
}

// AuditConfig controls the append-only SQLite audit log.
type AuditConfig struct {
	Path string `toml:"path"` // "" disables auditing
}

// DefaultConfig returns the kernel's default configuration.
func DefaultConfig() Config {
	home := granvilleHome()
	socketPath := transport.DefaultSocketPath
	if runtime.GOOS == "windows" {
		socketPath = transport.DefaultPipeName
	}
	return Config{
		Socket: SocketConfig{
			Path: socketPath,
		},
		Queue: QueueConfig{
			MaxSize: queue.DefaultMaxSize,
			Workers: 0,
		},
		Status: StatusConfig{
			Port: 0,
		},
		Audit: AuditConfig{
			Path: filepath.Join(home, "audit.db"),
		},
	}
}

// LoadConfig reads config from ~/.granville/config.toml, falling back to
// defaults when no file is present.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(granvilleHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to ~/.granville/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(granvilleHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// WorkerCount resolves the configured worker count against the number of
// loaded models, applying the spec's default when unset.
func (c Config) WorkerCount(numModels int) int {
	if c.Queue.Workers > 0 {
		return c.Queue.Workers
	}
	return worker.DefaultWorkerCount(numModels)
}

func granvilleHome() string {
	if env := os.Getenv("GRANVILLE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".granville")
}

// GranvilleHome is exported for use by other packages (audit log, CLI).
func GranvilleHome() string {
	return granvilleHome()
}
