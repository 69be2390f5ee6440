package main

import (
	"fmt"
	"os"

	"github.com/krsnavtr-code/rudra360-sub000/internal/config"
	"github.com/krsnavtr-code/rudra360-sub000/internal/logging"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "main"
)

func main() {
	root := newRootCommand()
	root.AddCommand(newServeCommand())
	root.AddCommand(newCheckUsageCommand())
	root.AddCommand(newCreateAdminCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "eventsite",
		Short:         "Event business site backend",
		Long:          "HTTP backend for the event business site: content, media library, media tags and media usage checks.",
		Version:       fmt.Sprintf("%s.%s", version, commit),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
}

// loadConfig 读取配置并初始化日志
func loadConfig() (config.Config, error) {
	cfg, err := config.ParseConfig()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	logging.Setup(cfg)
	return cfg, nil
}
