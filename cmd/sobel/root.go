package main

import (
	"fmt"

	"github.com/anime-shed/sobel-inspector-go/internal/config"
	"github.com/anime-shed/sobel-inspector-go/internal/container"
	"github.com/anime-shed/sobel-inspector-go/internal/logger"
	"github.com/anime-shed/sobel-inspector-go/internal/sobel"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "1.0.0"

type rootOptions struct {
	threads  int
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "sobel",
		Short:        "Sobel edge detection for image files and camera feeds",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetText()
			logger.SetLevel(opts.logLevel)
		},
	}

	cmd.PersistentFlags().IntVarP(&opts.threads, "threads", "t", sobel.DefaultThreads, "number of filter threads")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newFilterCmd(opts),
		newCameraCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// buildContainer loads the environment configuration and applies the thread
// flag on top of SOBEL_THREADS when it was given explicitly
func buildContainer(cmd *cobra.Command, opts *rootOptions) (*container.Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("threads") {
		cfg.Threads = opts.threads
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"requested": cfg.Threads,
		"threads":   sobel.GetThreads(),
		"max":       sobel.MaxWorkers(),
	}).Debug("Filter threads configured")
	return c, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sobel %s\n", version)
		},
	}
}
