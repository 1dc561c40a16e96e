package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/app"
)

const envConfigPath = "QUANTUM_MIND_CONFIG"

type cliOptions struct {
	configPath string
	debug      bool
	logger     *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		configPath: os.Getenv(envConfigPath),
		logger:     zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "quantum-mind",
		Short:         "Tool selection and context orchestration for the QUANTUM MIND assistant",
		Version:       app.Version + " (" + app.Build + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			applyRootFlagBindings(cmd, &opts)
			logger, err := app.BuildLogger(logLevel(cmd, opts.debug))
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "path to the YAML config file (env "+envConfigPath+")")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(&opts),
		newResolveCmd(&opts),
		newAssessCmd(&opts),
		newChatCmd(&opts),
		newLeaderboardCmd(&opts),
		newDoctorCmd(&opts),
		newValidateCmd(&opts),
		newMCPCmd(&opts),
	)

	return root
}

func applyRootFlagBindings(cmd *cobra.Command, opts *cliOptions) {
	flags := cmd.Flags()
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "config":
			opts.configPath, _ = flags.GetString("config")
		case "debug":
			opts.debug, _ = flags.GetBool("debug")
		}
	})
}

// logLevel keeps one-shot commands quiet; long-running ones log at info.
func logLevel(cmd *cobra.Command, debug bool) zapcore.Level {
	if debug {
		return zapcore.DebugLevel
	}
	switch cmd.Name() {
	case "serve", "mcp":
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

func (o *cliOptions) open(ctx context.Context) (*app.Application, func(), error) {
	return app.New(o.logger).Open(ctx, o.configPath)
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
