package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/app"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/diagnostics"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/format"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/telemetry"
)

const noContextMessage = "Aucun contexte externe pertinent pour cette requête."

func queryArg(args []string) (string, error) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return "", errors.New("query is required")
	}
	return query, nil
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the leaderboard scheduler, observability server and config watcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, cleanup, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			return application.Serve(ctx, app.ServeOptions{ConfigPath: opts.configPath})
		},
	}
}

func newResolveCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <query>",
		Short: "Print the external context gathered for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := queryArg(args)
			if err != nil {
				return err
			}
			application, cleanup, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := telemetry.WithOrigin(cmd.Context(), telemetry.OriginCLI)
			text, found := application.Engine().ResolveContext(ctx, query)
			if !found {
				text = noContextMessage
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newAssessCmd(opts *cliOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "assess <query>",
		Short: "Score a query against every tool without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := queryArg(args)
			if err != nil {
				return err
			}
			application, cleanup, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			assessments := application.Engine().Assess(query)
			return writeOutput(cmd.OutOrStdout(), output, assessments, func(w io.Writer) error {
				return printAssessments(w, assessments)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

func newChatCmd(opts *cliOptions) *cobra.Command {
	var (
		model       string
		temperature float64
		disable     []string
	)
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Answer one message with the assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := queryArg(args)
			if err != nil {
				return err
			}
			application, cleanup, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			assistant := application.Assistant()
			if model != "" {
				assistant.SetModel(model)
			}
			if cmd.Flags().Changed("temperature") {
				if err := assistant.SetTemperature(temperature); err != nil {
					return err
				}
			}
			for _, name := range disable {
				if err := assistant.ToggleTool(name, false); err != nil {
					return err
				}
			}

			reply := assistant.Chat(cmd.Context(), []domain.Message{{Role: domain.RoleUser, Content: message}})
			if reply.Error != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠️ générateur indisponible: %s\n", reply.Error)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
			return err
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "override the generator model")
	cmd.Flags().Float64Var(&temperature, "temperature", domain.DefaultGeneratorTemperature, "sampling temperature between 0 and 1")
	cmd.Flags().StringSliceVar(&disable, "disable-tool", nil, "tool to turn off for this message (repeatable)")
	return cmd
}

func newLeaderboardCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Inspect or refresh the MT-Bench reference table",
	}

	var output string
	show := &cobra.Command{
		Use:   "show [models]",
		Short: "Print the table, filtered on model names when given",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, cleanup, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			entries := application.Curated().Select(strings.Join(args, " "))
			return writeOutput(cmd.OutOrStdout(), output, entries, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, format.CuratedTable(entries))
				return err
			})
		},
	}
	show.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")

	var force bool
	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the remote leaderboard into the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, cleanup, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			status := application.Curated().Refresh(cmd.Context(), force)
			out := cmd.OutOrStdout()
			switch {
			case status.Error != "":
				fmt.Fprintf(out, "❌ Échec du rafraîchissement: %s (table actuelle: %d entrées)\n", status.Error, status.Count)
				return exitSilent(1)
			case status.Cached:
				fmt.Fprintf(out, "ℹ️ Table récente conservée (%d entrées, mise à jour %s). Utilisez --force.\n", status.Count, status.UpdatedAt.Format("2006-01-02 15:04"))
			default:
				fmt.Fprintf(out, "✅ Table rafraîchie: %d entrées.\n", status.Count)
			}
			return nil
		},
	}
	refresh.Flags().BoolVar(&force, "force", false, "ignore the refresh TTL")

	cmd.AddCommand(show, refresh)
	return cmd
}

func newDoctorCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check DNS and HTTPS access to the leaderboard endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := app.New(opts.logger).Doctor(cmd.Context(), opts.configPath)
			if err != nil {
				return err
			}
			diagnostics.Render(cmd.OutOrStdout(), report)
			if !report.OK() {
				return exitSilent(report.ExitCode)
			}
			return nil
		},
	}
}

func newValidateCmd(opts *cliOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and print it with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.New(opts.logger).ValidateConfig(cmd.Context(), opts.configPath)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, cfg, func(w io.Writer) error {
				fmt.Fprintln(w, "✅ Configuration valide.")
				return writeYAML(w, cfg)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

func newMCPCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the engine as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, cleanup, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			return application.MCP().RunStdio(ctx)
		},
	}
}
