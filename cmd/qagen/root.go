package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qagen",
		Short: "qagen - GenAI Automation client for QA test generation",
		Long: `qagen is a command-line client for the GenAI Automation backend.

It turns Swagger documents into RestAssured tests, Spira test cases into
Gherkin feature files, and reviews resumes with an exportable report.
Every page can run from flags or as an interactive form.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("config", "", "Path to a .qagen.yaml file (default: discovered from the working directory)")
	cmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides api.base_url and QAGEN_API_URL)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newSwaggerCommand())
	cmd.AddCommand(newFeatureCommand())
	cmd.AddCommand(newResumeCommand())
	cmd.AddCommand(newManualTestcasesCommand())
	cmd.AddCommand(newSeleniumToPlaywrightCommand())
	cmd.AddCommand(newConfigCommand())
	cmd.AddCommand(newRoutesCommand())
	cmd.AddCommand(newOpenCommand())
	cmd.AddCommand(newMenuCommand())
	cmd.AddCommand(newMockServerCommand())

	return cmd
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	return rootCmd.ExecuteContext(ctx)
}
