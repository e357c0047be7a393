package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spboyer/qagen/internal/apiclient"
	"github.com/spboyer/qagen/internal/controller"
	"github.com/spboyer/qagen/internal/projectconfig"
	"github.com/spboyer/qagen/internal/spinner"
	"github.com/spboyer/qagen/internal/validation"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// session is what a page command needs to talk to the backend.
type session struct {
	cfg     *projectconfig.ProjectConfig
	backend *apiclient.Client
	logger  *slog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := slog.Default()
	backend, err := apiclient.New(apiclient.Config{
		BaseURL:   cfg.API.BaseURL,
		Endpoints: cfg.API.Endpoints,
		Timeout:   cfg.RequestTimeout(),
		Logger:    logger,
		UserAgent: "qagen/" + version,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring backend: %w", err)
	}
	return &session{
		cfg:     cfg,
		backend: backend,
		logger:  logger,
		in:      cmd.InOrStdin(),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}, nil
}

// loadConfig resolves the effective configuration. Precedence is flag,
// then QAGEN_* environment, then the config file, then defaults.
func loadConfig(cmd *cobra.Command) (*projectconfig.ProjectConfig, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *projectconfig.ProjectConfig
	if path != "" {
		if err := validation.ValidateConfigFile(path); err != nil {
			return nil, err
		}
		loaded, err := projectconfig.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		loaded, err := projectconfig.Load(wd)
		if err != nil {
			return nil, err
		}
		if loaded.Path != "" {
			if err := validation.ValidateConfigFile(loaded.Path); err != nil {
				return nil, err
			}
		}
		cfg = loaded
	}

	if err := projectconfig.ApplyEnv(cfg, os.Environ()); err != nil {
		return nil, err
	}
	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		cfg.API.BaseURL = u
	}
	slog.Debug("Loaded configuration", "path", cfg.Path, "base_url", cfg.API.BaseURL, "timeout", cfg.API.Timeout)
	return cfg, nil
}

// controllerOptions prints notifications on stderr and, on a terminal,
// spins with busyMessage while a request is in flight.
func (s *session) controllerOptions(busyMessage string) controller.Options {
	opts := controller.Options{
		Notifier: controller.NotifierFunc(func(message string) {
			fmt.Fprintln(s.errOut, message) //nolint:errcheck
		}),
		Logger: s.logger,
	}
	if isTerminalWriter(s.errOut) {
		opts.OnTransition = spinner.New(s.errOut, busyMessage).Transition
	}
	return opts
}

// requestContext bounds a submission by the configured timeout.
func (s *session) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := s.cfg.RequestTimeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// interactive reports whether forms can be shown on a real terminal.
func (s *session) interactive() bool {
	f, ok := s.in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
