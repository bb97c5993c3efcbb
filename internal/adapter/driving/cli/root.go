// Package cli implements the terminal driving adapter as a cobra command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
	"github.com/ericfisherdev/formpanel/internal/domain/port/driven"
)

// CaptureLog is the persistent capture log: a queryable store that also
// accepts diagnostic records.
type CaptureLog interface {
	driven.CaptureStore
	driven.DiagnosticSink
}

// LogOpener opens the capture log. The returned close func releases it.
type LogOpener func(ctx context.Context) (CaptureLog, func() error, error)

// Dependencies are the collaborators the command tree is built from.
type Dependencies struct {
	Logger     *slog.Logger
	LogSecrets bool
	OpenLog    LogOpener
	Version    string
}

type app struct {
	deps    Dependencies
	noColor bool
}

// NewRootCommand builds the formpanelctl command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	a := &app{deps: deps}

	root := &cobra.Command{
		Use:   "formpanelctl",
		Short: "Sign-up and log-in form capture from the terminal",
		Long: `formpanelctl drives the same capture and panel operations as the web page.

Example usage:
  formpanelctl signup --email a@b.com --password x
  formpanelctl login --email a@b.com --password x
  formpanelctl panel show-login
  formpanelctl captures list --limit 20`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.newCaptureCommand(model.FormSignUp),
		a.newCaptureCommand(model.FormLogIn),
		a.newPanelCommand(),
		a.newCapturesCommand(),
		a.newVersionCommand(),
	)
	return root
}

// Execute runs the command tree and reports a failure on errOut. It returns the
// process exit code.
func Execute(ctx context.Context, root *cobra.Command, errOut io.Writer) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	p := newPrinter(io.Discard, errOut, resolveColors(false))
	var missing *model.MissingElementError
	if errors.As(err, &missing) {
		p.Error("form element %q is missing", missing.ID)
		return 2
	}
	p.Error("%v", err)
	return 1
}

func (a *app) printer(cmd *cobra.Command) *printer {
	return newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), resolveColors(a.noColor))
}

func (a *app) openLog(ctx context.Context) (CaptureLog, func() error, error) {
	if a.deps.OpenLog == nil {
		return nil, nil, errors.New("no capture log configured")
	}
	log, closeFn, err := a.deps.OpenLog(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open capture log: %w", err)
	}
	return log, closeFn, nil
}
