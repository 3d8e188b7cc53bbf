// Package cli implements the valtree command: building schemas from files and
// validating documents against them.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/valtree"
	"github.com/reoring/valtree/hooks"
	"github.com/reoring/valtree/i18n"
	"github.com/reoring/valtree/loader"
	"github.com/reoring/valtree/validators"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// ErrInvalid reports that at least one document was rejected.
var ErrInvalid = errors.New("validation failed")

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitInvalid = 1
	ExitError   = 2
)

type app struct {
	cfg    Config
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
	funcs  loader.Funcs
}

// NewRootCmd builds the command tree. Output goes to out, diagnostics and logs
// to errOut.
func NewRootCmd(cfg Config, in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{
		cfg:    cfg,
		out:    out,
		errOut: errOut,
		logger: slog.New(slog.DiscardHandler),
		funcs:  hooks.Builtins(),
	}
	root := &cobra.Command{
		Use:           "valtree",
		Short:         "Build declarative validator trees and validate documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(a.errOut, a.cfg.LogLevel, a.cfg.LogFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			i18n.SetLanguage(a.cfg.Lang)
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&a.cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")
	pf.StringVar(&a.cfg.Lang, "lang", cfg.Lang, "issue message language (en, ja)")

	root.AddCommand(a.validateCmd(), a.describeCmd(), a.versionCmd())
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "valtree:", err)
		return ExitError
	}
	root := NewRootCmd(cfg, os.Stdin, os.Stdout, os.Stderr)
	return exitCode(root.ExecuteContext(context.Background()), os.Stderr)
}

func exitCode(err error, errOut io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInvalid):
		return ExitInvalid
	default:
		fmt.Fprintln(errOut, "valtree:", err)
		return ExitError
	}
}

// compile loads and builds the schema at path.
func (a *app) compile(ctx context.Context, path, title string) (*valtree.Schema, error) {
	cfg, err := loader.Load(path, a.funcs)
	if err != nil {
		return nil, err
	}
	reg := validators.NewRegistry(valtree.WithLogger(a.logger))
	s, err := valtree.Compile(ctx, reg, cfg, valtree.WithTitle(title))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", path, err)
	}
	a.logger.Debug("schema compiled", "path", path, "title", s.Title())
	return s, nil
}
