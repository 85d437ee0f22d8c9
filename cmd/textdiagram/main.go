package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ankek/textdiagram/internal/config"
	"github.com/ankek/textdiagram/internal/diagram"
	"github.com/ankek/textdiagram/internal/generation"
	"github.com/ankek/textdiagram/internal/kroki"
	"github.com/ankek/textdiagram/internal/logging"
	"github.com/ankek/textdiagram/internal/pipeline"
	"github.com/ankek/textdiagram/internal/server"
	"github.com/ankek/textdiagram/internal/validation"
)

var (
	// version is set via -ldflags at build time
	version = "dev"
)

// app carries state shared between the root command and its subcommands.
type app struct {
	configFile string
	envFile    string
	logLevel   string
	port       int

	cfg    config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "textdiagram",
		Short:         "Turn plain-language descriptions into rendered diagrams",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to an HCL or JSON config file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "dotenv file to read (default .env when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	serve := newServeCmd(a)
	root.AddCommand(serve, newRenderCmd(a))
	root.RunE = serve.RunE
	addPortFlag(root, a)

	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(config.LoadOptions{
		EnvFile:    a.envFile,
		ConfigFile: a.configFile,
	})
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// newPipeline wires the configured generation provider and Kroki client.
func (a *app) newPipeline(ctx context.Context) (*pipeline.DiagramGenerator, error) {
	generator, err := generation.New(ctx, a.cfg.Generation, a.logger)
	if err != nil {
		return nil, err
	}
	renderer := kroki.New(a.cfg.Kroki, a.logger)
	return pipeline.NewDiagramGenerator(generator, renderer, a.logger), nil
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and the /generate endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.port != 0 {
				a.cfg.Port = a.port
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			gen, err := a.newPipeline(ctx)
			if err != nil {
				return err
			}
			handler, err := server.NewHandler(gen, a.logger)
			if err != nil {
				return err
			}

			a.logger.Info("starting server",
				zap.String("version", version),
				zap.String("provider", a.cfg.Generation.Provider),
				zap.String("model", a.cfg.Generation.ResolvedModel()),
				zap.String("kroki_url", a.cfg.Kroki.BaseURL),
			)
			return server.New(a.cfg.Addr(), handler.Routes(), a.logger).Run(ctx)
		},
	}
	addPortFlag(cmd, a)

	return cmd
}

// addPortFlag registers --port on cmd. The root command runs serve by
// default, so it takes the flag as well.
func addPortFlag(cmd *cobra.Command, a *app) {
	cmd.Flags().IntVar(&a.port, "port", 0, "listen port (overrides PORT)")
}

type renderOptions struct {
	diagramType  string
	revision     string
	previousCode string
	output       string
	codeOutput   string
}

func newRenderCmd(a *app) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [description...]",
		Short: "Generate a diagram once and write the SVG to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd, opts, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&opts.diagramType, "type", "t", diagram.DefaultType, "Kroki diagram type")
	cmd.Flags().StringVar(&opts.revision, "revision", "", "revision instruction applied to --previous-code")
	cmd.Flags().StringVar(&opts.previousCode, "previous-code", "", "file holding diagram code to revise")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "file the SVG is written to")
	cmd.Flags().StringVar(&opts.codeOutput, "code-output", "", "file the sanitized diagram code is written to")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (a *app) render(cmd *cobra.Command, opts *renderOptions, description string) error {
	req := diagram.Request{
		Description: description,
		Type:        opts.diagramType,
		Revision:    opts.revision,
	}

	if opts.previousCode != "" {
		if err := validation.ValidateInputFile(opts.previousCode); err != nil {
			return err
		}
		data, err := os.ReadFile(opts.previousCode)
		if err != nil {
			return fmt.Errorf("failed to read previous code: %w", err)
		}
		req.PreviousCode = string(data)
	}
	if opts.revision != "" && opts.previousCode == "" {
		return errors.New("--revision requires --previous-code")
	}
	if strings.TrimSpace(description) == "" && !req.Normalize().IsRevision() {
		return errors.New("a description is required")
	}

	if err := validation.ValidateOutputPath(opts.output); err != nil {
		return err
	}
	if opts.codeOutput != "" {
		if err := validation.ValidateOutputPath(opts.codeOutput); err != nil {
			return err
		}
	}

	gen, err := a.newPipeline(cmd.Context())
	if err != nil {
		return err
	}
	result, err := gen.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.output, []byte(result.SVG), 0o644); err != nil {
		return fmt.Errorf("failed to write diagram: %w", err)
	}
	if opts.codeOutput != "" {
		if err := os.WriteFile(opts.codeOutput, []byte(result.Code+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write diagram code: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprintf(out, "Diagram written to %s\n", opts.output)
	if opts.codeOutput != "" {
		color.New(color.FgGreen).Fprintf(out, "Diagram code written to %s\n", opts.codeOutput)
	}
	return nil
}
