package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/syssam/typexsd/compiler/load"
	"github.com/syssam/typexsd/compiler/xsd"
	"github.com/syssam/typexsd/schema"
)

func newGenerateCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate XML Schema documents from a model file",
		Long: `Generate one root schema per root type, plus one attachment per foreign
namespace, into the output directory.

Settings are read from the config file (typexsd.yaml by default) and
overridden by flags.

Examples:
  typexsd generate --model company.yaml --out ./xsd
  typexsd generate -m company.yaml -t Company -t "{urn:example:hr}Employee"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, g)
			if err != nil {
				return err
			}
			metrics, err := generate(cmd.Context(), cfg, g.logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d schemas, %d files (%d bytes)\n",
				metrics.Schemas, metrics.FilesGenerated, metrics.TotalBytes)
			for _, f := range metrics.Files {
				fmt.Fprintf(out, "  %s\n", f)
			}
			return nil
		},
	}
	bindFlags(cmd)
	return cmd
}

// resolveConfig loads the config file and applies the command line flags.
func resolveConfig(cmd *cobra.Command, g *globalOptions) (*config, error) {
	explicit := cmd.Flags().Changed("config")
	cfg, err := loadConfig(g.configFile, explicit)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyFlags(cmd); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// generate loads the model and writes the schemas of its root types.
func generate(ctx context.Context, cfg *config, logger *slog.Logger) (xsd.WriterMetrics, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := cfg.options(logger)
	if _, err := xsd.NewConfig(opts...); err != nil {
		return xsd.WriterMetrics{}, err
	}
	graph, err := load.Load(cfg.Model)
	if err != nil {
		return xsd.WriterMetrics{}, err
	}
	roots, err := selectRoots(graph, cfg.Types)
	if err != nil {
		return xsd.WriterMetrics{}, err
	}
	logger.Debug("generating schemas", "model", cfg.Model, "out", cfg.Out, "roots", len(roots))

	w := xsd.NewDirWriter(cfg.Out, opts...).WithWorkers(cfg.Workers)
	if err := w.Generate(ctx, roots...); err != nil {
		return xsd.WriterMetrics{}, err
	}
	metrics := w.Metrics()
	logger.Info("generation complete", "schemas", metrics.Schemas, "files", metrics.FilesGenerated, "bytes", metrics.TotalBytes)
	return metrics, nil
}

// selectRoots returns the types named on the command line, or the model
// roots when none are.
func selectRoots(g *load.Graph, refs []string) ([]*schema.ComplexType, error) {
	if len(refs) == 0 {
		roots := g.Roots()
		if len(roots) == 0 {
			return nil, errors.New("no root types: declare roots in the model or pass --type")
		}
		return roots, nil
	}
	roots := make([]*schema.ComplexType, 0, len(refs))
	for _, ref := range refs {
		t, err := g.ComplexType(ref)
		if err != nil {
			return nil, err
		}
		roots = append(roots, t)
	}
	return roots, nil
}
