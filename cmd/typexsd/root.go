package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

const defaultConfigFile = "typexsd.yaml"

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configFile string
	logLevel   string
	logFormat  string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{logger: slog.Default()}
	rootCmd := &cobra.Command{
		Use:   "typexsd",
		Short: "Generate XML Schema documents from a type model",
		Long: `typexsd turns a type model (YAML or JSON) into XML Schema documents.

The root schema of every root type is written to <type>.xsd. Types of other
namespaces go to attachment documents next to it, imported by the root.

Examples:
  typexsd generate --model company.yaml --out ./xsd
  typexsd generate --model company.yaml --type Company --extension
  typexsd watch --model company.yaml --out ./xsd`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), g.logLevel, g.logFormat)
			if err != nil {
				return err
			}
			g.logger = logger
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(
		newGenerateCmd(g),
		newWatchCmd(g),
		newVersionCmd(),
	)
	return rootCmd
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
