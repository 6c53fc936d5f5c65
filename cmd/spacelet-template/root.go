// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/kubespace/spacelet-template/internal/config"
	"github.com/kubespace/spacelet-template/pkg/observability"
)

type rootOptions struct {
	configFile string
	logLevel   string

	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "spacelet-template",
		Short: "Convert kubespace application forms to Kubernetes manifests and back",
		Long: `spacelet-template converts the flat forms edited in the kubespace UI into
Kubernetes manifests (transfer), turns manifests back into forms (resolve) and
packages transferred manifests as a Helm chart that can be pushed to an OCI
registry (chart).`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.complete(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides the configuration")

	cmd.AddCommand(newNewCommand())
	cmd.AddCommand(newTransferCommand(opts))
	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newChartCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// complete loads the configuration and attaches a logger to the command context.
func (o *rootOptions) complete(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	o.cfg = cfg

	logger, err := observability.NewLogger(observability.LoggerConfig{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		Encoding:    cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	cmd.SetContext(observability.ContextWithLogger(cmd.Context(), logger.WithName("spacelet-template")))
	return nil
}

func loggerFor(cmd *cobra.Command) logr.Logger {
	return observability.LoggerFromContext(cmd.Context()).WithName(cmd.Name())
}

// readInput reads a file, or standard input when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// writeDocuments writes docs to the command output as one YAML stream.
func writeDocuments(cmd *cobra.Command, docs [][]byte) error {
	var buf bytes.Buffer
	for i, doc := range docs {
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(doc)
	}
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
