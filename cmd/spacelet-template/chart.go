// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kubespace/spacelet-template/pkg/chart"
)

type chartOptions struct {
	files       []string
	app         string
	name        string
	version     string
	appVersion  string
	description string

	push            bool
	registry        string
	plainHTTP       bool
	username        string
	password        string
	credentialsFile string
	retries         int
}

func newChartCommand(root *rootOptions) *cobra.Command {
	opts := &chartOptions{}

	cmd := &cobra.Command{
		Use:   "chart -f <form.yaml> --app <name>",
		Short: "Render transferred forms as a Helm chart and optionally push it",
		Long: `Transfer every form and render the manifests as a Helm chart. Without --push
the chart directory is kept and its path printed. With --push the chart is
packaged and pushed to <registry>/<name>:<version>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.complete(cmd, root)
			return opts.run(cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.files, "filename", "f", nil, "Form file to include, - for stdin")
	flags.StringVar(&opts.app, "app", "", "Application name")
	flags.StringVar(&opts.name, "name", "", "Chart name, defaults to the application name")
	flags.StringVar(&opts.version, "version", "", "Chart version")
	flags.StringVar(&opts.appVersion, "app-version", "", "Chart appVersion, defaults to the chart version")
	flags.StringVar(&opts.description, "description", "", "Chart description")
	opts.addPushFlags(flags)
	_ = cmd.MarkFlagRequired("filename")

	return cmd
}

func (o *chartOptions) addPushFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&o.push, "push", false, "Push the chart to the registry after rendering")
	flags.StringVar(&o.registry, "registry", "", "OCI repository to push to, e.g. oci://registry.example.com/apps")
	flags.BoolVar(&o.plainHTTP, "plain-http", false, "Use plain HTTP to talk to the registry")
	flags.StringVar(&o.username, "username", "", "Registry username")
	flags.StringVar(&o.password, "password", "", "Registry password")
	flags.StringVar(&o.credentialsFile, "credentials-file", "", "Registry credentials file")
	flags.IntVar(&o.retries, "retries", 0, "Additional push attempts after a failure")
}

// complete fills every option not set on the command line from the configuration.
func (o *chartOptions) complete(cmd *cobra.Command, root *rootOptions) {
	cfg := root.cfg
	flags := cmd.Flags()

	if o.app == "" {
		o.app = cfg.App
	}
	if o.name == "" {
		o.name = cfg.Chart.Name
	}
	if o.name == "" {
		o.name = o.app
	}
	if o.version == "" {
		o.version = cfg.Chart.Version
	}
	if o.appVersion == "" {
		o.appVersion = cfg.Chart.AppVersion
	}
	if o.description == "" {
		o.description = cfg.Chart.Description
	}

	if o.registry == "" {
		o.registry = cfg.Registry.URL
	}
	if !flags.Changed("plain-http") {
		o.plainHTTP = cfg.Registry.PlainHTTP
	}
	if o.username == "" {
		o.username = cfg.Registry.Username
	}
	if o.password == "" {
		o.password = cfg.Registry.Password
	}
	if o.credentialsFile == "" {
		o.credentialsFile = cfg.Registry.CredentialsFile
	}
	if !flags.Changed("retries") {
		o.retries = cfg.Registry.Retries
	}
}

func (o *chartOptions) run(cmd *cobra.Command) error {
	log := loggerFor(cmd)

	if o.name == "" {
		return errors.New("chart name is required, set --name or --app")
	}
	if o.push && o.registry == "" {
		return errors.New("--push requires a registry, set --registry or registry.url")
	}
	if o.retries < 0 {
		return fmt.Errorf("--retries must not be negative, got %d", o.retries)
	}

	objs, err := transferFiles(cmd, o.files, o.app)
	if err != nil {
		return err
	}

	result, err := chart.RenderApp(chart.AppConfig{
		Chart: chart.ChartConfig{
			Name:        o.name,
			Version:     o.version,
			AppVersion:  o.appVersion,
			Description: o.description,
		},
		App:     o.app,
		Objects: objs,
	})
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	log.Info("Rendered chart", "chart", o.name, "version", o.version, "resources", len(objs), "dir", result.Dir)

	if !o.push {
		fmt.Fprintf(cmd.OutOrStdout(), "Rendered chart %s:%s to %s\n", o.name, o.version, result.Dir)
		return nil
	}
	defer func() { _ = result.Close() }()

	pushResult, err := chart.Push(cmd.Context(), result, chart.PushOptions{
		ReferenceURL:    o.reference(),
		PlainHTTP:       o.plainHTTP,
		Username:        o.username,
		Password:        o.password,
		CredentialsFile: o.credentialsFile,
		Retries:         uint64(o.retries),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pushed chart to %s\n", pushResult.Ref)
	return nil
}

// reference returns <registry>/<name>:<version>.
func (o *chartOptions) reference() string {
	registry := o.registry
	if !strings.HasPrefix(registry, "oci://") {
		registry = "oci://" + registry
	}
	return strings.TrimSuffix(registry, "/") + "/" + o.name + ":" + o.version
}
