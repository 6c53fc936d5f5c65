// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package chart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	"helm.sh/helm/v4/pkg/action"
	helmchart "helm.sh/helm/v4/pkg/chart"
	"helm.sh/helm/v4/pkg/chart/loader"
	"helm.sh/helm/v4/pkg/registry"

	"github.com/kubespace/spacelet-template/pkg/observability"
)

const ociScheme = "oci://"

// Push packages a rendered chart and pushes it to an OCI registry. The
// reference must name the chart and its version, e.g.
// oci://registry.example.com/apps/shop:1.0.0. Failed pushes are retried with
// exponential backoff up to opts.Retries times.
func Push(ctx context.Context, result *RenderResult, opts PushOptions) (*PushResult, error) {
	log := observability.LoggerFromContext(ctx).WithName("chart")

	if result == nil || result.Dir == "" {
		return nil, fmt.Errorf("invalid RenderResult: directory is empty")
	}
	if opts.ReferenceURL == "" {
		return nil, fmt.Errorf("registry URL is required")
	}

	if _, err := os.Stat(filepath.Join(result.Dir, "Chart.yaml")); err != nil {
		return nil, fmt.Errorf("chart directory is invalid: Chart.yaml not found: %w", err)
	}
	name, version, err := chartNameVersion(result.Dir)
	if err != nil {
		return nil, err
	}

	ref := strings.TrimPrefix(opts.ReferenceURL, ociScheme)
	if !strings.HasSuffix(ref, "/"+name+":"+version) {
		return nil, fmt.Errorf("reference %q must end with %s:%s", opts.ReferenceURL, name, version)
	}

	tmpDir, err := os.MkdirTemp("", "helm-package")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	packagePath, err := packageChart(result.Dir, tmpDir, version)
	if err != nil {
		return nil, fmt.Errorf("failed to package chart: %w", err)
	}
	chartData, err := os.ReadFile(packagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read packaged chart: %w", err)
	}

	client, err := newRegistryClient(opts)
	if err != nil {
		return nil, err
	}

	var pushed string
	err = retry(ctx, log, newBackOff(ctx, opts.Retries), func() error {
		res, err := client.Push(chartData, ref)
		if err != nil {
			return err
		}
		pushed = res.Ref
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to push chart to registry: %w", err)
	}

	log.Info("Pushed chart", "chart", name, "version", version, "ref", pushed)
	return &PushResult{Ref: pushed}, nil
}

// chartNameVersion loads the chart directory and returns its name and version.
func chartNameVersion(dir string) (string, string, error) {
	charter, err := loader.Load(dir)
	if err != nil {
		return "", "", fmt.Errorf("cannot load helm chart: %w", err)
	}
	accessor, err := helmchart.NewDefaultAccessor(charter)
	if err != nil {
		return "", "", fmt.Errorf("cannot create chart accessor: %w", err)
	}
	version, _ := accessor.MetadataAsMap()["Version"].(string)
	if version == "" {
		return "", "", fmt.Errorf("chart version not found in Chart.yaml")
	}
	return accessor.Name(), version, nil
}

func packageChart(chartDir, outputDir, version string) (string, error) {
	client := action.NewPackage()
	client.Destination = outputDir
	client.Version = version

	packagedPath, err := client.Run(chartDir, nil)
	if err != nil {
		return "", fmt.Errorf("helm package failed: %w", err)
	}
	return packagedPath, nil
}

func newRegistryClient(opts PushOptions) (*registry.Client, error) {
	var clientOpts []registry.ClientOption
	if opts.PlainHTTP {
		clientOpts = append(clientOpts, registry.ClientOptPlainHTTP())
	}
	if opts.Username != "" && opts.Password != "" {
		clientOpts = append(clientOpts, registry.ClientOptBasicAuth(opts.Username, opts.Password))
	}
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, registry.ClientOptCredentialsFile(opts.CredentialsFile))
	}

	client, err := registry.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry client: %w", err)
	}
	return client, nil
}

func newBackOff(ctx context.Context, retries uint64) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 2 * time.Minute
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

// retry runs op until it succeeds or b gives up, logging every failed attempt.
func retry(ctx context.Context, log logr.Logger, b backoff.BackOff, op func() error) error {
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		return op()
	}, b, func(err error, wait time.Duration) {
		log.Info("Push failed, retrying", "attempt", attempt, "wait", wait.String(), "error", err.Error())
	})
}
