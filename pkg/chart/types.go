// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package chart

import "os"

// ChartConfig is the metadata written to Chart.yaml.
type ChartConfig struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
	AppVersion  string `json:"appVersion,omitempty"`
}

// RenderResult points at a rendered chart directory. Close removes it.
type RenderResult struct {
	Dir string
}

func (r *RenderResult) Close() error {
	return os.RemoveAll(r.Dir)
}

// PushOptions configures how a rendered chart is pushed to an OCI registry.
type PushOptions struct {
	// ReferenceURL must end with <chart name>:<chart version>, for example
	// oci://registry.example.com/apps/shop:1.0.0.
	ReferenceURL    string `json:"referenceURL"`
	PlainHTTP       bool   `json:"plainHTTP,omitempty"`
	Username        string `json:"username,omitempty"`
	Password        string `json:"password,omitempty"`
	CredentialsFile string `json:"credentialsFile,omitempty"`
	// Retries is the number of additional attempts after a failed push.
	Retries uint64 `json:"retries,omitempty"`
}

type PushResult struct {
	Ref string `json:"ref"`
}
