// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

// Package chart renders transferred manifests as a Helm chart and pushes it
// to an OCI registry.
package chart
