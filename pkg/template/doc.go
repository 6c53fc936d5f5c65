// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

// Package template converts kubespace application forms to Kubernetes
// manifests and back.
//
// A form is the flat record edited in the UI: env vars, probes, volumes,
// affinity rules and secret data are lists of small entries instead of the
// nested, map typed fields of the manifest. Transfer builds a typed object
// from a form and Resolve builds a new form from an object. Both stop at the
// first invalid field and report it as an *Error.
package template
