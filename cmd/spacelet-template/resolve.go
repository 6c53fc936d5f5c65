// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubespace/spacelet-template/pkg/template"
)

func newResolveCommand() *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:   "resolve -f <manifest.yaml>",
		Short: "Convert Kubernetes manifests to forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := loggerFor(cmd)

			var docs [][]byte
			for _, file := range files {
				data, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				objs, err := template.DecodeManifests(data)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				for _, obj := range objs {
					form, err := template.Resolve(obj)
					if err != nil {
						return fmt.Errorf("%s: %w", file, err)
					}
					out, err := template.EncodeForm(form)
					if err != nil {
						return err
					}
					log.V(1).Info("Resolved manifest", "file", file, "kind", form.Object().Kind, "name", form.Object().Name())
					docs = append(docs, out)
				}
			}
			return writeDocuments(cmd, docs)
		},
	}

	cmd.Flags().StringArrayVarP(&files, "filename", "f", nil, "Manifest file to resolve, - for stdin")
	_ = cmd.MarkFlagRequired("filename")

	return cmd
}
