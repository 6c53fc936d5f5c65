// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/kubespace/spacelet-template/pkg/template"
)

func newTransferCommand(root *rootOptions) *cobra.Command {
	var (
		files []string
		app   string
	)

	cmd := &cobra.Command{
		Use:   "transfer -f <form.yaml>",
		Short: "Convert forms to Kubernetes manifests",
		Long: `Convert one or more form documents to Kubernetes manifests. Each file may
hold several YAML documents. Use "-" to read from standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app == "" {
				app = root.cfg.App
			}
			objs, err := transferFiles(cmd, files, app)
			if err != nil {
				return err
			}

			docs := make([][]byte, 0, len(objs))
			for _, obj := range objs {
				out, err := template.EncodeManifest(obj)
				if err != nil {
					return err
				}
				docs = append(docs, out)
			}
			return writeDocuments(cmd, docs)
		},
	}

	cmd.Flags().StringArrayVarP(&files, "filename", "f", nil, "Form file to transfer, - for stdin")
	cmd.Flags().StringVar(&app, "app", "", "Application name set as kubespace.cn/app label")
	_ = cmd.MarkFlagRequired("filename")

	return cmd
}

// transferFiles decodes every form in files and converts it to a manifest.
func transferFiles(cmd *cobra.Command, files []string, app string) ([]runtime.Object, error) {
	log := loggerFor(cmd)

	var objs []runtime.Object
	for _, file := range files {
		data, err := readInput(cmd, file)
		if err != nil {
			return nil, err
		}
		forms, err := template.DecodeForms(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		for _, form := range forms {
			obj, err := template.Transfer(form, app)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			log.V(1).Info("Transferred form", "file", file, "kind", form.Object().Kind, "name", form.Object().Name())
			objs = append(objs, obj)
		}
	}
	return objs, nil
}
