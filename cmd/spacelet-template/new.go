// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubespace/spacelet-template/pkg/template"
)

func newNewCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "new <kind>",
		Short: "Print an empty form of the given kind",
		ValidArgs: []string{
			string(template.KindDeployment),
			string(template.KindStatefulSet),
			string(template.KindDaemonSet),
			string(template.KindService),
			string(template.KindConfigMap),
			string(template.KindSecret),
		},
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := template.NewForm(template.Kind(args[0]))
			if err != nil {
				return err
			}
			form.Object().Metadata.Name = name

			out, err := template.EncodeForm(form)
			if err != nil {
				return fmt.Errorf("encoding form: %w", err)
			}
			return writeDocuments(cmd, [][]byte{out})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the new object")

	return cmd
}
