// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package chart

import (
	"embed"
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/kubespace/spacelet-template/pkg/template"
)

//go:embed template/app/*
var appFS embed.FS

var appTemplates = []string{
	"template/app/Chart.yaml",
	"template/app/values.yaml",
	"template/app/.helmignore",
}

// AppConfig describes an application chart: its metadata and the manifests
// placed under templates/.
type AppConfig struct {
	Chart ChartConfig
	// App is the application name. It defaults to the chart name.
	App     string
	Objects []runtime.Object
}

type appResource struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	File string `json:"file"`
}

type appData struct {
	Chart     ChartConfig
	App       string
	Resources []appResource
}

// RenderApp renders an application chart into a temporary directory. Every
// object is written to templates/<kind>-<name>.yaml.
func RenderApp(c AppConfig) (*RenderResult, error) {
	if c.Chart.Name == "" {
		return nil, errors.New("chart name is required")
	}
	if c.Chart.Version == "" {
		return nil, errors.New("chart version is required")
	}

	data := appData{Chart: c.Chart, App: c.App, Resources: []appResource{}}
	if data.App == "" {
		data.App = c.Chart.Name
	}

	r := newRenderer().
		withTemplateFS(appFS).
		withTemplateFiles(appTemplates).
		withOutputName("spacelet-app")

	seen := map[string]bool{}
	for i, obj := range c.Objects {
		gvk, err := template.ObjectKind(obj)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		accessor, err := meta.Accessor(obj)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		if accessor.GetName() == "" {
			return nil, fmt.Errorf("object %d: %s has no name", i, gvk.Kind)
		}

		file := fmt.Sprintf("%s-%s.yaml", lowerKind(gvk.Kind), accessor.GetName())
		if seen[file] {
			return nil, fmt.Errorf("duplicate resource %s/%s", gvk.Kind, accessor.GetName())
		}
		seen[file] = true

		manifest, err := template.EncodeManifest(obj)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", gvk.Kind, accessor.GetName(), err)
		}
		r.withFile("templates/"+file, manifest)
		data.Resources = append(data.Resources, appResource{Kind: gvk.Kind, Name: accessor.GetName(), File: file})
	}

	return r.withTemplateData(data).render()
}
