// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package chart

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/kubespace/spacelet-template/pkg/template"
)

func shopObjects() []runtime.Object {
	GinkgoHelper()
	workload := template.NewWorkload(template.KindDeployment)
	workload.Metadata.Name = "web"
	workload.Spec.Template.Spec.Containers[0].Name = "nginx"
	workload.Spec.Template.Spec.Containers[0].Image = "nginx:1.27"

	cm := template.NewConfigMap()
	cm.Metadata.Name = "web-config"
	cm.Data = []template.KeyValue{{Key: "mode", Value: "prod"}}

	var objs []runtime.Object
	for _, form := range []template.Form{workload, cm} {
		obj, err := template.Transfer(form, "shop")
		Expect(err).NotTo(HaveOccurred())
		objs = append(objs, obj)
	}
	return objs
}

var _ = Describe("RenderApp", func() {
	var (
		result *RenderResult
		err    error
	)

	AfterEach(func() {
		if result != nil {
			Expect(result.Close()).To(Succeed())
			result = nil
		}
	})

	It("should render chart metadata and one template per manifest", func() {
		result, err = RenderApp(AppConfig{
			Chart:   ChartConfig{Name: "shop", Version: "1.0.0"},
			App:     "shop",
			Objects: shopObjects(),
		})
		Expect(err).NotTo(HaveOccurred())

		for _, f := range []string{"Chart.yaml", "values.yaml", ".helmignore", "templates/deployment-web.yaml", "templates/configmap-web-config.yaml"} {
			Expect(filepath.Join(result.Dir, f)).To(BeAnExistingFile())
		}
		entries, err := os.ReadDir(filepath.Join(result.Dir, "templates"))
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))

		name, version, err := chartNameVersion(result.Dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("shop"))
		Expect(version).To(Equal("1.0.0"))

		values, err := os.ReadFile(filepath.Join(result.Dir, "values.yaml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(values)).To(ContainSubstring(`appName: "shop"`))
		Expect(string(values)).To(ContainSubstring("file: deployment-web.yaml"))

		chartYAML, err := os.ReadFile(filepath.Join(result.Dir, "Chart.yaml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(chartYAML)).To(ContainSubstring(`appVersion: "1.0.0"`))
		Expect(string(chartYAML)).To(ContainSubstring(`description: "Application shop"`))

		manifest, err := os.ReadFile(filepath.Join(result.Dir, "templates", "deployment-web.yaml"))
		Expect(err).NotTo(HaveOccurred())
		obj, err := template.DecodeManifest(manifest)
		Expect(err).NotTo(HaveOccurred())
		deploy, ok := obj.(*appsv1.Deployment)
		Expect(ok).To(BeTrue())
		Expect(deploy.Namespace).To(Equal(template.ReleaseNamespace))
		Expect(deploy.Labels).To(HaveKeyWithValue(template.AppLabelKey, "shop"))
	})

	It("should default the app name to the chart name", func() {
		result, err = RenderApp(AppConfig{Chart: ChartConfig{Name: "shop", Version: "0.1.0", AppVersion: "2.3"}})
		Expect(err).NotTo(HaveOccurred())
		values, err := os.ReadFile(filepath.Join(result.Dir, "values.yaml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(values)).To(ContainSubstring(`appName: "shop"`))
		chartYAML, err := os.ReadFile(filepath.Join(result.Dir, "Chart.yaml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(chartYAML)).To(ContainSubstring(`appVersion: "2.3"`))
	})

	It("should reject duplicate resources", func() {
		objs := shopObjects()
		result, err = RenderApp(AppConfig{
			Chart:   ChartConfig{Name: "shop", Version: "1.0.0"},
			Objects: append(objs, objs[0]),
		})
		Expect(err).To(MatchError(ContainSubstring("duplicate resource Deployment/web")))
		Expect(result).To(BeNil())
	})

	It("should require chart metadata and named objects", func() {
		result, err = RenderApp(AppConfig{Chart: ChartConfig{Version: "1.0.0"}})
		Expect(err).To(MatchError(ContainSubstring("chart name is required")))

		result, err = RenderApp(AppConfig{Chart: ChartConfig{Name: "shop"}})
		Expect(err).To(MatchError(ContainSubstring("chart version is required")))

		result, err = RenderApp(AppConfig{
			Chart:   ChartConfig{Name: "shop", Version: "1.0.0"},
			Objects: []runtime.Object{&corev1.ConfigMap{}},
		})
		Expect(err).To(MatchError(ContainSubstring("ConfigMap has no name")))
		Expect(result).To(BeNil())
	})
})
