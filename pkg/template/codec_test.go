// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

const workloadFormYAML = `
kind: Deployment
apiVersion: apps/v1
metadata:
  name: web
  namespace: "{{ .Release.Namespace }}"
  labels: {}
spec:
  replicas: 2
  selector:
    matchLabels: {}
  template:
    metadata:
      labels: {}
    spec:
      containers:
      - name: nginx
        image: nginx:1.27
        command: '["nginx","-g","daemon off;"]'
        ports:
        - containerPort: "80"
        env:
        - name: CONFIG
          type: configMap
          value:
            name: web-config
          key: config
        - name: MODE
          type: value
          value: prod
        - name: WORKERS
          type: value
          value: 4
        livenessProbe:
          probe: true
          type: tcp
          handle:
            port: 80
          successThreshold: "1"
          failureThreshold: 3
          initialDelaySeconds: 0
          timeoutSeconds: 1
          periodSeconds: 10
`

var _ = Describe("Codec", func() {
	Describe("EnvVarForm JSON", func() {
		It("should write object references as {name}", func() {
			out, err := json.Marshal(EnvVarForm{Name: "A", Type: EnvConfigMap, Value: "cfg", Key: "k"})
			Expect(err).NotTo(HaveOccurred())
			Expect(jsonpatch.Equal(out, []byte(`{"name":"A","type":"configMap","value":{"name":"cfg"},"key":"k"}`))).To(BeTrue())

			out, err = json.Marshal(EnvVarForm{Name: "B", Type: EnvValue, Value: "x"})
			Expect(err).NotTo(HaveOccurred())
			Expect(jsonpatch.Equal(out, []byte(`{"name":"B","type":"value","value":"x"}`))).To(BeTrue())
		})

		It("should accept strings, objects, scalars and null", func() {
			var envs []EnvVarForm
			Expect(json.Unmarshal([]byte(`[
				{"name":"A","type":"secret","value":{"name":"s"},"key":"k"},
				{"name":"B","type":"secret","value":"s","key":"k"},
				{"name":"C","type":"value","value":8080},
				{"name":"D","type":"value","value":true},
				{"name":"E","type":"value","value":null},
				{"name":"F","type":"value"}
			]`), &envs)).To(Succeed())
			Expect(envs).To(Equal([]EnvVarForm{
				{Name: "A", Type: EnvSecret, Value: "s", Key: "k"},
				{Name: "B", Type: EnvSecret, Value: "s", Key: "k"},
				{Name: "C", Type: EnvValue, Value: "8080"},
				{Name: "D", Type: EnvValue, Value: "true"},
				{Name: "E", Type: EnvValue},
				{Name: "F", Type: EnvValue},
			}))
		})
	})

	Describe("DecodeForm", func() {
		It("should decode a workload form from YAML", func() {
			form, err := DecodeForm([]byte(workloadFormYAML))
			Expect(err).NotTo(HaveOccurred())
			workload, ok := form.(*WorkloadForm)
			Expect(ok).To(BeTrue())
			Expect(workload.Metadata.Namespace).To(Equal(ReleaseNamespace))

			c := workload.Spec.Template.Spec.Containers[0]
			Expect(c.Ports[0].ContainerPort).To(Equal(intstr.FromString("80")))
			Expect(c.Env[0]).To(Equal(EnvVarForm{Name: "CONFIG", Type: EnvConfigMap, Value: "web-config", Key: "config"}))
			Expect(c.Env[2].Value).To(Equal("4"))
			Expect(c.LivenessProbe.SuccessThreshold).To(Equal(intstr.FromString("1")))

			obj, err := Transfer(form, "shop")
			Expect(err).NotTo(HaveOccurred())
			deploy := obj.(*appsv1.Deployment)
			Expect(*deploy.Spec.Replicas).To(Equal(int32(2)))
			container := deploy.Spec.Template.Spec.Containers[0]
			Expect(container.Command).To(Equal([]string{"nginx", "-g", "daemon off;"}))
			Expect(container.Ports[0].ContainerPort).To(Equal(int32(80)))
			Expect(container.LivenessProbe.TCPSocket.Port).To(Equal(intstr.FromInt32(80)))
			Expect(container.LivenessProbe.SuccessThreshold).To(Equal(int32(1)))
		})

		It("should pick the form type from kind", func() {
			for kind, expected := range map[string]Form{
				"StatefulSet": &WorkloadForm{},
				"Service":     &ServiceForm{},
				"ConfigMap":   &ConfigMapForm{},
				"Secret":      &SecretForm{},
			} {
				form, err := DecodeForm([]byte("kind: " + kind + "\nmetadata:\n  name: x\n"))
				Expect(err).NotTo(HaveOccurred())
				Expect(form).To(BeAssignableToTypeOf(expected))
				Expect(form.Object().Name()).To(Equal("x"))
			}
		})

		It("should reject missing and unknown kinds", func() {
			_, err := DecodeForm([]byte("metadata:\n  name: x\n"))
			Expect(err).To(MatchError(ContainSubstring("kind is required")))

			_, err = DecodeForm([]byte("kind: Ingress\n"))
			Expect(err).To(MatchError(ContainSubstring(`unsupported kind "Ingress"`)))
		})

		It("should round trip through EncodeForm", func() {
			form := NewSecret()
			form.Metadata.Name = "creds"
			form.Data = []KeyValue{{Key: "a", Value: "b"}}

			out, err := EncodeForm(form)
			Expect(err).NotTo(HaveOccurred())
			decoded, err := DecodeForm(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(Equal(form))
		})
	})

	Describe("manifests", func() {
		It("should encode without status or creation timestamps", func() {
			obj, err := Transfer(webWorkload(), "shop")
			Expect(err).NotTo(HaveOccurred())

			out, err := EncodeManifest(obj)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(ContainSubstring("apiVersion: apps/v1"))
			Expect(string(out)).To(ContainSubstring("kind: Deployment"))
			Expect(string(out)).To(ContainSubstring("namespace: "))
			Expect(string(out)).To(ContainSubstring("{{ .Release.Namespace }}"))
			Expect(string(out)).NotTo(ContainSubstring("status"))
			Expect(string(out)).NotTo(ContainSubstring("creationTimestamp"))
		})

		It("should set apiVersion and kind when missing", func() {
			out, err := EncodeManifest(&corev1.ConfigMap{Data: map[string]string{"a": "b"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(ContainSubstring("apiVersion: v1"))
			Expect(string(out)).To(ContainSubstring("kind: ConfigMap"))
		})

		It("should decode what it encodes", func() {
			obj, err := Transfer(webWorkload(), "shop")
			Expect(err).NotTo(HaveOccurred())
			out, err := EncodeManifest(obj)
			Expect(err).NotTo(HaveOccurred())

			decoded, err := DecodeManifest(out)
			Expect(err).NotTo(HaveOccurred())
			deploy, ok := decoded.(*appsv1.Deployment)
			Expect(ok).To(BeTrue())
			Expect(deploy.Name).To(Equal("web"))
			Expect(deploy.Spec.Template.Spec.Containers[0].Image).To(Equal("nginx:1.27"))
		})

		It("should decode multi-document streams and skip empty documents", func() {
			objs, err := DecodeManifests([]byte(`
---
# comment only
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: a
---
apiVersion: v1
kind: Secret
metadata:
  name: b
data:
  k: dg==
---
`))
			Expect(err).NotTo(HaveOccurred())
			Expect(objs).To(HaveLen(2))
			Expect(objs[0]).To(BeAssignableToTypeOf(&corev1.ConfigMap{}))
			secret := objs[1].(*corev1.Secret)
			Expect(secret.Data["k"]).To(Equal([]byte("v")))
		})

		It("should report unknown manifests", func() {
			_, err := DecodeManifest([]byte("apiVersion: networking.k8s.io/v1\nkind: Ingress\n"))
			Expect(err).To(HaveOccurred())
		})

		It("should decode multi-document form streams", func() {
			forms, err := DecodeForms([]byte(workloadFormYAML + "---\nkind: ConfigMap\nmetadata:\n  name: cfg\ndata:\n- key: a\n  value: b\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(forms).To(HaveLen(2))
			Expect(forms[1].(*ConfigMapForm).Data).To(Equal([]KeyValue{{Key: "a", Value: "b"}}))
		})
	})
})
