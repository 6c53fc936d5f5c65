// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/randfill"
)

var _ = Describe("Round trip", func() {
	It("should reproduce container commands, probes and env", func() {
		form := webWorkload()
		c := &form.Spec.Template.Spec.Containers[0]
		c.Command = `["sh","-c","nginx -g 'daemon off;'"]`
		c.Args = "--debug"
		c.Env = []EnvVarForm{
			{Name: "A", Type: EnvValue, Value: "1"},
			{Name: "B", Type: EnvConfigMap, Value: "cfg", Key: "b"},
			{Name: "C", Type: EnvField, Value: "metadata.name"},
		}
		c.LivenessProbe = ProbeForm{
			Probe:               true,
			Type:                ProbeHTTP,
			Handle:              ProbeHandle{Path: "/healthz", Port: ptr.To(intstr.FromInt32(80))},
			SuccessThreshold:    intstr.FromInt32(1),
			FailureThreshold:    intstr.FromInt32(4),
			InitialDelaySeconds: intstr.FromInt32(5),
			TimeoutSeconds:      intstr.FromInt32(2),
			PeriodSeconds:       intstr.FromInt32(15),
		}
		c.ReadinessProbe = ProbeForm{
			Probe:               true,
			Type:                ProbeCommand,
			Handle:              ProbeHandle{Command: []string{"cat", "/tmp/ready"}},
			SuccessThreshold:    intstr.FromInt32(1),
			FailureThreshold:    intstr.FromInt32(3),
			InitialDelaySeconds: intstr.FromInt32(0),
			TimeoutSeconds:      intstr.FromInt32(1),
			PeriodSeconds:       intstr.FromInt32(10),
		}

		obj, err := Transfer(form, "shop")
		Expect(err).NotTo(HaveOccurred())
		resolved, err := Resolve(obj)
		Expect(err).NotTo(HaveOccurred())

		got := resolved.(*WorkloadForm).Spec.Template.Spec.Containers[0]
		Expect(got.Command).To(Equal(c.Command))
		Expect(got.Args).To(Equal(`["--debug"]`))
		Expect(got.Env).To(Equal(c.Env))
		Expect(got.LivenessProbe).To(Equal(c.LivenessProbe))
		Expect(got.ReadinessProbe).To(Equal(c.ReadinessProbe))
		Expect(got.LivenessProbe.Handle.Command).To(BeEmpty())
	})

	It("should reproduce volumes, host aliases and affinity", func() {
		form := webWorkload()
		spec := &form.Spec.Template.Spec
		v := NewVolume()
		v.Name = "certs"
		v.Type = VolumeSecret
		v.Secret = &KeyedVolumeForm{
			Items:       []corev1.KeyToPath{{Key: "tls.crt", Path: "tls.crt"}},
			DefaultMode: intstr.FromString("600"),
			Object:      ObjectRef{Metadata: ObjectRefMeta{Name: "tls"}, Keys: []string{"tls.crt"}},
		}
		spec.Volumes = []VolumeForm{*v}
		spec.HostAliases = []HostAliasForm{{IP: "10.0.0.2", Hostnames: "db"}}
		spec.NodeSelector = []KeyValue{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}
		spec.Affinity.NodeAffinity = []AffinityRule{{Key: "zone", Operator: "NotIn", Values: []string{"c"}}}

		obj, err := Transfer(form, "shop")
		Expect(err).NotTo(HaveOccurred())
		resolved, err := Resolve(obj)
		Expect(err).NotTo(HaveOccurred())

		got := resolved.(*WorkloadForm).Spec.Template.Spec
		Expect(got.Volumes).To(HaveLen(1))
		Expect(got.Volumes[0].Type).To(Equal(VolumeSecret))
		Expect(got.Volumes[0].Secret).To(Equal(v.Secret))
		Expect(got.HostAliases).To(Equal(spec.HostAliases))
		Expect(got.NodeSelector).To(Equal(spec.NodeSelector))
		Expect(got.Affinity.NodeAffinity).To(Equal(spec.Affinity.NodeAffinity))
	})

	It("should reproduce random config map and opaque secret data", func() {
		filler := randfill.New().NilChance(0).NumElements(1, 20)
		for range 50 {
			var data map[string]string
			filler.Fill(&data)
			delete(data, "")

			cm := NewConfigMap()
			cm.Metadata.Name = "cfg"
			cm.Data = toPairs(data)
			obj, err := Transfer(cm, "shop")
			Expect(err).NotTo(HaveOccurred())
			Expect(obj.(*corev1.ConfigMap).Data).To(Equal(data))
			resolved, err := Resolve(obj)
			Expect(err).NotTo(HaveOccurred())
			Expect(resolved.(*ConfigMapForm).Data).To(Equal(cm.Data))

			secret := NewSecret()
			secret.Metadata.Name = "creds"
			secret.Data = toPairs(data)
			obj, err = Transfer(secret, "shop")
			Expect(err).NotTo(HaveOccurred())
			resolved, err = Resolve(obj)
			Expect(err).NotTo(HaveOccurred())
			Expect(resolved.(*SecretForm).Data).To(Equal(secret.Data))
		}
	})

	It("should reproduce random registry credentials", func() {
		filler := randfill.New().NilChance(0)
		for range 50 {
			var pass ImagePassForm
			filler.Fill(&pass)
			if pass.URL == "" {
				pass.URL = "registry.example.com"
			}

			secret := NewSecret()
			secret.Metadata.Name = "pull"
			secret.Type = corev1.SecretTypeDockerConfigJson
			secret.ImagePass = pass
			obj, err := Transfer(secret, "shop")
			Expect(err).NotTo(HaveOccurred())
			resolved, err := Resolve(obj)
			Expect(err).NotTo(HaveOccurred())
			Expect(resolved.(*SecretForm).ImagePass).To(Equal(pass))
		}
	})
})
