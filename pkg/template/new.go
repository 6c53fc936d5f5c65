// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

// NewForm returns an empty form of the given kind.
func NewForm(kind Kind) (Form, error) {
	switch kind {
	case KindDeployment, KindStatefulSet, KindDaemonSet:
		return NewWorkload(kind), nil
	case KindService:
		return NewService(), nil
	case KindConfigMap:
		return NewConfigMap(), nil
	case KindSecret:
		return NewSecret(), nil
	default:
		return nil, fmt.Errorf("unsupported kind %q", kind)
	}
}

func newObject(kind Kind) ObjectForm {
	return ObjectForm{
		Kind:       kind,
		APIVersion: defaultAPIVersion(kind),
		Metadata: &Metadata{
			Labels:    map[string]string{},
			Namespace: ReleaseNamespace,
		},
	}
}

// NewWorkload returns a workload form with a single empty container.
func NewWorkload(kind Kind) *WorkloadForm {
	return &WorkloadForm{
		ObjectForm: newObject(kind),
		Spec: WorkloadSpec{
			Replicas: ptr.To[int32](1),
			Selector: metav1.LabelSelector{MatchLabels: map[string]string{}},
			Template: PodTemplateForm{
				Metadata: PodMetadata{Labels: map[string]string{}},
				Spec: PodSpecForm{
					NodeSelector: []KeyValue{},
					Tolerations:  []corev1.Toleration{},
					Affinity: AffinityForm{
						NodeAffinity:    []AffinityRule{},
						PodAffinity:     []AffinityRule{},
						PodAntiAffinity: []AffinityRule{},
					},
					SecurityContext: &corev1.PodSecurityContext{},
					HostAliases:     []HostAliasForm{},
					Containers:      []ContainerForm{*NewContainer()},
					Volumes:         []VolumeForm{},
				},
			},
		},
	}
}

func NewService() *ServiceForm {
	return &ServiceForm{
		ObjectForm: newObject(KindService),
		Spec: ServiceSpecForm{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: map[string]string{},
			Ports:    []ServicePortForm{},
		},
	}
}

func NewConfigMap() *ConfigMapForm {
	return &ConfigMapForm{
		ObjectForm: newObject(KindConfigMap),
		Data:       []KeyValue{},
	}
}

func NewSecret() *SecretForm {
	return &SecretForm{
		ObjectForm: newObject(KindSecret),
		Type:       corev1.SecretTypeOpaque,
		Data:       []KeyValue{},
	}
}

// NewContainer returns an empty container with both probes disabled.
func NewContainer() *ContainerForm {
	return &ContainerForm{
		Ports: []ContainerPortForm{},
		Env:   []EnvVarForm{},
		Resources: corev1.ResourceRequirements{
			Limits:   corev1.ResourceList{},
			Requests: corev1.ResourceList{},
		},
		LivenessProbe:  DefaultProbe(),
		ReadinessProbe: DefaultProbe(),
		VolumeMounts:   []corev1.VolumeMount{},
		SecurityContext: SecurityContextForm{
			Capabilities:   &corev1.Capabilities{Add: []corev1.Capability{}, Drop: []corev1.Capability{}},
			SELinuxOptions: &corev1.SELinuxOptions{},
		},
	}
}

// NewVolume returns a persistent volume claim volume with every source
// initialised, so the UI can switch types without losing state.
func NewVolume() *VolumeForm {
	return &VolumeForm{
		Type:                  VolumePersistentVolumeClaim,
		PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{},
		Glusterfs:             &corev1.GlusterfsVolumeSource{},
		NFS:                   &corev1.NFSVolumeSource{},
		Secret:                &KeyedVolumeForm{Items: []corev1.KeyToPath{}, Object: ObjectRef{Keys: []string{}}},
		ConfigMap:             &KeyedVolumeForm{Items: []corev1.KeyToPath{}, Object: ObjectRef{Keys: []string{}}},
		EmptyDir:              &corev1.EmptyDirVolumeSource{},
		HostPath:              &corev1.HostPathVolumeSource{},
	}
}
