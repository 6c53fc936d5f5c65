// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/utils/ptr"
)

var transferKinds = []string{
	string(KindDeployment), string(KindStatefulSet), string(KindDaemonSet),
	string(KindService), string(KindConfigMap), string(KindSecret),
}

// Transfer builds the Kubernetes manifest described by form. Every object is
// labelled with appName under AppLabelKey. The form is not modified.
//
// The returned error is a *Error naming the first invalid field.
func Transfer(form Form, appName string) (runtime.Object, error) {
	switch f := form.(type) {
	case *WorkloadForm:
		if f == nil {
			break
		}
		meta, err := validateObject(&f.ObjectForm)
		if err != nil {
			return nil, err
		}
		obj, err := transferWorkload(f, meta, appName)
		if err != nil {
			return nil, err
		}
		return obj, nil
	case *ServiceForm:
		if f == nil {
			break
		}
		meta, err := validateObject(&f.ObjectForm)
		if err != nil {
			return nil, err
		}
		if f.Kind != KindService {
			return nil, unsupportedKind(&f.ObjectForm)
		}
		svc, err := transferService(f, meta, appName)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case *ConfigMapForm:
		if f == nil {
			break
		}
		meta, err := validateObject(&f.ObjectForm)
		if err != nil {
			return nil, err
		}
		if f.Kind != KindConfigMap {
			return nil, unsupportedKind(&f.ObjectForm)
		}
		cm, err := transferConfigMap(f, meta, appName)
		if err != nil {
			return nil, err
		}
		return cm, nil
	case *SecretForm:
		if f == nil {
			break
		}
		meta, err := validateObject(&f.ObjectForm)
		if err != nil {
			return nil, err
		}
		if f.Kind != KindSecret {
			return nil, unsupportedKind(&f.ObjectForm)
		}
		secret, err := transferSecret(f, meta, appName)
		if err != nil {
			return nil, err
		}
		return secret, nil
	}
	return nil, newError("", "", field.Required(field.NewPath("kind"), "form is required"))
}

// validateObject checks the fields shared by every form.
func validateObject(o *ObjectForm) (*Metadata, *Error) {
	if o.Kind == "" {
		return nil, newError("", o.Name(), field.Required(field.NewPath("kind"), "kind is required"))
	}
	if o.Metadata == nil {
		return nil, newError(o.Kind, "", field.Required(field.NewPath("metadata"), "metadata is required"))
	}
	if o.Metadata.Name == "" {
		return nil, newError(o.Kind, "", field.Required(field.NewPath("metadata", "name"), "name is required"))
	}
	return o.Metadata, nil
}

func unsupportedKind(o *ObjectForm) *Error {
	return newError(o.Kind, o.Name(), field.NotSupported(field.NewPath("kind"), o.Kind, transferKinds))
}

func transferWorkload(form *WorkloadForm, meta *Metadata, appName string) (runtime.Object, *Error) {
	wrap := func(ferr *field.Error) *Error { return newError(form.Kind, meta.Name, ferr) }

	switch form.Kind {
	case KindDeployment, KindStatefulSet, KindDaemonSet:
	default:
		return nil, unsupportedKind(&form.ObjectForm)
	}

	template, ferr := transferPodTemplate(&form.Spec.Template, meta.Name, field.NewPath("spec", "template"))
	if ferr != nil {
		return nil, wrap(ferr)
	}
	selector := form.Spec.Selector.DeepCopy()
	if selector.MatchLabels == nil {
		selector.MatchLabels = map[string]string{}
	}
	selector.MatchLabels[AppLabelKey] = meta.Name

	var replicas *int32
	if form.Spec.Replicas != nil {
		replicas = ptr.To(*form.Spec.Replicas)
	}
	objMeta := objectMeta(meta, appName)

	switch form.Kind {
	case KindStatefulSet:
		return &appsv1.StatefulSet{
			TypeMeta:   typeMeta(form.APIVersion, "apps/v1", KindStatefulSet),
			ObjectMeta: objMeta,
			Spec: appsv1.StatefulSetSpec{
				Replicas:    replicas,
				ServiceName: form.Spec.ServiceName,
				Selector:    selector,
				Template:    *template,
			},
		}, nil
	case KindDaemonSet:
		return &appsv1.DaemonSet{
			TypeMeta:   typeMeta(form.APIVersion, "apps/v1", KindDaemonSet),
			ObjectMeta: objMeta,
			Spec: appsv1.DaemonSetSpec{
				Selector: selector,
				Template: *template,
			},
		}, nil
	default:
		return &appsv1.Deployment{
			TypeMeta:   typeMeta(form.APIVersion, "apps/v1", KindDeployment),
			ObjectMeta: objMeta,
			Spec: appsv1.DeploymentSpec{
				Replicas: replicas,
				Selector: selector,
				Template: *template,
			},
		}, nil
	}
}

func transferPodTemplate(form *PodTemplateForm, name string, path *field.Path) (*corev1.PodTemplateSpec, *field.Error) {
	spec := &form.Spec
	specPath := path.Child("spec")
	if len(spec.Containers) == 0 {
		return nil, field.Required(specPath.Child("containers"), "at least one container is required")
	}

	labels := copyMap(form.Metadata.Labels)
	if labels == nil {
		labels = map[string]string{}
	}
	labels[AppLabelKey] = name

	pod := corev1.PodSpec{
		HostNetwork:        spec.HostNetwork,
		DNSPolicy:          spec.DNSPolicy,
		RestartPolicy:      spec.RestartPolicy,
		ServiceAccountName: spec.ServiceAccountName,
		SecurityContext:    spec.SecurityContext.DeepCopy(),
	}
	if pod.SecurityContext != nil && equality.Semantic.DeepEqual(pod.SecurityContext, &corev1.PodSecurityContext{}) {
		pod.SecurityContext = nil
	}
	for _, t := range spec.Tolerations {
		pod.Tolerations = append(pod.Tolerations, *t.DeepCopy())
	}
	pod.ImagePullSecrets = append(pod.ImagePullSecrets, spec.ImagePullSecrets...)

	var ferr *field.Error
	if pod.Containers, pod.InitContainers, ferr = transferContainers(spec.Containers, specPath.Child("containers")); ferr != nil {
		return nil, ferr
	}
	if len(pod.Containers) == 0 {
		return nil, field.Required(specPath.Child("containers"), "at least one non-init container is required")
	}
	if pod.Volumes, ferr = transferVolumes(spec.Volumes, specPath.Child("volumes")); ferr != nil {
		return nil, ferr
	}
	if pod.HostAliases, ferr = transferHostAliases(spec.HostAliases, specPath.Child("hostAliases")); ferr != nil {
		return nil, ferr
	}
	if pod.NodeSelector, ferr = transferNodeSelector(spec.NodeSelector, specPath.Child("nodeSelector")); ferr != nil {
		return nil, ferr
	}
	if pod.Affinity, ferr = transferAffinity(&spec.Affinity, specPath.Child("affinity")); ferr != nil {
		return nil, ferr
	}

	return &corev1.PodTemplateSpec{
		ObjectMeta: metav1.ObjectMeta{
			Labels:      labels,
			Annotations: copyMap(form.Metadata.Annotations),
		},
		Spec: pod,
	}, nil
}

func typeMeta(apiVersion, defaultVersion string, kind Kind) metav1.TypeMeta {
	if apiVersion == "" {
		apiVersion = defaultVersion
	}
	return metav1.TypeMeta{APIVersion: apiVersion, Kind: string(kind)}
}

func objectMeta(meta *Metadata, appName string) metav1.ObjectMeta {
	labels := copyMap(meta.Labels)
	if appName != "" {
		if labels == nil {
			labels = map[string]string{}
		}
		labels[AppLabelKey] = appName
	}
	return metav1.ObjectMeta{
		Name:        meta.Name,
		Namespace:   meta.Namespace,
		Labels:      labels,
		Annotations: copyMap(meta.Annotations),
	}
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
