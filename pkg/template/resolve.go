// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"reflect"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/utils/ptr"
)

var resolveKinds = []string{
	string(KindDeployment), string(KindStatefulSet), string(KindDaemonSet),
	string(KindJob), string(KindCronJob), string(KindConfigMap), string(KindSecret),
}

// Resolve builds the form of a Kubernetes manifest. The manifest is not
// modified and the returned form shares no memory with it.
//
// Services have no form representation and are reported as unsupported.
func Resolve(obj runtime.Object) (Form, error) {
	if isNil(obj) {
		return nil, newError("", "", field.Required(field.NewPath("kind"), "object is required"))
	}
	switch o := obj.(type) {
	case *appsv1.Deployment:
		return resolveWorkload(KindDeployment, o.APIVersion, &o.ObjectMeta, workloadSpec{
			replicas: o.Spec.Replicas,
			selector: o.Spec.Selector,
			template: &o.Spec.Template,
		})
	case *appsv1.StatefulSet:
		return resolveWorkload(KindStatefulSet, o.APIVersion, &o.ObjectMeta, workloadSpec{
			replicas:    o.Spec.Replicas,
			serviceName: o.Spec.ServiceName,
			selector:    o.Spec.Selector,
			template:    &o.Spec.Template,
		})
	case *appsv1.DaemonSet:
		return resolveWorkload(KindDaemonSet, o.APIVersion, &o.ObjectMeta, workloadSpec{
			selector: o.Spec.Selector,
			template: &o.Spec.Template,
		})
	case *batchv1.Job:
		return resolveWorkload(KindJob, o.APIVersion, &o.ObjectMeta, workloadSpec{
			selector: o.Spec.Selector,
			template: &o.Spec.Template,
		})
	case *batchv1.CronJob:
		return resolveWorkload(KindCronJob, o.APIVersion, &o.ObjectMeta, workloadSpec{
			selector: o.Spec.JobTemplate.Spec.Selector,
			template: &o.Spec.JobTemplate.Spec.Template,
		})
	case *corev1.ConfigMap:
		return resolveConfigMap(o), nil
	case *corev1.Secret:
		form, err := resolveSecret(o)
		if err != nil {
			return nil, err
		}
		return form, nil
	}
	return nil, unresolvable(obj)
}

func isNil(obj runtime.Object) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func unresolvable(obj runtime.Object) *Error {
	kind := obj.GetObjectKind().GroupVersionKind().Kind
	if kind == "" {
		if _, ok := obj.(*corev1.Service); ok {
			kind = string(KindService)
		}
	}
	var name string
	if accessor, err := meta.Accessor(obj); err == nil {
		name = accessor.GetName()
	}
	return newError(Kind(kind), name, field.NotSupported(field.NewPath("kind"), kind, resolveKinds))
}

type workloadSpec struct {
	replicas    *int32
	serviceName string
	selector    *metav1.LabelSelector
	template    *corev1.PodTemplateSpec
}

func defaultAPIVersion(kind Kind) string {
	switch kind {
	case KindDeployment, KindStatefulSet, KindDaemonSet:
		return "apps/v1"
	case KindJob, KindCronJob:
		return "batch/v1"
	default:
		return "v1"
	}
}

func resolveWorkload(kind Kind, apiVersion string, objMeta *metav1.ObjectMeta, spec workloadSpec) (Form, error) {
	form := &WorkloadForm{
		ObjectForm: resolveObject(kind, apiVersion, defaultAPIVersion(kind), objMeta),
		Spec: WorkloadSpec{
			ServiceName: spec.serviceName,
		},
	}
	if spec.replicas != nil {
		form.Spec.Replicas = ptr.To(*spec.replicas)
	}
	if spec.selector != nil {
		form.Spec.Selector = *spec.selector.DeepCopy()
	}

	podSpec, ferr := resolvePodSpec(&spec.template.Spec, field.NewPath("spec", "template", "spec"))
	if ferr != nil {
		return nil, newError(kind, objMeta.Name, ferr)
	}
	form.Spec.Template = PodTemplateForm{
		Metadata: PodMetadata{
			Labels:      nonNilMap(spec.template.Labels),
			Annotations: copyMap(spec.template.Annotations),
		},
		Spec: *podSpec,
	}
	return form, nil
}

func resolvePodSpec(pod *corev1.PodSpec, path *field.Path) (*PodSpecForm, *field.Error) {
	form := &PodSpecForm{
		NodeSelector:       toPairs(pod.NodeSelector),
		Tolerations:        []corev1.Toleration{},
		Affinity:           resolveAffinity(pod.Affinity),
		SecurityContext:    pod.SecurityContext.DeepCopy(),
		HostAliases:        resolveHostAliases(pod.HostAliases),
		HostNetwork:        pod.HostNetwork,
		DNSPolicy:          pod.DNSPolicy,
		RestartPolicy:      pod.RestartPolicy,
		ServiceAccountName: pod.ServiceAccountName,
		Containers:         []ContainerForm{},
	}
	if form.SecurityContext == nil {
		form.SecurityContext = &corev1.PodSecurityContext{}
	}
	for _, t := range pod.Tolerations {
		form.Tolerations = append(form.Tolerations, *t.DeepCopy())
	}
	form.ImagePullSecrets = append(form.ImagePullSecrets, pod.ImagePullSecrets...)

	for i := range pod.Containers {
		c, ferr := resolveContainer(&pod.Containers[i], false, path.Child("containers").Index(i))
		if ferr != nil {
			return nil, ferr
		}
		form.Containers = append(form.Containers, *c)
	}
	for i := range pod.InitContainers {
		c, ferr := resolveContainer(&pod.InitContainers[i], true, path.Child("initContainers").Index(i))
		if ferr != nil {
			return nil, ferr
		}
		form.Containers = append(form.Containers, *c)
	}

	var ferr *field.Error
	if form.Volumes, ferr = resolveVolumes(pod.Volumes, path.Child("volumes")); ferr != nil {
		return nil, ferr
	}
	return form, nil
}

func resolveObject(kind Kind, apiVersion, defaultVersion string, objMeta *metav1.ObjectMeta) ObjectForm {
	if apiVersion == "" {
		apiVersion = defaultVersion
	}
	return ObjectForm{
		Kind:       kind,
		APIVersion: apiVersion,
		Metadata: &Metadata{
			Name:        objMeta.Name,
			Namespace:   objMeta.Namespace,
			Labels:      nonNilMap(objMeta.Labels),
			Annotations: copyMap(objMeta.Annotations),
		},
	}
}

func nonNilMap(m map[string]string) map[string]string {
	if out := copyMap(m); out != nil {
		return out
	}
	return map[string]string{}
}
