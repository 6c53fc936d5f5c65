// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

func transferService(form *ServiceForm, meta *Metadata, appName string) (*corev1.Service, *Error) {
	svc := &corev1.Service{
		TypeMeta:   typeMeta(form.APIVersion, "v1", KindService),
		ObjectMeta: objectMeta(meta, appName),
		Spec: corev1.ServiceSpec{
			Type:      form.Spec.Type,
			ClusterIP: form.Spec.ClusterIP,
			Selector:  copyMap(form.Spec.Selector),
		},
	}

	path := field.NewPath("spec", "ports")
	for i, p := range form.Spec.Ports {
		port, ferr := transferServicePort(&p, form.Spec.Type, path.Index(i))
		if ferr != nil {
			return nil, newError(KindService, meta.Name, ferr)
		}
		svc.Spec.Ports = append(svc.Spec.Ports, *port)
	}
	return svc, nil
}

func transferServicePort(form *ServicePortForm, svcType corev1.ServiceType, path *field.Path) (*corev1.ServicePort, *field.Error) {
	if isUnset(form.Port) {
		return nil, field.Required(path.Child("port"), "service port is required")
	}
	if isUnset(form.TargetPort) {
		return nil, field.Required(path.Child("targetPort"), "target port is required")
	}
	port, ferr := toInt32(form.Port, path.Child("port"))
	if ferr != nil {
		return nil, ferr
	}
	target, ferr := toInt32(form.TargetPort, path.Child("targetPort"))
	if ferr != nil {
		return nil, ferr
	}

	sp := &corev1.ServicePort{
		Name:       form.Name,
		Protocol:   form.Protocol,
		Port:       port,
		TargetPort: intstr.FromInt32(target),
	}
	if svcType == corev1.ServiceTypeNodePort && !isUnset(form.NodePort) {
		if sp.NodePort, ferr = toInt32(form.NodePort, path.Child("nodePort")); ferr != nil {
			return nil, ferr
		}
	}
	return sp, nil
}
