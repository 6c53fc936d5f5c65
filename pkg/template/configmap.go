// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

func transferConfigMap(form *ConfigMapForm, meta *Metadata, appName string) (*corev1.ConfigMap, *Error) {
	cm := &corev1.ConfigMap{
		TypeMeta:   typeMeta(form.APIVersion, "v1", KindConfigMap),
		ObjectMeta: objectMeta(meta, appName),
		Data:       make(map[string]string, len(form.Data)),
	}
	path := field.NewPath("data")
	for i, kv := range form.Data {
		if kv.Key == "" {
			return nil, newError(KindConfigMap, meta.Name, field.Required(path.Index(i).Child("key"), "key is required"))
		}
		cm.Data[kv.Key] = kv.Value
	}
	return cm, nil
}

func resolveConfigMap(cm *corev1.ConfigMap) *ConfigMapForm {
	return &ConfigMapForm{
		ObjectForm: resolveObject(KindConfigMap, cm.APIVersion, "v1", &cm.ObjectMeta),
		Data:       toPairs(cm.Data),
	}
}
