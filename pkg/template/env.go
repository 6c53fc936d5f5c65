// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"bytes"
	"encoding/json"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

var envTypes = []string{
	string(EnvValue), string(EnvConfigMap), string(EnvSecret), string(EnvField), string(EnvResource),
}

// envVarJSON is the wire shape of EnvVarForm. The UI sends the value of
// configMap and secret entries as {"name": <object>}.
type envVarJSON struct {
	Name  string          `json:"name"`
	Type  EnvType         `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
	Key   string          `json:"key,omitempty"`
}

type objectName struct {
	Name string `json:"name"`
}

func (e EnvVarForm) MarshalJSON() ([]byte, error) {
	var value any = e.Value
	if e.Type == EnvConfigMap || e.Type == EnvSecret {
		value = objectName{Name: e.Value}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envVarJSON{Name: e.Name, Type: e.Type, Value: raw, Key: e.Key})
}

func (e *EnvVarForm) UnmarshalJSON(data []byte) error {
	var in envVarJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = EnvVarForm{Name: in.Name, Type: in.Type, Key: in.Key}

	value := bytes.TrimSpace(in.Value)
	switch {
	case len(value) == 0 || bytes.Equal(value, []byte("null")):
		return nil
	case value[0] == '{':
		var ref objectName
		if err := json.Unmarshal(value, &ref); err != nil {
			return err
		}
		e.Value = ref.Name
	case value[0] == '"':
		return json.Unmarshal(value, &e.Value)
	default:
		// numbers and booleans typed into a value field
		e.Value = string(value)
	}
	return nil
}

func transferEnv(forms []EnvVarForm, path *field.Path) ([]corev1.EnvVar, *field.Error) {
	if len(forms) == 0 {
		return nil, nil
	}
	envs := make([]corev1.EnvVar, 0, len(forms))
	for i, e := range forms {
		p := path.Index(i)
		if e.Name == "" {
			return nil, field.Required(p.Child("name"), "environment variable name is required")
		}
		env := corev1.EnvVar{Name: e.Name}
		switch e.Type {
		case EnvValue, "":
			env.Value = e.Value
		case EnvConfigMap:
			env.ValueFrom = &corev1.EnvVarSource{
				ConfigMapKeyRef: &corev1.ConfigMapKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: e.Value},
					Key:                  e.Key,
				},
			}
		case EnvSecret:
			env.ValueFrom = &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: e.Value},
					Key:                  e.Key,
				},
			}
		case EnvField:
			env.ValueFrom = &corev1.EnvVarSource{
				FieldRef: &corev1.ObjectFieldSelector{FieldPath: e.Value},
			}
		case EnvResource:
			env.ValueFrom = &corev1.EnvVarSource{
				ResourceFieldRef: &corev1.ResourceFieldSelector{Resource: e.Value},
			}
		default:
			return nil, field.NotSupported(p.Child("type"), e.Type, envTypes)
		}
		envs = append(envs, env)
	}
	return envs, nil
}

func resolveEnv(envs []corev1.EnvVar, path *field.Path) ([]EnvVarForm, *field.Error) {
	forms := make([]EnvVarForm, 0, len(envs))
	for i, env := range envs {
		form := EnvVarForm{Name: env.Name, Type: EnvValue, Value: env.Value}
		if src := env.ValueFrom; src != nil {
			switch {
			case src.ConfigMapKeyRef != nil:
				form = EnvVarForm{Name: env.Name, Type: EnvConfigMap, Value: src.ConfigMapKeyRef.Name, Key: src.ConfigMapKeyRef.Key}
			case src.SecretKeyRef != nil:
				form = EnvVarForm{Name: env.Name, Type: EnvSecret, Value: src.SecretKeyRef.Name, Key: src.SecretKeyRef.Key}
			case src.FieldRef != nil:
				form = EnvVarForm{Name: env.Name, Type: EnvField, Value: src.FieldRef.FieldPath}
			case src.ResourceFieldRef != nil:
				form = EnvVarForm{Name: env.Name, Type: EnvResource, Value: src.ResourceFieldRef.Resource}
			default:
				return nil, field.Invalid(path.Index(i).Child("valueFrom"), env.Name, "unsupported environment variable source")
			}
		}
		forms = append(forms, form)
	}
	return forms, nil
}
