// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/runtime/serializer"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/yaml"
)

var (
	scheme = runtime.NewScheme()
	codecs = serializer.NewCodecFactory(scheme)
)

func init() {
	utilruntime.Must(corev1.AddToScheme(scheme))
	utilruntime.Must(appsv1.AddToScheme(scheme))
	utilruntime.Must(batchv1.AddToScheme(scheme))
}

// DecodeManifest reads a single YAML or JSON manifest into its typed object.
func DecodeManifest(data []byte) (runtime.Object, error) {
	obj, _, err := codecs.UniversalDeserializer().Decode(data, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return obj, nil
}

// DecodeManifests reads every document of a multi-document manifest stream.
func DecodeManifests(data []byte) ([]runtime.Object, error) {
	docs, err := SplitDocuments(data)
	if err != nil {
		return nil, err
	}
	objs := make([]runtime.Object, 0, len(docs))
	for i, doc := range docs {
		obj, err := DecodeManifest(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// EncodeManifest writes obj as YAML with apiVersion and kind set. Status and
// empty creation timestamps are left out.
func EncodeManifest(obj runtime.Object) ([]byte, error) {
	gvk, err := ObjectKind(obj)
	if err != nil {
		return nil, err
	}
	obj = obj.DeepCopyObject()
	obj.GetObjectKind().SetGroupVersionKind(gvk)

	u, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert manifest: %w", err)
	}
	unstructured.RemoveNestedField(u, "status")
	unstructured.RemoveNestedField(u, "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(u, "spec", "template", "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(u, "spec", "jobTemplate", "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(u, "spec", "jobTemplate", "spec", "template", "metadata", "creationTimestamp")

	out, err := yaml.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return out, nil
}

// DecodeForm reads a single YAML or JSON form document. The concrete form
// type is chosen by its kind.
func DecodeForm(data []byte) (Form, error) {
	var head ObjectForm
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to decode form: %w", err)
	}

	var form Form
	switch head.Kind {
	case KindDeployment, KindStatefulSet, KindDaemonSet, KindJob, KindCronJob:
		form = &WorkloadForm{}
	case KindService:
		form = &ServiceForm{}
	case KindConfigMap:
		form = &ConfigMapForm{}
	case KindSecret:
		form = &SecretForm{}
	case "":
		return nil, errors.New("failed to decode form: kind is required")
	default:
		return nil, fmt.Errorf("failed to decode form: unsupported kind %q", head.Kind)
	}
	if err := yaml.Unmarshal(data, form); err != nil {
		return nil, fmt.Errorf("failed to decode %s form: %w", head.Kind, err)
	}
	return form, nil
}

// DecodeForms reads every document of a multi-document form stream.
func DecodeForms(data []byte) ([]Form, error) {
	docs, err := SplitDocuments(data)
	if err != nil {
		return nil, err
	}
	forms := make([]Form, 0, len(docs))
	for i, doc := range docs {
		form, err := DecodeForm(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// EncodeForm writes form as YAML.
func EncodeForm(form Form) ([]byte, error) {
	out, err := yaml.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal form: %w", err)
	}
	return out, nil
}

// SplitDocuments splits a YAML stream on document separators. Documents
// holding nothing but whitespace or comments are skipped. A JSON input is
// returned as a single document.
func SplitDocuments(data []byte) ([][]byte, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(data)))
	var docs [][]byte
	for {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
		j, err := yaml.YAMLToJSON(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse document %d: %w", len(docs), err)
		}
		if string(bytes.TrimSpace(j)) == "null" {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ObjectKind returns the group, version and kind of obj, preferring the type
// meta set on the object.
func ObjectKind(obj runtime.Object) (schema.GroupVersionKind, error) {
	if obj == nil {
		return schema.GroupVersionKind{}, errors.New("object is required")
	}
	if gvk := obj.GetObjectKind().GroupVersionKind(); !gvk.Empty() {
		return gvk, nil
	}
	gvks, _, err := scheme.ObjectKinds(obj)
	if err != nil {
		return schema.GroupVersionKind{}, fmt.Errorf("failed to determine kind: %w", err)
	}
	return gvks[0], nil
}
