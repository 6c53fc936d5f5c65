// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

var volumeTypes = []string{
	string(VolumePersistentVolumeClaim), string(VolumeGlusterfs), string(VolumeNFS),
	string(VolumeSecret), string(VolumeConfigMap), string(VolumeEmptyDir), string(VolumeHostPath),
}

func transferVolumes(forms []VolumeForm, path *field.Path) ([]corev1.Volume, *field.Error) {
	var volumes []corev1.Volume
	for i := range forms {
		v, ferr := transferVolume(&forms[i], path.Index(i))
		if ferr != nil {
			return nil, ferr
		}
		volumes = append(volumes, *v)
	}
	return volumes, nil
}

func transferVolume(form *VolumeForm, path *field.Path) (*corev1.Volume, *field.Error) {
	if form.Name == "" {
		return nil, field.Required(path.Child("name"), "volume name is required")
	}
	v := &corev1.Volume{Name: form.Name}
	src := path.Child(string(form.Type))

	switch form.Type {
	case VolumePersistentVolumeClaim:
		if form.PersistentVolumeClaim == nil {
			return nil, field.Required(src, "persistent volume claim source is required")
		}
		v.PersistentVolumeClaim = form.PersistentVolumeClaim.DeepCopy()
	case VolumeGlusterfs:
		if form.Glusterfs == nil {
			return nil, field.Required(src, "glusterfs source is required")
		}
		v.Glusterfs = form.Glusterfs.DeepCopy()
	case VolumeNFS:
		if form.NFS == nil {
			return nil, field.Required(src, "nfs source is required")
		}
		v.NFS = form.NFS.DeepCopy()
	case VolumeEmptyDir:
		if form.EmptyDir == nil {
			v.EmptyDir = &corev1.EmptyDirVolumeSource{}
		} else {
			v.EmptyDir = form.EmptyDir.DeepCopy()
		}
	case VolumeHostPath:
		if form.HostPath == nil {
			return nil, field.Required(src, "host path source is required")
		}
		v.HostPath = form.HostPath.DeepCopy()
	case VolumeConfigMap:
		if form.ConfigMap == nil {
			return nil, field.Required(src, "config map source is required")
		}
		name, items, mode, ferr := transferKeyed(form.ConfigMap, src)
		if ferr != nil {
			return nil, ferr
		}
		v.ConfigMap = &corev1.ConfigMapVolumeSource{
			LocalObjectReference: corev1.LocalObjectReference{Name: name},
			Items:                items,
			DefaultMode:          mode,
			Optional:             copyBool(form.ConfigMap.Optional),
		}
	case VolumeSecret:
		if form.Secret == nil {
			return nil, field.Required(src, "secret source is required")
		}
		name, items, mode, ferr := transferKeyed(form.Secret, src)
		if ferr != nil {
			return nil, ferr
		}
		v.Secret = &corev1.SecretVolumeSource{
			SecretName:  name,
			Items:       items,
			DefaultMode: mode,
			Optional:    copyBool(form.Secret.Optional),
		}
	default:
		return nil, field.NotSupported(path.Child("type"), form.Type, volumeTypes)
	}
	return v, nil
}

func transferKeyed(form *KeyedVolumeForm, path *field.Path) (string, []corev1.KeyToPath, *int32, *field.Error) {
	name := form.Object.Metadata.Name
	if name == "" {
		return "", nil, nil, field.Required(path.Child("obj", "metadata", "name"), "backing object name is required")
	}
	mode, ferr := fileMode(form.DefaultMode, path.Child("defaultMode"))
	if ferr != nil {
		return "", nil, nil, ferr
	}
	var items []corev1.KeyToPath
	for _, item := range form.Items {
		items = append(items, *item.DeepCopy())
	}
	return name, items, mode, nil
}

func resolveVolumes(volumes []corev1.Volume, path *field.Path) ([]VolumeForm, *field.Error) {
	forms := make([]VolumeForm, 0, len(volumes))
	for i := range volumes {
		form, ferr := resolveVolume(&volumes[i], path.Index(i))
		if ferr != nil {
			return nil, ferr
		}
		forms = append(forms, *form)
	}
	return forms, nil
}

func resolveVolume(v *corev1.Volume, path *field.Path) (*VolumeForm, *field.Error) {
	form := &VolumeForm{Name: v.Name}
	switch {
	case v.PersistentVolumeClaim != nil:
		form.Type = VolumePersistentVolumeClaim
		form.PersistentVolumeClaim = v.PersistentVolumeClaim.DeepCopy()
	case v.Glusterfs != nil:
		form.Type = VolumeGlusterfs
		form.Glusterfs = v.Glusterfs.DeepCopy()
	case v.NFS != nil:
		form.Type = VolumeNFS
		form.NFS = v.NFS.DeepCopy()
	case v.EmptyDir != nil:
		form.Type = VolumeEmptyDir
		form.EmptyDir = v.EmptyDir.DeepCopy()
	case v.HostPath != nil:
		form.Type = VolumeHostPath
		form.HostPath = v.HostPath.DeepCopy()
	case v.ConfigMap != nil:
		form.Type = VolumeConfigMap
		form.ConfigMap = resolveKeyed(v.ConfigMap.Name, v.ConfigMap.Items, v.ConfigMap.DefaultMode, v.ConfigMap.Optional)
	case v.Secret != nil:
		form.Type = VolumeSecret
		form.Secret = resolveKeyed(v.Secret.SecretName, v.Secret.Items, v.Secret.DefaultMode, v.Secret.Optional)
	default:
		return nil, field.Invalid(path.Child("name"), v.Name, "unsupported volume source")
	}
	return form, nil
}

func resolveKeyed(name string, items []corev1.KeyToPath, mode *int32, optional *bool) *KeyedVolumeForm {
	form := &KeyedVolumeForm{
		Items:       []corev1.KeyToPath{},
		DefaultMode: formatFileMode(mode),
		Optional:    copyBool(optional),
		Object:      ObjectRef{Metadata: ObjectRefMeta{Name: name}, Keys: []string{}},
	}
	for _, item := range items {
		form.Items = append(form.Items, *item.DeepCopy())
		form.Object.Keys = append(form.Object.Keys, item.Key)
	}
	return form
}
