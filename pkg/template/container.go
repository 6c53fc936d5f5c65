// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"bytes"
	"encoding/json"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// transferContainers splits the form containers into regular and init containers.
func transferContainers(forms []ContainerForm, path *field.Path) (containers, initContainers []corev1.Container, ferr *field.Error) {
	for i := range forms {
		c, ferr := transferContainer(&forms[i], path.Index(i))
		if ferr != nil {
			return nil, nil, ferr
		}
		if forms[i].Init {
			initContainers = append(initContainers, *c)
		} else {
			containers = append(containers, *c)
		}
	}
	return containers, initContainers, nil
}

func transferContainer(form *ContainerForm, path *field.Path) (*corev1.Container, *field.Error) {
	if form.Name == "" {
		return nil, field.Required(path.Child("name"), "container name is required")
	}
	if form.Image == "" {
		return nil, field.Required(path.Child("image"), "container image is required")
	}

	c := &corev1.Container{
		Name:            form.Name,
		Image:           form.Image,
		Command:         splitCommand(form.Command),
		Args:            splitCommand(form.Args),
		WorkingDir:      form.WorkingDir,
		Resources:       *form.Resources.DeepCopy(),
		ImagePullPolicy: form.ImagePullPolicy,
		Stdin:           form.Stdin,
		TTY:             form.TTY,
	}
	for _, m := range form.VolumeMounts {
		c.VolumeMounts = append(c.VolumeMounts, *m.DeepCopy())
	}

	var ferr *field.Error
	if c.LivenessProbe, ferr = transferProbe(&form.LivenessProbe, path.Child("livenessProbe")); ferr != nil {
		return nil, ferr
	}
	if c.ReadinessProbe, ferr = transferProbe(&form.ReadinessProbe, path.Child("readinessProbe")); ferr != nil {
		return nil, ferr
	}
	if c.SecurityContext, ferr = transferSecurityContext(&form.SecurityContext, path.Child("securityContext")); ferr != nil {
		return nil, ferr
	}

	for j, p := range form.Ports {
		pp := path.Child("ports").Index(j).Child("containerPort")
		if isUnset(p.ContainerPort) {
			return nil, field.Required(pp, "container port is required")
		}
		port, ferr := toInt32(p.ContainerPort, pp)
		if ferr != nil {
			return nil, ferr
		}
		c.Ports = append(c.Ports, corev1.ContainerPort{Name: p.Name, ContainerPort: port, Protocol: p.Protocol})
	}

	if c.Env, ferr = transferEnv(form.Env, path.Child("env")); ferr != nil {
		return nil, ferr
	}
	return c, nil
}

func transferSecurityContext(form *SecurityContextForm, path *field.Path) (*corev1.SecurityContext, *field.Error) {
	sc := &corev1.SecurityContext{
		RunAsNonRoot:             copyBool(form.RunAsNonRoot),
		Privileged:               copyBool(form.Privileged),
		AllowPrivilegeEscalation: copyBool(form.AllowPrivilegeEscalation),
		ReadOnlyRootFilesystem:   copyBool(form.ReadOnlyRootFilesystem),
		Capabilities:             form.Capabilities.DeepCopy(),
		SELinuxOptions:           form.SELinuxOptions.DeepCopy(),
	}
	if c := sc.Capabilities; c != nil && len(c.Add) == 0 && len(c.Drop) == 0 {
		sc.Capabilities = nil
	}
	if o := sc.SELinuxOptions; o != nil && *o == (corev1.SELinuxOptions{}) {
		sc.SELinuxOptions = nil
	}
	var ferr *field.Error
	if sc.RunAsUser, ferr = optionalInt64(form.RunAsUser, path.Child("runAsUser")); ferr != nil {
		return nil, ferr
	}
	if sc.RunAsGroup, ferr = optionalInt64(form.RunAsGroup, path.Child("runAsGroup")); ferr != nil {
		return nil, ferr
	}
	if equality.Semantic.DeepEqual(sc, &corev1.SecurityContext{}) {
		return nil, nil
	}
	return sc, nil
}

func resolveContainer(c *corev1.Container, init bool, path *field.Path) (*ContainerForm, *field.Error) {
	form := &ContainerForm{
		Init:            init,
		Name:            c.Name,
		Image:           c.Image,
		Command:         joinCommand(c.Command),
		Args:            joinCommand(c.Args),
		WorkingDir:      c.WorkingDir,
		Ports:           []ContainerPortForm{},
		Resources:       *c.Resources.DeepCopy(),
		LivenessProbe:   resolveProbe(c.LivenessProbe),
		ReadinessProbe:  resolveProbe(c.ReadinessProbe),
		ImagePullPolicy: c.ImagePullPolicy,
		VolumeMounts:    []corev1.VolumeMount{},
		Stdin:           c.Stdin,
		TTY:             c.TTY,
		SecurityContext: resolveSecurityContext(c.SecurityContext),
	}
	for _, p := range c.Ports {
		form.Ports = append(form.Ports, ContainerPortForm{Name: p.Name, ContainerPort: intstr.FromInt32(p.ContainerPort), Protocol: p.Protocol})
	}
	for _, m := range c.VolumeMounts {
		form.VolumeMounts = append(form.VolumeMounts, *m.DeepCopy())
	}
	var ferr *field.Error
	if form.Env, ferr = resolveEnv(c.Env, path.Child("env")); ferr != nil {
		return nil, ferr
	}
	return form, nil
}

func resolveSecurityContext(sc *corev1.SecurityContext) SecurityContextForm {
	if sc == nil {
		return SecurityContextForm{}
	}
	return SecurityContextForm{
		RunAsUser:                formatInt64(sc.RunAsUser),
		RunAsGroup:               formatInt64(sc.RunAsGroup),
		RunAsNonRoot:             copyBool(sc.RunAsNonRoot),
		Privileged:               copyBool(sc.Privileged),
		AllowPrivilegeEscalation: copyBool(sc.AllowPrivilegeEscalation),
		ReadOnlyRootFilesystem:   copyBool(sc.ReadOnlyRootFilesystem),
		Capabilities:             sc.Capabilities.DeepCopy(),
		SELinuxOptions:           sc.SELinuxOptions.DeepCopy(),
	}
}

// splitCommand reads a command line typed into the form. A JSON array is
// used as is, anything else becomes a single argument.
func splitCommand(s string) []string {
	if s == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err == nil && list != nil {
		return list
	}
	return []string{s}
}

// joinCommand is the inverse of splitCommand.
func joinCommand(list []string) string {
	if len(list) == 0 {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return ""
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

func formatInt64(v *int64) *intstr.IntOrString {
	if v == nil {
		return nil
	}
	s := intstr.FromString(strconv.FormatInt(*v, 10))
	return &s
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
