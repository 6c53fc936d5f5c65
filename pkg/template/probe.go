// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

var probeTypes = []string{string(ProbeHTTP), string(ProbeHTTPS), string(ProbeTCP), string(ProbeCommand)}

// DefaultProbe returns the disabled probe envelope used for new containers and
// for containers without a probe.
func DefaultProbe() ProbeForm {
	return ProbeForm{
		Probe:               false,
		Type:                ProbeHTTP,
		Handle:              ProbeHandle{},
		SuccessThreshold:    intstr.FromInt32(1),
		FailureThreshold:    intstr.FromInt32(3),
		InitialDelaySeconds: intstr.FromInt32(0),
		TimeoutSeconds:      intstr.FromInt32(1),
		PeriodSeconds:       intstr.FromInt32(10),
	}
}

// transferProbe returns nil for a disabled probe.
func transferProbe(form *ProbeForm, path *field.Path) (*corev1.Probe, *field.Error) {
	if !form.Probe {
		return nil, nil
	}

	probe := &corev1.Probe{}
	thresholds := []struct {
		name  string
		value intstr.IntOrString
		into  *int32
	}{
		{"successThreshold", form.SuccessThreshold, &probe.SuccessThreshold},
		{"failureThreshold", form.FailureThreshold, &probe.FailureThreshold},
		{"initialDelaySeconds", form.InitialDelaySeconds, &probe.InitialDelaySeconds},
		{"timeoutSeconds", form.TimeoutSeconds, &probe.TimeoutSeconds},
		{"periodSeconds", form.PeriodSeconds, &probe.PeriodSeconds},
	}
	for _, t := range thresholds {
		if isUnset(t.value) {
			continue
		}
		n, ferr := toInt32(t.value, path.Child(t.name))
		if ferr != nil {
			return nil, ferr
		}
		*t.into = n
	}

	handle := path.Child("handle")
	switch form.Type {
	case ProbeHTTP, ProbeHTTPS:
		scheme := corev1.URISchemeHTTP
		if form.Type == ProbeHTTPS {
			scheme = corev1.URISchemeHTTPS
		}
		port, ferr := probePort(form.Handle.Port, handle.Child("port"))
		if ferr != nil {
			return nil, ferr
		}
		probe.HTTPGet = &corev1.HTTPGetAction{Path: form.Handle.Path, Port: port, Scheme: scheme}
	case ProbeTCP:
		port, ferr := probePort(form.Handle.Port, handle.Child("port"))
		if ferr != nil {
			return nil, ferr
		}
		probe.TCPSocket = &corev1.TCPSocketAction{Port: port}
	case ProbeCommand:
		if len(form.Handle.Command) == 0 {
			return nil, field.Required(handle.Child("command"), "probe command is required")
		}
		probe.Exec = &corev1.ExecAction{Command: append([]string(nil), form.Handle.Command...)}
	default:
		return nil, field.NotSupported(path.Child("type"), form.Type, probeTypes)
	}
	return probe, nil
}

// probePort keeps named ports and turns numeric strings into numbers.
func probePort(port *intstr.IntOrString, path *field.Path) (intstr.IntOrString, *field.Error) {
	if port == nil || isUnset(*port) {
		return intstr.IntOrString{}, field.Required(path, "probe port is required")
	}
	if port.Type == intstr.String {
		if n, err := strconv.ParseInt(strings.TrimSpace(port.StrVal), 10, 32); err == nil {
			return intstr.FromInt32(int32(n)), nil
		}
	}
	return *port, nil
}

func resolveProbe(probe *corev1.Probe) ProbeForm {
	if probe == nil {
		return DefaultProbe()
	}

	form := ProbeForm{
		Probe:               true,
		Type:                ProbeHTTP,
		SuccessThreshold:    intstr.FromInt32(probe.SuccessThreshold),
		FailureThreshold:    intstr.FromInt32(probe.FailureThreshold),
		InitialDelaySeconds: intstr.FromInt32(probe.InitialDelaySeconds),
		TimeoutSeconds:      intstr.FromInt32(probe.TimeoutSeconds),
		PeriodSeconds:       intstr.FromInt32(probe.PeriodSeconds),
	}
	switch {
	case probe.HTTPGet != nil:
		if probe.HTTPGet.Scheme == corev1.URISchemeHTTPS {
			form.Type = ProbeHTTPS
		}
		port := probe.HTTPGet.Port
		form.Handle = ProbeHandle{Path: probe.HTTPGet.Path, Port: &port}
	case probe.TCPSocket != nil:
		port := probe.TCPSocket.Port
		form.Type = ProbeTCP
		form.Handle = ProbeHandle{Port: &port}
	case probe.Exec != nil:
		form.Type = ProbeCommand
		form.Handle = ProbeHandle{Command: append([]string(nil), probe.Exec.Command...)}
	}
	return form
}
