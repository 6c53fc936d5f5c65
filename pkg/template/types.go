// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

const (
	// AppLabelKey labels every generated object with the application it belongs to.
	AppLabelKey = "kubespace.cn/app"
	// ReleaseNamespace is the namespace placeholder substituted by Helm when the
	// application chart is installed.
	ReleaseNamespace = "{{ .Release.Namespace }}"
)

// Kind is the resource kind of a form.
type Kind string

const (
	KindDeployment  Kind = "Deployment"
	KindStatefulSet Kind = "StatefulSet"
	KindDaemonSet   Kind = "DaemonSet"
	KindJob         Kind = "Job"
	KindCronJob     Kind = "CronJob"
	KindService     Kind = "Service"
	KindConfigMap   Kind = "ConfigMap"
	KindSecret      Kind = "Secret"
)

// ProbeType selects the handler of a health probe.
type ProbeType string

const (
	ProbeHTTP    ProbeType = "http"
	ProbeHTTPS   ProbeType = "https"
	ProbeTCP     ProbeType = "tcp"
	ProbeCommand ProbeType = "cmd"
)

// EnvType selects where the value of an environment variable comes from.
type EnvType string

const (
	EnvValue     EnvType = "value"
	EnvConfigMap EnvType = "configMap"
	EnvSecret    EnvType = "secret"
	EnvField     EnvType = "field"
	EnvResource  EnvType = "resource"
)

// VolumeType names the populated source of a VolumeForm.
type VolumeType string

const (
	VolumePersistentVolumeClaim VolumeType = "persistentVolumeClaim"
	VolumeGlusterfs             VolumeType = "glusterfs"
	VolumeNFS                   VolumeType = "nfs"
	VolumeSecret                VolumeType = "secret"
	VolumeConfigMap             VolumeType = "configMap"
	VolumeEmptyDir              VolumeType = "emptyDir"
	VolumeHostPath              VolumeType = "hostPath"
)

// Form is the flat, UI-editable representation of a single resource.
// It is implemented by *WorkloadForm, *ServiceForm, *ConfigMapForm and
// *SecretForm.
type Form interface {
	Object() *ObjectForm
}

// ObjectForm carries the fields every form shares.
type ObjectForm struct {
	Kind       Kind      `json:"kind"`
	APIVersion string    `json:"apiVersion"`
	Metadata   *Metadata `json:"metadata"`
}

// Object implements Form.
func (o *ObjectForm) Object() *ObjectForm {
	return o
}

// Name returns the resource name, or the empty string if metadata is missing.
func (o *ObjectForm) Name() string {
	if o.Metadata == nil {
		return ""
	}
	return o.Metadata.Name
}

type Metadata struct {
	Name        string            `json:"name"`
	Namespace   string            `json:"namespace,omitempty"`
	Labels      map[string]string `json:"labels"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// KeyValue is a single entry of a flattened map.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// WorkloadForm describes a Deployment or StatefulSet. Resolving a DaemonSet,
// Job or CronJob also yields a WorkloadForm.
type WorkloadForm struct {
	ObjectForm `json:",inline"`
	Spec       WorkloadSpec `json:"spec"`
}

type WorkloadSpec struct {
	Replicas *int32 `json:"replicas,omitempty"`
	// ServiceName is only used by StatefulSets.
	ServiceName string               `json:"serviceName,omitempty"`
	Selector    metav1.LabelSelector `json:"selector"`
	Template    PodTemplateForm      `json:"template"`
}

type PodTemplateForm struct {
	Metadata PodMetadata `json:"metadata"`
	Spec     PodSpecForm `json:"spec"`
}

type PodMetadata struct {
	Labels      map[string]string `json:"labels"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

type PodSpecForm struct {
	NodeSelector       []KeyValue                    `json:"nodeSelector"`
	Tolerations        []corev1.Toleration           `json:"tolerations"`
	Affinity           AffinityForm                  `json:"affinity"`
	SecurityContext    *corev1.PodSecurityContext    `json:"securityContext"`
	HostAliases        []HostAliasForm               `json:"hostAliases"`
	HostNetwork        bool                          `json:"hostNetwork,omitempty"`
	DNSPolicy          corev1.DNSPolicy              `json:"dnsPolicy,omitempty"`
	RestartPolicy      corev1.RestartPolicy          `json:"restartPolicy,omitempty"`
	ServiceAccountName string                        `json:"serviceAccountName,omitempty"`
	ImagePullSecrets   []corev1.LocalObjectReference `json:"imagePullSecrets,omitempty"`
	Containers         []ContainerForm               `json:"containers"`
	Volumes            []VolumeForm                  `json:"volumes"`
}

// ContainerForm is a container as edited in the UI. Command and Args are
// single strings holding either a JSON array or one raw argument.
type ContainerForm struct {
	Init            bool                        `json:"init"`
	Name            string                      `json:"name"`
	Image           string                      `json:"image"`
	Command         string                      `json:"command"`
	Args            string                      `json:"args"`
	WorkingDir      string                      `json:"workingDir"`
	Ports           []ContainerPortForm         `json:"ports"`
	Env             []EnvVarForm                `json:"env"`
	Resources       corev1.ResourceRequirements `json:"resources"`
	LivenessProbe   ProbeForm                   `json:"livenessProbe"`
	ReadinessProbe  ProbeForm                   `json:"readinessProbe"`
	ImagePullPolicy corev1.PullPolicy           `json:"imagePullPolicy"`
	VolumeMounts    []corev1.VolumeMount        `json:"volumeMounts"`
	Stdin           bool                        `json:"stdin"`
	TTY             bool                        `json:"tty"`
	SecurityContext SecurityContextForm         `json:"securityContext"`
}

type ContainerPortForm struct {
	Name          string             `json:"name,omitempty"`
	ContainerPort intstr.IntOrString `json:"containerPort"`
	Protocol      corev1.Protocol    `json:"protocol,omitempty"`
}

// SecurityContextForm mirrors corev1.SecurityContext with user and group ids
// typed into text inputs.
type SecurityContextForm struct {
	RunAsUser                *intstr.IntOrString    `json:"runAsUser,omitempty"`
	RunAsGroup               *intstr.IntOrString    `json:"runAsGroup,omitempty"`
	RunAsNonRoot             *bool                  `json:"runAsNonRoot,omitempty"`
	Privileged               *bool                  `json:"privileged,omitempty"`
	AllowPrivilegeEscalation *bool                  `json:"allowPrivilegeEscalation,omitempty"`
	ReadOnlyRootFilesystem   *bool                  `json:"readOnlyRootFilesystem,omitempty"`
	Capabilities             *corev1.Capabilities   `json:"capabilities,omitempty"`
	SELinuxOptions           *corev1.SELinuxOptions `json:"seLinuxOptions,omitempty"`
}

// ProbeForm is a health probe. A disabled probe (Probe == false) is omitted
// from the manifest.
type ProbeForm struct {
	Probe               bool               `json:"probe"`
	Type                ProbeType          `json:"type"`
	Handle              ProbeHandle        `json:"handle"`
	SuccessThreshold    intstr.IntOrString `json:"successThreshold"`
	FailureThreshold    intstr.IntOrString `json:"failureThreshold"`
	InitialDelaySeconds intstr.IntOrString `json:"initialDelaySeconds"`
	TimeoutSeconds      intstr.IntOrString `json:"timeoutSeconds"`
	PeriodSeconds       intstr.IntOrString `json:"periodSeconds"`
}

// ProbeHandle holds the handler arguments of every probe type: Path and Port
// for http(s), Port for tcp and Command for cmd.
type ProbeHandle struct {
	Path    string              `json:"path,omitempty"`
	Port    *intstr.IntOrString `json:"port,omitempty"`
	Command []string            `json:"command,omitempty"`
}

// EnvVarForm is a single environment variable. For the configMap and secret
// types Value holds the referenced object name and Key the entry in it; for
// field and resource it holds the field path or resource name.
type EnvVarForm struct {
	Name  string
	Type  EnvType
	Value string
	Key   string
}

// VolumeForm is a pod volume tagged by Type. Only the source named by Type is
// read when building the manifest.
type VolumeForm struct {
	Name                  string                                     `json:"name"`
	Type                  VolumeType                                 `json:"type"`
	PersistentVolumeClaim *corev1.PersistentVolumeClaimVolumeSource `json:"persistentVolumeClaim,omitempty"`
	Glusterfs             *corev1.GlusterfsVolumeSource              `json:"glusterfs,omitempty"`
	NFS                   *corev1.NFSVolumeSource                    `json:"nfs,omitempty"`
	Secret                *KeyedVolumeForm                           `json:"secret,omitempty"`
	ConfigMap             *KeyedVolumeForm                           `json:"configMap,omitempty"`
	EmptyDir              *corev1.EmptyDirVolumeSource               `json:"emptyDir,omitempty"`
	HostPath              *corev1.HostPathVolumeSource               `json:"hostPath,omitempty"`
}

// KeyedVolumeForm projects the keys of a ConfigMap or Secret into a volume.
// DefaultMode is an octal file mode such as "644".
type KeyedVolumeForm struct {
	Items       []corev1.KeyToPath `json:"items"`
	DefaultMode intstr.IntOrString `json:"defaultMode,omitempty"`
	Optional    *bool              `json:"optional,omitempty"`
	Object      ObjectRef          `json:"obj"`
}

// ObjectRef points at the ConfigMap or Secret backing a volume.
type ObjectRef struct {
	Metadata ObjectRefMeta `json:"metadata"`
	Keys     []string      `json:"keys"`
}

type ObjectRefMeta struct {
	Name string `json:"name"`
}

// HostAliasForm maps a single hostname to an IP.
type HostAliasForm struct {
	IP        string `json:"ip"`
	Hostnames string `json:"hostnames"`
}

// AffinityForm holds scheduling rules as flat lists. An empty list means no
// rule of that kind. Every rule becomes a required-during-scheduling match
// expression; pod rules additionally need a TopologyKey.
type AffinityForm struct {
	NodeAffinity    []AffinityRule `json:"nodeAffinity"`
	PodAffinity     []AffinityRule `json:"podAffinity"`
	PodAntiAffinity []AffinityRule `json:"podAntiAffinity"`
}

type AffinityRule struct {
	Key         string   `json:"key"`
	Operator    string   `json:"operator"`
	Values      []string `json:"values,omitempty"`
	TopologyKey string   `json:"topologyKey,omitempty"`
}

type ServiceForm struct {
	ObjectForm `json:",inline"`
	Spec       ServiceSpecForm `json:"spec"`
}

type ServiceSpecForm struct {
	Type      corev1.ServiceType `json:"type"`
	ClusterIP string             `json:"clusterIP,omitempty"`
	Selector  map[string]string  `json:"selector"`
	Ports     []ServicePortForm  `json:"ports"`
}

type ServicePortForm struct {
	Name       string             `json:"name,omitempty"`
	Protocol   corev1.Protocol    `json:"protocol,omitempty"`
	Port       intstr.IntOrString `json:"port"`
	TargetPort intstr.IntOrString `json:"targetPort"`
	NodePort   intstr.IntOrString `json:"nodePort,omitempty"`
}

type ConfigMapForm struct {
	ObjectForm `json:",inline"`
	Data       []KeyValue `json:"data"`
}

// SecretForm keeps the payload of every supported secret type in its own
// field; only the one matching Type is used.
type SecretForm struct {
	ObjectForm `json:",inline"`
	Type       corev1.SecretType `json:"type"`
	Data       []KeyValue        `json:"data"`
	TLS        TLSForm           `json:"tls"`
	UserPass   UserPassForm      `json:"userPass"`
	ImagePass  ImagePassForm     `json:"imagePass"`
}

type TLSForm struct {
	Crt string `json:"crt,omitempty"`
	Key string `json:"key,omitempty"`
}

type UserPassForm struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// ImagePassForm holds the credentials of a single image registry.
type ImagePassForm struct {
	URL      string `json:"url,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email,omitempty"`
}
