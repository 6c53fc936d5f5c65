// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"encoding/base64"
	"encoding/json"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

var secretTypes = []string{
	string(corev1.SecretTypeOpaque), string(corev1.SecretTypeTLS),
	string(corev1.SecretTypeBasicAuth), string(corev1.SecretTypeDockerConfigJson),
}

// dockerConfig is the payload of a kubernetes.io/dockerconfigjson secret.
type dockerConfig struct {
	Auths map[string]dockerAuth `json:"auths"`
}

type dockerAuth struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email,omitempty"`
	Auth     string `json:"auth,omitempty"`
}

// transferSecret builds the secret payload for the selected type. Values are
// stored as raw bytes; base64 is applied when the manifest is serialized.
func transferSecret(form *SecretForm, meta *Metadata, appName string) (*corev1.Secret, *Error) {
	secret := &corev1.Secret{
		TypeMeta:   typeMeta(form.APIVersion, "v1", KindSecret),
		ObjectMeta: objectMeta(meta, appName),
		Type:       form.Type,
		Data:       map[string][]byte{},
	}

	switch form.Type {
	case corev1.SecretTypeOpaque, "":
		secret.Type = corev1.SecretTypeOpaque
		path := field.NewPath("data")
		for i, kv := range form.Data {
			if kv.Key == "" {
				return nil, newError(KindSecret, meta.Name, field.Required(path.Index(i).Child("key"), "key is required"))
			}
			secret.Data[kv.Key] = []byte(kv.Value)
		}
	case corev1.SecretTypeTLS:
		secret.Data[corev1.TLSCertKey] = []byte(form.TLS.Crt)
		secret.Data[corev1.TLSPrivateKeyKey] = []byte(form.TLS.Key)
	case corev1.SecretTypeBasicAuth:
		secret.Data[corev1.BasicAuthUsernameKey] = []byte(form.UserPass.Username)
		secret.Data[corev1.BasicAuthPasswordKey] = []byte(form.UserPass.Password)
	case corev1.SecretTypeDockerConfigJson:
		ip := form.ImagePass
		if ip.URL == "" {
			return nil, newError(KindSecret, meta.Name, field.Required(field.NewPath("imagePass", "url"), "registry url is required"))
		}
		cfg := dockerConfig{Auths: map[string]dockerAuth{
			ip.URL: {
				Username: ip.Username,
				Password: ip.Password,
				Email:    ip.Email,
				Auth:     base64.StdEncoding.EncodeToString([]byte(ip.Username + ":" + ip.Password)),
			},
		}}
		raw, err := json.Marshal(cfg)
		if err != nil {
			return nil, newError(KindSecret, meta.Name, field.InternalError(field.NewPath("imagePass"), err))
		}
		secret.Data[corev1.DockerConfigJsonKey] = raw
	default:
		return nil, newError(KindSecret, meta.Name, field.NotSupported(field.NewPath("type"), form.Type, secretTypes))
	}
	return secret, nil
}

func resolveSecret(secret *corev1.Secret) (*SecretForm, *Error) {
	form := &SecretForm{
		ObjectForm: resolveObject(KindSecret, secret.APIVersion, "v1", &secret.ObjectMeta),
		Type:       secret.Type,
		Data:       []KeyValue{},
	}
	data := make(map[string]string, len(secret.Data)+len(secret.StringData))
	for k, v := range secret.Data {
		data[k] = string(v)
	}
	for k, v := range secret.StringData {
		data[k] = v
	}

	switch secret.Type {
	case corev1.SecretTypeOpaque, "":
		form.Type = corev1.SecretTypeOpaque
		form.Data = toPairs(data)
	case corev1.SecretTypeTLS:
		form.TLS = TLSForm{Crt: data[corev1.TLSCertKey], Key: data[corev1.TLSPrivateKeyKey]}
	case corev1.SecretTypeBasicAuth:
		form.UserPass = UserPassForm{Username: data[corev1.BasicAuthUsernameKey], Password: data[corev1.BasicAuthPasswordKey]}
	case corev1.SecretTypeDockerConfigJson:
		path := field.NewPath("data").Key(corev1.DockerConfigJsonKey)
		var cfg dockerConfig
		if err := json.Unmarshal([]byte(data[corev1.DockerConfigJsonKey]), &cfg); err != nil {
			return nil, newError(KindSecret, secret.Name, field.Invalid(path, data[corev1.DockerConfigJsonKey], "must be a docker config json document"))
		}
		urls := make([]string, 0, len(cfg.Auths))
		for url := range cfg.Auths {
			urls = append(urls, url)
		}
		sort.Strings(urls)
		if len(urls) > 0 {
			auth := cfg.Auths[urls[0]]
			form.ImagePass = ImagePassForm{URL: urls[0], Username: auth.Username, Password: auth.Password, Email: auth.Email}
			if auth.Username == "" && auth.Auth != "" {
				form.ImagePass.Username, form.ImagePass.Password = decodeAuth(auth.Auth)
			}
		}
	default:
		return nil, newError(KindSecret, secret.Name, field.NotSupported(field.NewPath("type"), secret.Type, secretTypes))
	}
	return form, nil
}

// decodeAuth splits a base64 "user:password" registry auth string.
func decodeAuth(auth string) (string, string) {
	raw, err := base64.StdEncoding.DecodeString(auth)
	if err != nil {
		return "", ""
	}
	user, pass, _ := strings.Cut(string(raw), ":")
	return user, pass
}
