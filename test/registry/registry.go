// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

// Package registry provides an in-memory OCI registry for chart push tests.
package registry

import (
	"encoding/base64"
	"net/http"
	"strings"
	"sync"

	"github.com/google/go-containerregistry/pkg/registry"
)

// Registry is an in-memory OCI registry with optional basic auth. It records
// every manifest pushed to it.
type Registry struct {
	wantedAuthHeader string
	handler          http.Handler

	mu        sync.Mutex
	manifests []string
}

// New returns a new Registry.
func New(opts ...registry.Option) *Registry {
	return &Registry{handler: registry.New(opts...)}
}

// HandleFunc returns the http.Handler serving the registry API.
func (r *Registry) HandleFunc() http.Handler {
	return http.HandlerFunc(r.handle)
}

func (r *Registry) handle(w http.ResponseWriter, req *http.Request) {
	if r.wantedAuthHeader != "" && req.Header.Get("Authorization") != r.wantedAuthHeader {
		w.Header().Set("Www-Authenticate", `Basic realm="Test Server"`)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if req.Method == http.MethodPut {
		if repo, ref, ok := manifestPath(req.URL.Path); ok {
			r.mu.Lock()
			r.manifests = append(r.manifests, repo+":"+ref)
			r.mu.Unlock()
		}
	}
	r.handler.ServeHTTP(w, req)
}

// WithAuth requires basic auth with the given credentials on every request.
func (r *Registry) WithAuth(username string, password string) *Registry {
	r.wantedAuthHeader = "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
	return r
}

// Manifests returns the <repository>:<reference> of every manifest pushed so far.
func (r *Registry) Manifests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.manifests...)
}

// manifestPath splits /v2/<repository>/manifests/<reference>.
func manifestPath(path string) (string, string, bool) {
	rest, ok := strings.CutPrefix(path, "/v2/")
	if !ok {
		return "", "", false
	}
	i := strings.LastIndex(rest, "/manifests/")
	if i < 0 {
		return "", "", false
	}
	return rest[:i], rest[i+len("/manifests/"):], true
}
