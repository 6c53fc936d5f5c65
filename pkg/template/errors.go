// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Error reports the first invalid field found while transforming a resource.
type Error struct {
	Kind Kind
	Name string
	Err  *field.Error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s/%s: %s", e.Kind, e.Name, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, name string, err *field.Error) *Error {
	return &Error{Kind: kind, Name: name, Err: err}
}
