// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// isUnset reports whether an int-or-string form value was left empty.
func isUnset(v intstr.IntOrString) bool {
	if v.Type == intstr.String {
		return strings.TrimSpace(v.StrVal) == ""
	}
	return v.IntVal == 0
}

// toInt32 coerces a form value into an int32, reporting the literal value on failure.
func toInt32(v intstr.IntOrString, path *field.Path) (int32, *field.Error) {
	if v.Type == intstr.Int {
		return v.IntVal, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v.StrVal), 10, 32)
	if err != nil {
		return 0, field.Invalid(path, v.StrVal, "must be an integer")
	}
	return int32(n), nil
}

// optionalInt64 coerces an optional form value; nil and blank values yield nil.
func optionalInt64(v *intstr.IntOrString, path *field.Path) (*int64, *field.Error) {
	if v == nil {
		return nil, nil
	}
	if v.Type == intstr.Int {
		n := int64(v.IntVal)
		return &n, nil
	}
	s := strings.TrimSpace(v.StrVal)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, field.Invalid(path, v.StrVal, "must be an integer")
	}
	return &n, nil
}

// fileMode parses an octal file mode such as "644"; unset values yield nil.
func fileMode(v intstr.IntOrString, path *field.Path) (*int32, *field.Error) {
	if isUnset(v) {
		return nil, nil
	}
	s := strings.TrimSpace(v.String())
	n, err := strconv.ParseInt(s, 8, 32)
	if err != nil || n < 0 || n > 0o777 {
		return nil, field.Invalid(path, s, "must be an octal file mode between 0 and 777")
	}
	mode := int32(n)
	return &mode, nil
}

func formatFileMode(mode *int32) intstr.IntOrString {
	if mode == nil {
		return intstr.IntOrString{}
	}
	return intstr.FromString(strconv.FormatInt(int64(*mode), 8))
}
