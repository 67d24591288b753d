package atemplate

import (
	"fmt"
	"strings"
)

type (
	// SchemaError reports type metadata that cannot be turned into a template.
	SchemaError struct {
		Type   string
		Field  string
		Reason string
		Cause  error
	}
)

func (r SchemaError) Error() string {
	var s strings.Builder
	s.WriteString("schema error")
	if r.Type != "" {
		s.WriteString(fmt.Sprintf(` in type "%s"`, r.Type))
	}
	if r.Field != "" {
		s.WriteString(fmt.Sprintf(` at field "%s"`, r.Field))
	}
	if r.Reason != "" {
		s.WriteString(": ")
		s.WriteString(r.Reason)
	}
	if r.Cause != nil {
		s.WriteString(": ")
		s.WriteString(r.Cause.Error())
	}
	return s.String()
}

func (r SchemaError) Unwrap() error {
	return r.Cause
}
