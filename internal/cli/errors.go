package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type invalidEnumError struct {
	field   string
	value   string
	allowed string
}

func (e invalidEnumError) Error() string {
	return fmt.Sprintf("invalid %s: %s (allowed: %s)", e.field, e.value, e.allowed)
}

func errInvalidEnum(field, value, allowed string) error {
	return invalidEnumError{field: field, value: value, allowed: allowed}
}
