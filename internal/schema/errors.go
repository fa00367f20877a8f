package schema

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// UnknownScalarKindError is returned for a field kind with no target type.
type UnknownScalarKindError struct {
	Message string
	Field   string
	Kind    protoreflect.Kind
}

func (e *UnknownScalarKindError) Error() string {
	return fmt.Sprintf("field %s.%s: unknown scalar kind %v", e.Message, e.Field, e.Kind)
}

// UnresolvedReferenceError is returned when a field, directly or as a map
// value, refers to a message which is neither declared yet nor well-known.
type UnresolvedReferenceError struct {
	Message string
	Field   string
	Target  string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("field %s.%s: unresolved message reference %q", e.Message, e.Field, e.Target)
}

// InvalidMapKeyError is returned when a map key is not a scalar.
type InvalidMapKeyError struct {
	Message string
	Field   string
	KeyType string
}

func (e *InvalidMapKeyError) Error() string {
	return fmt.Sprintf("field %s.%s: map key must be a scalar, got %s", e.Message, e.Field, e.KeyType)
}

// CycleError lists the messages of a dependency cycle, starting and ending
// with the same message.
type CycleError struct {
	Messages []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Messages, " -> "))
}

type DuplicateMessageError struct {
	Name     string
	Existing protoreflect.FullName
	Added    protoreflect.FullName
}

func (e *DuplicateMessageError) Error() string {
	return fmt.Sprintf("message name %q used by both %s and %s", e.Name, e.Existing, e.Added)
}

// EnumNameConflictError is returned when an enum nested in a message would be
// declared under a name already taken by another enum or message the same
// message uses.
type EnumNameConflictError struct {
	Message  string
	Name     string
	Existing protoreflect.FullName
	Added    protoreflect.FullName
}

func (e *EnumNameConflictError) Error() string {
	return fmt.Sprintf("message %s: enum name %q used by both %s and %s", e.Message, e.Name, e.Existing, e.Added)
}
