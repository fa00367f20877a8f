package typemap

import (
	"fmt"

	"github.com/pentops/protomodel/internal/schema"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Resolved is the target type of one field, with the enum declaration the
// field needs alongside its message, if any.
type Resolved struct {
	Type TypeExpr
	Enum *EnumDecl
}

// EnumDecl is a string-backed enum: every member's value is its own name.
// Number keeps the wire value.
type EnumDecl struct {
	Name     string
	FullName protoreflect.FullName
	Members  []EnumMember
}

type EnumMember struct {
	Name   string
	Value  string
	Number int32
}

// Resolve maps a field of the named message. Message references must already
// be in known, or be well-known types.
func Resolve(message string, field *schema.Field, known *KnownSet) (*Resolved, error) {
	return ResolveField(&schema.Message{Name: message}, field, known)
}

// ResolveField maps a field of msg. Enums declared inside msg are named by
// their short name, others by their package-local name.
func ResolveField(msg *schema.Message, field *schema.Field, known *KnownSet) (*Resolved, error) {
	fr := fieldResolver{
		message: msg.Name,
		field:   field.Name,
		known:   known,
		scope:   msg,
	}

	resolved := &Resolved{}

	switch ft := field.Type.(type) {
	case schema.MapRef:
		mapType, enum, err := fr.mapType(ft)
		if err != nil {
			return nil, err
		}
		// Map fields are repeated entries on the wire, but never a list.
		resolved.Type = mapType
		resolved.Enum = enum

	default:
		elemType, enum, err := fr.valueType(ft)
		if err != nil {
			return nil, err
		}
		resolved.Type = elemType
		resolved.Enum = enum
		if field.Repeated {
			resolved.Type = ListOf(resolved.Type)
		}
	}

	if field.InOneof() {
		resolved.Type = OptionalOf(resolved.Type)
	}

	return resolved, nil
}

type fieldResolver struct {
	message string
	field   string
	known   *KnownSet
	scope   *schema.Message
}

func (fr fieldResolver) valueType(ft schema.FieldType) (TypeExpr, *EnumDecl, error) {
	switch ft := ft.(type) {
	case schema.Scalar:
		scalar, err := fr.scalarType(ft)
		if err != nil {
			return TypeExpr{}, nil, err
		}
		return scalar, nil, nil

	case schema.EnumRef:
		if ft.Enum == nil {
			return TypeExpr{}, nil, fmt.Errorf("field %s.%s: enum reference has no enum", fr.message, fr.field)
		}
		decl := enumDecl(ft.Enum, fr.enumName(ft.Enum))
		return NamedType(decl.Name), decl, nil

	case schema.MessageRef:
		msgType, err := fr.messageType(ft)
		if err != nil {
			return TypeExpr{}, nil, err
		}
		return msgType, nil, nil

	case schema.MapRef:
		return TypeExpr{}, nil, fmt.Errorf("field %s.%s: nested map type %s", fr.message, fr.field, ft)

	default:
		return TypeExpr{}, nil, fmt.Errorf("field %s.%s: unknown field type %T", fr.message, fr.field, ft)
	}
}

func (fr fieldResolver) scalarType(scalar schema.Scalar) (TypeExpr, error) {
	b, ok := ScalarType(scalar.Kind)
	if !ok {
		return TypeExpr{}, &schema.UnknownScalarKindError{
			Message: fr.message,
			Field:   fr.field,
			Kind:    scalar.Kind,
		}
	}
	return BuiltinType(b), nil
}

func (fr fieldResolver) messageType(ref schema.MessageRef) (TypeExpr, error) {
	switch ref.WellKnown {
	case schema.WellKnownStruct:
		return MapOf(BuiltinType(BuiltinString), BuiltinType(BuiltinAny)), nil
	case schema.WellKnownValue:
		return BuiltinType(BuiltinAny), nil
	case schema.WellKnownListValue:
		return ListOf(BuiltinType(BuiltinAny)), nil
	case schema.WellKnownTimestamp:
		return BuiltinType(BuiltinDateTime), nil
	case schema.WellKnownDuration:
		return BuiltinType(BuiltinDuration), nil
	}

	if fr.known.Matches(ref) {
		return NamedType(ref.Name), nil
	}

	return TypeExpr{}, &schema.UnresolvedReferenceError{
		Message: fr.message,
		Field:   fr.field,
		Target:  ref.String(),
	}
}

func (fr fieldResolver) mapType(mapRef schema.MapRef) (TypeExpr, *EnumDecl, error) {
	key, ok := mapRef.Key.(schema.Scalar)
	if !ok {
		keyType := "<nil>"
		if mapRef.Key != nil {
			keyType = mapRef.Key.String()
		}
		return TypeExpr{}, nil, &schema.InvalidMapKeyError{
			Message: fr.message,
			Field:   fr.field,
			KeyType: keyType,
		}
	}

	keyType, err := fr.scalarType(key)
	if err != nil {
		return TypeExpr{}, nil, err
	}

	if _, ok := mapRef.Value.(schema.MapRef); ok {
		return TypeExpr{}, nil, fmt.Errorf("field %s.%s: map value cannot be a map", fr.message, fr.field)
	}

	valueType, enum, err := fr.valueType(mapRef.Value)
	if err != nil {
		return TypeExpr{}, nil, err
	}

	return MapOf(keyType, valueType), enum, nil
}

// enumName is the name enum is declared under inside the resolving message.
// An enum declared in that message keeps its short name unless another enum
// or message the message uses already has it.
func (fr fieldResolver) enumName(enum *schema.Enum) string {
	if fr.scope == nil || enum.Parent == "" || enum.Parent != fr.scope.FullName {
		return enum.Name
	}
	short := enum.ShortName()
	for _, name := range usedNames(fr.scope, enum.FullName) {
		if name == short {
			return enum.Name
		}
	}
	return short
}

// usedNames lists the local names of the enums and messages referenced by
// msg's fields, leaving out the enum named skip.
func usedNames(msg *schema.Message, skip protoreflect.FullName) []string {
	names := []string{}
	add := func(ft schema.FieldType) {
		switch ft := ft.(type) {
		case schema.EnumRef:
			if ft.Enum != nil && ft.Enum.FullName != skip {
				names = append(names, ft.Enum.Name)
			}
		case schema.MessageRef:
			if ft.WellKnown == schema.NotWellKnown {
				names = append(names, ft.Name)
			}
		}
	}
	for _, field := range msg.Fields {
		if mapRef, ok := field.Type.(schema.MapRef); ok {
			add(mapRef.Value)
			continue
		}
		add(field.Type)
	}
	return names
}

func enumDecl(enum *schema.Enum, name string) *EnumDecl {
	decl := &EnumDecl{
		Name:     name,
		FullName: enum.FullName,
		Members:  make([]EnumMember, 0, len(enum.Values)),
	}
	for _, value := range enum.Values {
		decl.Members = append(decl.Members, EnumMember{
			Name:   value.Name,
			Value:  value.Name,
			Number: value.Number,
		})
	}
	return decl
}
