package schema

import (
	"fmt"
	"strings"

	"github.com/pentops/golib/gl"
	"github.com/pentops/j5/lib/patherr"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// FromFiles builds a module from every message declared in the files,
// including nested messages. Map entry messages are not part of the module,
// map fields become MapRef.
func FromFiles(name string, files ...protoreflect.FileDescriptor) (*Module, error) {
	ll := &loader{
		module: NewModule(name),
		enums:  map[protoreflect.FullName]*Enum{},
	}
	for _, file := range files {
		if err := ll.addMessages(file.Messages()); err != nil {
			return nil, fmt.Errorf("file %s: %w", file.Path(), err)
		}
	}
	return ll.module, nil
}

type loader struct {
	module *Module
	enums  map[protoreflect.FullName]*Enum
}

func (ll *loader) addMessages(msgs protoreflect.MessageDescriptors) error {
	for i := 0; i < msgs.Len(); i++ {
		msgDesc := msgs.Get(i)
		if msgDesc.IsMapEntry() {
			continue
		}
		msg, err := ll.buildMessage(msgDesc)
		if err != nil {
			return err
		}
		if err := ll.module.AddMessage(msg); err != nil {
			return err
		}
		if err := ll.addMessages(msgDesc.Messages()); err != nil {
			return err
		}
	}
	return nil
}

func (ll *loader) buildMessage(msgDesc protoreflect.MessageDescriptor) (*Message, error) {
	msg := &Message{
		Name:        LocalName(msgDesc),
		FullName:    msgDesc.FullName(),
		Description: leadingComment(msgDesc),
	}

	fields := msgDesc.Fields()
	for i := 0; i < fields.Len(); i++ {
		fieldDesc := fields.Get(i)
		field, err := ll.buildField(fieldDesc)
		if err != nil {
			return nil, patherr.Wrap(err, string(msgDesc.FullName()), string(fieldDesc.Name()))
		}
		msg.Fields = append(msg.Fields, field)
	}
	return msg, nil
}

func (ll *loader) buildField(fieldDesc protoreflect.FieldDescriptor) (*Field, error) {
	fieldType, err := ll.fieldType(fieldDesc)
	if err != nil {
		return nil, err
	}

	field := &Field{
		Name:        string(fieldDesc.Name()),
		Type:        fieldType,
		Repeated:    fieldDesc.IsList(),
		Description: leadingComment(fieldDesc),
	}

	// Synthetic oneofs (proto3 optional) count too, they carry the same
	// 'maybe absent' meaning.
	if oneof := fieldDesc.ContainingOneof(); oneof != nil {
		field.Oneof = gl.Ptr(string(oneof.Name()))
	}
	return field, nil
}

func (ll *loader) fieldType(fieldDesc protoreflect.FieldDescriptor) (FieldType, error) {
	if fieldDesc.IsMap() {
		key, err := ll.fieldType(fieldDesc.MapKey())
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		value, err := ll.fieldType(fieldDesc.MapValue())
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		return MapRef{Key: key, Value: value}, nil
	}

	switch fieldDesc.Kind() {
	case protoreflect.EnumKind:
		return EnumRef{Enum: ll.enum(fieldDesc.Enum())}, nil

	case protoreflect.MessageKind, protoreflect.GroupKind:
		msgDesc := fieldDesc.Message()
		return MessageRef{
			Name:      LocalName(msgDesc),
			FullName:  msgDesc.FullName(),
			WellKnown: LookupWellKnown(msgDesc.FullName()),
		}, nil

	default:
		return Scalar{Kind: fieldDesc.Kind()}, nil
	}
}

func (ll *loader) enum(enumDesc protoreflect.EnumDescriptor) *Enum {
	if existing, ok := ll.enums[enumDesc.FullName()]; ok {
		return existing
	}

	enum := &Enum{
		Name:     LocalName(enumDesc),
		FullName: enumDesc.FullName(),
	}
	if parent, ok := enumDesc.Parent().(protoreflect.MessageDescriptor); ok {
		enum.Parent = parent.FullName()
	}
	values := enumDesc.Values()
	for i := 0; i < values.Len(); i++ {
		value := values.Get(i)
		enum.Values = append(enum.Values, EnumValue{
			Name:   string(value.Name()),
			Number: int32(value.Number()),
		})
	}
	ll.enums[enumDesc.FullName()] = enum
	return enum
}

// LocalName is the name of a message or enum within its package. Nested
// types join their parents with underscores, Outer.Inner becomes Outer_Inner.
func LocalName(desc protoreflect.Descriptor) string {
	full := string(desc.FullName())
	if file := desc.ParentFile(); file != nil && file.Package() != "" {
		full = strings.TrimPrefix(full, string(file.Package())+".")
	}
	return strings.ReplaceAll(full, ".", "_")
}

func leadingComment(desc protoreflect.Descriptor) string {
	file := desc.ParentFile()
	if file == nil {
		return ""
	}
	loc := file.SourceLocations().ByDescriptor(desc)
	return strings.TrimSpace(loc.LeadingComments)
}
