// Package schema is the in-memory model of a protobuf module as seen by the
// translation engine. Field shapes are decided once, when the model is built,
// so nothing downstream inspects descriptor internals or type names.
package schema

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Module is a set of messages translated together. Message names are unique
// within a module.
type Module struct {
	Name     string
	Messages []*Message

	byName map[string]*Message
}

func NewModule(name string) *Module {
	return &Module{
		Name:   name,
		byName: map[string]*Message{},
	}
}

// AddMessage appends a message, failing if the name is already taken.
func (m *Module) AddMessage(msg *Message) error {
	if m.byName == nil {
		m.byName = map[string]*Message{}
	}
	if existing, ok := m.byName[msg.Name]; ok {
		return &DuplicateMessageError{
			Name:     msg.Name,
			Existing: existing.FullName,
			Added:    msg.FullName,
		}
	}
	m.byName[msg.Name] = msg
	m.Messages = append(m.Messages, msg)
	return nil
}

// Message returns the named message, or nil.
func (m *Module) Message(name string) *Message {
	return m.byName[name]
}

type Message struct {
	Name        string
	FullName    protoreflect.FullName
	Description string
	Fields      []*Field
}

type Field struct {
	Name        string
	Type        FieldType
	Repeated    bool
	Description string

	// Oneof is the name of the mutually exclusive group the field belongs to,
	// nil when the field is not part of one.
	Oneof *string
}

func (f *Field) InOneof() bool {
	return f.Oneof != nil
}

// Enum is named like a message, nested enums join their parents with
// underscores. Parent is the full name of the message the enum is declared
// in, empty for enums at file level.
type Enum struct {
	Name     string
	FullName protoreflect.FullName
	Parent   protoreflect.FullName
	Values   []EnumValue
}

// ShortName is the enum's own name, without any containing message.
func (e *Enum) ShortName() string {
	if e.FullName == "" {
		return e.Name
	}
	return string(e.FullName.Name())
}

type EnumValue struct {
	Name   string
	Number int32
}

// FieldType is one of Scalar, EnumRef, MessageRef or MapRef.
type FieldType interface {
	isFieldType()
	String() string
}

type Scalar struct {
	Kind protoreflect.Kind
}

type EnumRef struct {
	Enum *Enum
}

// MessageRef points at a message by its module name. WellKnown is set for
// the standard types which map to target builtins instead of declarations.
type MessageRef struct {
	Name      string
	FullName  protoreflect.FullName
	WellKnown WellKnownType
}

type MapRef struct {
	Key   FieldType
	Value FieldType
}

func (Scalar) isFieldType()     {}
func (EnumRef) isFieldType()    {}
func (MessageRef) isFieldType() {}
func (MapRef) isFieldType()     {}

func (s Scalar) String() string {
	return s.Kind.String()
}

func (e EnumRef) String() string {
	if e.Enum == nil {
		return "enum"
	}
	return "enum " + e.Enum.Name
}

func (r MessageRef) String() string {
	if r.FullName != "" {
		return string(r.FullName)
	}
	return r.Name
}

func (m MapRef) String() string {
	return "map<" + typeString(m.Key) + ", " + typeString(m.Value) + ">"
}

func typeString(ft FieldType) string {
	if ft == nil {
		return "<nil>"
	}
	return ft.String()
}
