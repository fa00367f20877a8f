package typemap

import (
	"sort"

	"golang.org/x/exp/maps"
	"google.golang.org/protobuf/reflect/protoreflect"
)

var scalarTypes = map[protoreflect.Kind]Builtin{
	protoreflect.DoubleKind: BuiltinFloat,
	protoreflect.FloatKind:  BuiltinFloat,

	protoreflect.Int32Kind:    BuiltinInt,
	protoreflect.Int64Kind:    BuiltinInt,
	protoreflect.Uint32Kind:   BuiltinInt,
	protoreflect.Uint64Kind:   BuiltinInt,
	protoreflect.Fixed32Kind:  BuiltinInt,
	protoreflect.Fixed64Kind:  BuiltinInt,
	protoreflect.Sfixed32Kind: BuiltinInt,
	protoreflect.Sfixed64Kind: BuiltinInt,
	protoreflect.Sint32Kind:   BuiltinInt,
	protoreflect.Sint64Kind:   BuiltinInt,

	protoreflect.BoolKind: BuiltinBool,

	protoreflect.StringKind: BuiltinString,
	protoreflect.BytesKind:  BuiltinString,
}

// ScalarType returns the target type for a primitive field kind. Enum,
// message and group kinds are not scalars.
func ScalarType(kind protoreflect.Kind) (Builtin, bool) {
	b, ok := scalarTypes[kind]
	return b, ok
}

// ScalarKinds lists every kind ScalarType accepts, in kind number order.
func ScalarKinds() []protoreflect.Kind {
	kinds := maps.Keys(scalarTypes)
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i] < kinds[j]
	})
	return kinds
}
