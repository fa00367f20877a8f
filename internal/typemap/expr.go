// Package typemap maps schema fields to target type expressions.
package typemap

import (
	"fmt"
)

// Builtin is a target type which needs no declaration.
type Builtin int

const (
	BuiltinFloat Builtin = iota + 1
	BuiltinInt
	BuiltinBool
	BuiltinString
	BuiltinAny
	BuiltinDateTime
	BuiltinDuration
)

func (b Builtin) String() string {
	switch b {
	case BuiltinFloat:
		return "float"
	case BuiltinInt:
		return "int"
	case BuiltinBool:
		return "bool"
	case BuiltinString:
		return "string"
	case BuiltinAny:
		return "any"
	case BuiltinDateTime:
		return "datetime"
	case BuiltinDuration:
		return "duration"
	default:
		return fmt.Sprintf("Builtin(%d)", int(b))
	}
}

type ExprKind int

const (
	ExprBuiltin ExprKind = iota + 1
	ExprNamed
	ExprList
	ExprMap
	ExprOptional
)

// TypeExpr is a target type expression. Builtin is set for ExprBuiltin, Name
// for ExprNamed, Elem for lists, optionals and map values, Key for map keys.
type TypeExpr struct {
	Kind    ExprKind
	Builtin Builtin
	Name    string
	Key     *TypeExpr
	Elem    *TypeExpr
}

func BuiltinType(b Builtin) TypeExpr {
	return TypeExpr{Kind: ExprBuiltin, Builtin: b}
}

func NamedType(name string) TypeExpr {
	return TypeExpr{Kind: ExprNamed, Name: name}
}

func ListOf(elem TypeExpr) TypeExpr {
	return TypeExpr{Kind: ExprList, Elem: &elem}
}

func MapOf(key, value TypeExpr) TypeExpr {
	return TypeExpr{Kind: ExprMap, Key: &key, Elem: &value}
}

func OptionalOf(elem TypeExpr) TypeExpr {
	return TypeExpr{Kind: ExprOptional, Elem: &elem}
}

// String renders the expression in a neutral notation, e.g.
// Optional<List<string>> or Map<string, Address>.
func (t TypeExpr) String() string {
	switch t.Kind {
	case ExprBuiltin:
		return t.Builtin.String()
	case ExprNamed:
		return t.Name
	case ExprList:
		return "List<" + t.Elem.String() + ">"
	case ExprMap:
		return "Map<" + t.Key.String() + ", " + t.Elem.String() + ">"
	case ExprOptional:
		return "Optional<" + t.Elem.String() + ">"
	default:
		return "<invalid>"
	}
}

// Walk calls fn for the expression and each nested expression, outermost
// first.
func (t TypeExpr) Walk(fn func(TypeExpr)) {
	fn(t)
	if t.Key != nil {
		t.Key.Walk(fn)
	}
	if t.Elem != nil {
		t.Elem.Walk(fn)
	}
}
