// Package translate turns a schema module into ordered type declarations.
package translate

import (
	"fmt"

	"github.com/pentops/protomodel/internal/depgraph"
	"github.com/pentops/protomodel/internal/schema"
	"github.com/pentops/protomodel/internal/typemap"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Declaration is one message's type, declared after every message it uses.
type Declaration struct {
	Name        string
	FullName    protoreflect.FullName
	Description string
	Fields      []*FieldDecl

	// Enums are the enum declarations nested in this message, in order of
	// first use, one per enum.
	Enums []*typemap.EnumDecl
}

type FieldDecl struct {
	Name        string
	Description string
	Type        typemap.TypeExpr

	// Enum is set when the field's type includes an enum.
	Enum *typemap.EnumDecl
}

// Translate declares every message of the module in dependency order.
func Translate(mod *schema.Module) ([]*Declaration, error) {
	graph, err := depgraph.Build(mod)
	if err != nil {
		return nil, err
	}

	order, err := graph.Order()
	if err != nil {
		return nil, err
	}

	known := typemap.NewKnownSet()
	decls := make([]*Declaration, 0, len(order))
	for _, name := range order {
		msg := mod.Message(name)
		if msg == nil {
			return nil, fmt.Errorf("message %q ordered but not in module %q", name, mod.Name)
		}

		decl, err := Message(msg, known)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
		known.AddMessage(msg.Name, msg.FullName)
	}

	return decls, nil
}

// Message declares a single message against the already declared names. The
// message's own name is not added to known.
func Message(msg *schema.Message, known *typemap.KnownSet) (*Declaration, error) {
	decl := &Declaration{
		Name:        msg.Name,
		FullName:    msg.FullName,
		Description: msg.Description,
		Fields:      make([]*FieldDecl, 0, len(msg.Fields)),
	}

	taken := referencedMessages(msg)
	seenEnums := map[string]struct{}{}
	for _, field := range msg.Fields {
		resolved, err := typemap.ResolveField(msg, field, known)
		if err != nil {
			return nil, err
		}

		decl.Fields = append(decl.Fields, &FieldDecl{
			Name:        field.Name,
			Description: field.Description,
			Type:        resolved.Type,
			Enum:        resolved.Enum,
		})

		if resolved.Enum == nil {
			continue
		}
		key := string(resolved.Enum.FullName)
		if key == "" {
			key = resolved.Enum.Name
		}
		if _, ok := seenEnums[key]; ok {
			continue
		}
		if existing, ok := taken[resolved.Enum.Name]; ok {
			return nil, &schema.EnumNameConflictError{
				Message:  msg.Name,
				Name:     resolved.Enum.Name,
				Existing: existing,
				Added:    resolved.Enum.FullName,
			}
		}
		taken[resolved.Enum.Name] = resolved.Enum.FullName
		seenEnums[key] = struct{}{}
		decl.Enums = append(decl.Enums, resolved.Enum)
	}

	return decl, nil
}

// referencedMessages maps the names of the messages msg's fields refer to,
// directly or as map values, to their full names.
func referencedMessages(msg *schema.Message) map[string]protoreflect.FullName {
	refs := map[string]protoreflect.FullName{}
	for _, field := range msg.Fields {
		ft := field.Type
		if mapRef, ok := ft.(schema.MapRef); ok {
			ft = mapRef.Value
		}
		ref, ok := ft.(schema.MessageRef)
		if !ok || ref.WellKnown != schema.NotWellKnown {
			continue
		}
		refs[ref.Name] = ref.FullName
	}
	return refs
}
