package depgraph

import (
	"github.com/pentops/protomodel/internal/schema"
)

// Build adds a node per message and an edge for each direct message field
// and each map field with a message value. Well-known types are not nodes.
// A reference to a message missing from the module is an error, as is one
// whose full name differs from the module's message of the same name.
func Build(mod *schema.Module) (*Graph, error) {
	g := New()
	for _, msg := range mod.Messages {
		g.AddNode(msg.Name)
	}

	for _, msg := range mod.Messages {
		for _, field := range msg.Fields {
			target, ok := dependency(field.Type)
			if !ok {
				continue
			}
			if !declares(mod, target) {
				return nil, &schema.UnresolvedReferenceError{
					Message: msg.Name,
					Field:   field.Name,
					Target:  target.String(),
				}
			}
			g.AddEdge(msg.Name, target.Name)
		}
	}

	return g, nil
}

func dependency(ft schema.FieldType) (schema.MessageRef, bool) {
	switch ft := ft.(type) {
	case schema.MessageRef:
		if ft.WellKnown != schema.NotWellKnown {
			return schema.MessageRef{}, false
		}
		return ft, true
	case schema.MapRef:
		value, ok := ft.Value.(schema.MessageRef)
		if !ok || value.WellKnown != schema.NotWellKnown {
			return schema.MessageRef{}, false
		}
		return value, true
	default:
		return schema.MessageRef{}, false
	}
}

func declares(mod *schema.Module, ref schema.MessageRef) bool {
	msg := mod.Message(ref.Name)
	if msg == nil {
		return false
	}
	if ref.FullName == "" || msg.FullName == "" {
		return true
	}
	return msg.FullName == ref.FullName
}
