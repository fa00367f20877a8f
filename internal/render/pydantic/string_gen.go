package pydantic

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/pentops/protomodel/internal/typemap"
	"golang.org/x/exp/maps"
)

// StringGen accumulates Python source lines and the imports they need.
// Child generators share the parent's imports.
type StringGen struct {
	imports map[string]map[string]struct{}
	buf     *bytes.Buffer
	indent  string
	level   int
}

func NewStringGen(indent string) *StringGen {
	return &StringGen{
		imports: map[string]map[string]struct{}{},
		buf:     &bytes.Buffer{},
		indent:  indent,
	}
}

func (g *StringGen) ChildGen() *StringGen {
	return &StringGen{
		imports: g.imports,
		buf:     &bytes.Buffer{},
		indent:  g.indent,
		level:   g.level,
	}
}

// Indented returns a child which writes one level deeper.
func (g *StringGen) Indented() *StringGen {
	child := g.ChildGen()
	child.level++
	return child
}

// Import records 'from module import name' and returns the name to use.
func (g *StringGen) Import(module, name string) string {
	names, ok := g.imports[module]
	if !ok {
		names = map[string]struct{}{}
		g.imports[module] = names
	}
	names[name] = struct{}{}
	return name
}

// P prints a line at the generator's indent level. Parameters are joined the
// way fmt.Print joins them, without inserted spaces. TypeExpr parameters are
// written as Python annotations, importing what they use. An empty call
// prints an empty line.
func (g *StringGen) P(v ...interface{}) {
	if len(v) > 0 {
		g.buf.WriteString(strings.Repeat(g.indent, g.level))
	}
	for _, x := range v {
		if typeExpr, ok := x.(typemap.TypeExpr); ok {
			g.buf.WriteString(g.annotation(typeExpr))
		} else {
			fmt.Fprint(g.buf, x)
		}
	}
	g.buf.WriteByte('\n')
}

// Append copies the lines of a child generator.
func (g *StringGen) Append(child *StringGen) {
	g.buf.Write(child.buf.Bytes())
}

func (g *StringGen) Bytes() []byte {
	return g.buf.Bytes()
}

func (g *StringGen) annotation(t typemap.TypeExpr) string {
	switch t.Kind {
	case typemap.ExprBuiltin:
		return g.builtin(t.Builtin)
	case typemap.ExprNamed:
		return t.Name
	case typemap.ExprList:
		return g.Import("typing", "List") + "[" + g.annotation(*t.Elem) + "]"
	case typemap.ExprMap:
		return g.Import("typing", "Dict") + "[" + g.annotation(*t.Key) + ", " + g.annotation(*t.Elem) + "]"
	case typemap.ExprOptional:
		return g.Import("typing", "Optional") + "[" + g.annotation(*t.Elem) + "]"
	default:
		return g.Import("typing", "Any")
	}
}

func (g *StringGen) builtin(b typemap.Builtin) string {
	switch b {
	case typemap.BuiltinFloat:
		return "float"
	case typemap.BuiltinInt:
		return "int"
	case typemap.BuiltinBool:
		return "bool"
	case typemap.BuiltinString:
		return "str"
	case typemap.BuiltinDateTime:
		return g.Import("datetime", "datetime")
	case typemap.BuiltinDuration:
		return g.Import("datetime", "timedelta")
	default:
		return g.Import("typing", "Any")
	}
}

// importLines renders the recorded imports, one line per module, sorted.
// Modules listed in last are written after the others, separated by a blank
// line.
func (g *StringGen) importLines(last ...string) []string {
	lastSet := map[string]struct{}{}
	for _, module := range last {
		lastSet[module] = struct{}{}
	}

	modules := maps.Keys(g.imports)
	sort.Strings(modules)

	var first, second []string
	for _, module := range modules {
		names := maps.Keys(g.imports[module])
		sort.Strings(names)
		line := fmt.Sprintf("from %s import %s", module, strings.Join(names, ", "))
		if _, ok := lastSet[module]; ok {
			second = append(second, line)
		} else {
			first = append(first, line)
		}
	}

	if len(first) > 0 && len(second) > 0 {
		first = append(first, "")
	}
	return append(first, second...)
}
