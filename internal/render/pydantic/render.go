// Package pydantic renders declarations as Python pydantic models: a class
// per message, the message's enums as nested Enum classes.
package pydantic

import (
	"bytes"
	"path"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/pentops/protomodel/internal/translate"
	"github.com/pentops/protomodel/internal/typemap"
)

type Options struct {
	// BaseClass is the class every message extends, imported from
	// BaseModule.
	BaseClass  string
	BaseModule string
	Indent     string
}

func DefaultOptions() Options {
	return Options{
		BaseClass:  "BaseModel",
		BaseModule: "pydantic",
		Indent:     "    ",
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.BaseClass == "" {
		o.BaseClass = def.BaseClass
	}
	if o.BaseModule == "" {
		o.BaseModule = def.BaseModule
	}
	if o.Indent == "" {
		o.Indent = def.Indent
	}
	return o
}

// Render writes the declarations, in order, as one Python module.
func Render(decls []*translate.Declaration, options Options) []byte {
	options = options.withDefaults()

	root := NewStringGen(options.Indent)
	baseClass := root.Import(options.BaseModule, options.BaseClass)

	body := root.ChildGen()
	for idx, decl := range decls {
		if idx > 0 {
			body.P()
			body.P()
		}
		writeClass(body, decl, baseClass)
	}

	out := &bytes.Buffer{}
	for _, line := range root.importLines(options.BaseModule) {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if len(decls) > 0 {
		out.WriteString("\n\n")
		out.Write(body.Bytes())
	}
	return out.Bytes()
}

func writeClass(g *StringGen, decl *translate.Declaration, baseClass string) {
	g.P("class ", decl.Name, "(", baseClass, "):")
	inner := g.Indented()

	written := false
	if decl.Description != "" {
		writeDocstring(inner, decl.Description)
		written = true
	}

	for _, enum := range decl.Enums {
		if written {
			inner.P()
		}
		writeEnum(inner, enum)
		written = true
	}

	if len(decl.Fields) > 0 && written {
		inner.P()
	}
	for _, field := range decl.Fields {
		for _, line := range commentLines(field.Description) {
			inner.P("# ", line)
		}
		inner.P(field.Name, ": ", field.Type)
		written = true
	}

	if !written {
		inner.P("pass")
	}
	g.Append(inner)
}

func writeEnum(g *StringGen, enum *typemap.EnumDecl) {
	g.P("class ", enum.Name, "(", g.Import("enum", "Enum"), "):")
	members := g.Indented()
	for _, member := range enum.Members {
		members.P(member.Name, " = ", quote(member.Value))
	}
	if len(enum.Members) == 0 {
		members.P("pass")
	}
	g.Append(members)
}

func writeDocstring(g *StringGen, text string) {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `"""`, `\"\"\"`)
	lines := commentLines(text)
	if len(lines) == 1 {
		// A closing quote directly after the text would end the string early.
		line := lines[0]
		if strings.HasSuffix(line, `"`) && !escaped(line, len(line)-1) {
			line = line[:len(line)-1] + `\"`
		}
		g.P(`"""`, line, `"""`)
		return
	}
	g.P(`"""`, lines[0])
	for _, line := range lines[1:] {
		if line == "" {
			g.P()
			continue
		}
		g.P(line)
	}
	g.P(`"""`)
}

// escaped reports whether the byte at idx follows an odd run of backslashes.
func escaped(s string, idx int) bool {
	count := 0
	for i := idx - 1; i >= 0 && s[i] == '\\'; i-- {
		count++
	}
	return count%2 == 1
}

func commentLines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}

// ModuleFilename is the Python file generated for a proto package. The
// file is named after the package's second-to-last segment, as Go packages
// are named for versioned proto packages: shop.v1 becomes
// shop/v1/shop_model.py.
func ModuleFilename(protoPackage string) string {
	if protoPackage == "" {
		return "model.py"
	}
	parts := strings.Split(protoPackage, ".")
	name := parts[len(parts)-1]
	if len(parts) > 1 {
		name = parts[len(parts)-2]
	}
	return path.Join(path.Join(parts...), strcase.ToSnake(name)+"_model.py")
}
