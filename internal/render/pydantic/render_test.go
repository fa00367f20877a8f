package pydantic

import (
	"strings"
	"testing"

	"github.com/pentops/protomodel/internal/translate"
	"github.com/pentops/protomodel/internal/typemap"
	"github.com/stretchr/testify/assert"
)

func assertLines(t *testing.T, want []string, got []byte) {
	t.Helper()
	wantText := strings.Join(want, "\n") + "\n"
	if !assert.Equal(t, wantText, string(got)) {
		for idx, line := range strings.Split(string(got), "\n") {
			t.Logf("%d: %s", idx+1, line)
		}
	}
}

func TestRenderPersonAddress(t *testing.T) {
	decls := []*translate.Declaration{{
		Name: "Address",
		Fields: []*translate.FieldDecl{{
			Name: "city",
			Type: typemap.BuiltinType(typemap.BuiltinString),
		}},
	}, {
		Name: "Person",
		Fields: []*translate.FieldDecl{{
			Name: "name",
			Type: typemap.BuiltinType(typemap.BuiltinString),
		}, {
			Name: "address",
			Type: typemap.NamedType("Address"),
		}, {
			Name: "tags",
			Type: typemap.ListOf(typemap.BuiltinType(typemap.BuiltinString)),
		}},
	}}

	out := Render(decls, DefaultOptions())
	assertLines(t, []string{
		"from typing import List",
		"",
		"from pydantic import BaseModel",
		"",
		"",
		"class Address(BaseModel):",
		"    city: str",
		"",
		"",
		"class Person(BaseModel):",
		"    name: str",
		"    address: Address",
		"    tags: List[str]",
	}, out)
}

func TestRenderEnumAndBuiltins(t *testing.T) {
	status := &typemap.EnumDecl{
		Name: "Status",
		Members: []typemap.EnumMember{
			{Name: "ACTIVE", Value: "ACTIVE", Number: 0},
			{Name: "INACTIVE", Value: "INACTIVE", Number: 1},
		},
	}
	decls := []*translate.Declaration{{
		Name:        "Account",
		Description: "An account holder.",
		Enums:       []*typemap.EnumDecl{status},
		Fields: []*translate.FieldDecl{{
			Name: "status",
			Type: typemap.NamedType("Status"),
			Enum: status,
		}, {
			Name:        "created_at",
			Description: "When the account was opened",
			Type:        typemap.BuiltinType(typemap.BuiltinDateTime),
		}, {
			Name: "extra",
			Type: typemap.OptionalOf(typemap.MapOf(
				typemap.BuiltinType(typemap.BuiltinString),
				typemap.BuiltinType(typemap.BuiltinAny),
			)),
		}, {
			Name: "ttl",
			Type: typemap.BuiltinType(typemap.BuiltinDuration),
		}},
	}}

	out := Render(decls, Options{BaseClass: "Model", BaseModule: "app.models", Indent: "  "})
	assertLines(t, []string{
		"from datetime import datetime, timedelta",
		"from enum import Enum",
		"from typing import Any, Dict, Optional",
		"",
		"from app.models import Model",
		"",
		"",
		"class Account(Model):",
		`  """An account holder."""`,
		"",
		"  class Status(Enum):",
		`    ACTIVE = "ACTIVE"`,
		`    INACTIVE = "INACTIVE"`,
		"",
		"  status: Status",
		"  # When the account was opened",
		"  created_at: datetime",
		"  extra: Optional[Dict[str, Any]]",
		"  ttl: timedelta",
	}, out)
}

func TestRenderEmptyMessage(t *testing.T) {
	out := Render([]*translate.Declaration{{Name: "Empty"}}, Options{})
	assertLines(t, []string{
		"from pydantic import BaseModel",
		"",
		"",
		"class Empty(BaseModel):",
		"    pass",
	}, out)
}

func TestRenderMultilineDocstring(t *testing.T) {
	out := Render([]*translate.Declaration{{
		Name:        "Note",
		Description: "First line\n\nSecond line",
		Fields: []*translate.FieldDecl{{
			Name: "body",
			Type: typemap.BuiltinType(typemap.BuiltinString),
		}},
	}}, Options{})
	assertLines(t, []string{
		"from pydantic import BaseModel",
		"",
		"",
		"class Note(BaseModel):",
		`    """First line`,
		"",
		"    Second line",
		`    """`,
		"",
		"    body: str",
	}, out)
}

func TestModuleFilename(t *testing.T) {
	assert.Equal(t, "shop/v1/shop_model.py", ModuleFilename("shop.v1"))
	assert.Equal(t, "orderItems/order_items_model.py", ModuleFilename("orderItems"))
	assert.Equal(t, "model.py", ModuleFilename(""))
}

func TestRenderDocstringQuotes(t *testing.T) {
	for _, tc := range []struct {
		description string
		want        string
	}{{
		description: `say "hi"`,
		want:        `    """say "hi\""""`,
	}, {
		description: `ends with """`,
		want:        `    """ends with \"\"\""""`,
	}, {
		description: `path C:\`,
		want:        `    """path C:\\"""`,
	}} {
		t.Run(tc.description, func(t *testing.T) {
			out := Render([]*translate.Declaration{{
				Name:        "Note",
				Description: tc.description,
			}}, Options{})
			assertLines(t, []string{
				"from pydantic import BaseModel",
				"",
				"",
				"class Note(BaseModel):",
				tc.want,
			}, out)
		})
	}
}
