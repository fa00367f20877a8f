package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/bufbuild/protocompile"
	"github.com/pentops/protomodel/internal/protosrc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
)

func compileFiles(t *testing.T, files map[string]string, filenames ...string) []protoreflect.FileDescriptor {
	t.Helper()
	resolver := &protocompile.SourceResolver{
		Accessor: protocompile.SourceAccessorFromMap(files),
	}
	compiled, err := protosrc.NewCompiler(resolver).Compile(context.Background(), filenames)
	if err != nil {
		t.Fatal(err)
	}
	return compiled
}

func TestFromFiles(t *testing.T) {
	files := compileFiles(t, map[string]string{
		"test.proto": `
		syntax = "proto3";
		package test.v1;

		import "google/protobuf/timestamp.proto";
		import "google/protobuf/struct.proto";

		enum Status {
			ACTIVE = 0;
			INACTIVE = 1;
		}

		// An account holder.
		message Account {
			// Display name
			string name = 1;
			Status status = 2;
			repeated string tags = 3;
			map<string, Address> addresses = 4;
			google.protobuf.Timestamp created_at = 5;
			google.protobuf.Struct extra = 6;
			optional int64 age = 7;
			oneof contact {
				string email = 8;
				string phone = 9;
			}
			Address.Geo location = 10;
			repeated Status history = 11;
		}

		message Address {
			string city = 1;
			message Geo {
				double lat = 1;
				double lng = 2;
			}
		}

		// Not a map entry, despite the name.
		message LabelEntry {
			string key = 1;
			string value = 2;
		}

		message Labelled {
			LabelEntry entry = 1;
			map<int32, Status> by_code = 2;
		}
		`,
	}, "test.proto")

	mod, err := FromFiles("test.v1", files...)
	require.NoError(t, err)

	names := []string{}
	for _, msg := range mod.Messages {
		names = append(names, msg.Name)
	}
	assert.Equal(t, []string{"Account", "Address", "Address_Geo", "LabelEntry", "Labelled"}, names)

	account := mod.Message("Account")
	require.NotNil(t, account)
	assert.Equal(t, protoreflect.FullName("test.v1.Account"), account.FullName)
	assert.Equal(t, "An account holder.", account.Description)
	require.Len(t, account.Fields, 11)

	byName := map[string]*Field{}
	for _, field := range account.Fields {
		byName[field.Name] = field
	}

	assert.Equal(t, Scalar{Kind: protoreflect.StringKind}, byName["name"].Type)
	assert.Equal(t, "Display name", byName["name"].Description)
	assert.False(t, byName["name"].Repeated)
	assert.False(t, byName["name"].InOneof())

	status, ok := byName["status"].Type.(EnumRef)
	require.True(t, ok)
	assert.Equal(t, "Status", status.Enum.Name)
	assert.Equal(t, []EnumValue{{Name: "ACTIVE", Number: 0}, {Name: "INACTIVE", Number: 1}}, status.Enum.Values)

	history, ok := byName["history"].Type.(EnumRef)
	require.True(t, ok)
	assert.Same(t, status.Enum, history.Enum)
	assert.True(t, byName["history"].Repeated)

	assert.True(t, byName["tags"].Repeated)

	addresses, ok := byName["addresses"].Type.(MapRef)
	require.True(t, ok, "addresses should be a map, got %s", byName["addresses"].Type)
	assert.False(t, byName["addresses"].Repeated)
	assert.Equal(t, Scalar{Kind: protoreflect.StringKind}, addresses.Key)
	assert.Equal(t, MessageRef{Name: "Address", FullName: "test.v1.Address"}, addresses.Value)

	assert.Equal(t, MessageRef{
		Name:      "Timestamp",
		FullName:  "google.protobuf.Timestamp",
		WellKnown: WellKnownTimestamp,
	}, byName["created_at"].Type)
	assert.Equal(t, WellKnownStruct, byName["extra"].Type.(MessageRef).WellKnown)

	require.True(t, byName["age"].InOneof())
	assert.Equal(t, "_age", *byName["age"].Oneof)
	require.True(t, byName["email"].InOneof())
	assert.Equal(t, "contact", *byName["email"].Oneof)
	assert.Equal(t, "contact", *byName["phone"].Oneof)

	assert.Equal(t, MessageRef{Name: "Address_Geo", FullName: "test.v1.Address.Geo"}, byName["location"].Type)

	labelled := mod.Message("Labelled")
	require.NotNil(t, labelled)
	assert.Equal(t, MessageRef{Name: "LabelEntry", FullName: "test.v1.LabelEntry"}, labelled.Fields[0].Type)
	byCode, ok := labelled.Fields[1].Type.(MapRef)
	require.True(t, ok)
	assert.Equal(t, Scalar{Kind: protoreflect.Int32Kind}, byCode.Key)
	assert.IsType(t, EnumRef{}, byCode.Value)
}

func TestFromFilesDuplicateName(t *testing.T) {
	files := compileFiles(t, map[string]string{
		"a.proto": `
		syntax = "proto3";
		package a.v1;
		message Item { string id = 1; }
		`,
		"b.proto": `
		syntax = "proto3";
		package b.v1;
		message Item { string id = 1; }
		`,
	}, "a.proto", "b.proto")

	_, err := FromFiles("combined", files...)
	dup := &DuplicateMessageError{}
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Equal(t, "Item", dup.Name)
	assert.Equal(t, protoreflect.FullName("a.v1.Item"), dup.Existing)
	assert.Equal(t, protoreflect.FullName("b.v1.Item"), dup.Added)
}

func TestLookupWellKnown(t *testing.T) {
	assert.Equal(t, WellKnownTimestamp, LookupWellKnown("google.protobuf.Timestamp"))
	assert.Equal(t, WellKnownDuration, LookupWellKnown("google.protobuf.Duration"))
	assert.Equal(t, NotWellKnown, LookupWellKnown("test.v1.Timestamp"))
	assert.Equal(t, NotWellKnown, LookupWellKnown("google.protobuf.Any"))
}

func TestFieldTypeString(t *testing.T) {
	mapType := MapRef{
		Key:   Scalar{Kind: protoreflect.StringKind},
		Value: MessageRef{Name: "Address", FullName: "test.v1.Address"},
	}
	assert.Equal(t, "map<string, test.v1.Address>", mapType.String())
	assert.Equal(t, "enum Status", EnumRef{Enum: &Enum{Name: "Status"}}.String())
}

func TestFromFilesNestedEnum(t *testing.T) {
	files := compileFiles(t, map[string]string{
		"order.proto": `
		syntax = "proto3";
		package shop.v1;

		enum Status {
			OPEN = 0;
		}

		message Order {
			enum Kind {
				ONLINE = 0;
			}
			Kind kind = 1;
			Status status = 2;
		}
		`,
	}, "order.proto")

	mod, err := FromFiles("shop.v1", files...)
	require.NoError(t, err)

	order := mod.Message("Order")
	require.NotNil(t, order)

	kind, ok := order.Fields[0].Type.(EnumRef)
	require.True(t, ok)
	assert.Equal(t, "Order_Kind", kind.Enum.Name)
	assert.Equal(t, "Kind", kind.Enum.ShortName())
	assert.Equal(t, protoreflect.FullName("shop.v1.Order.Kind"), kind.Enum.FullName)
	assert.Equal(t, protoreflect.FullName("shop.v1.Order"), kind.Enum.Parent)

	status, ok := order.Fields[1].Type.(EnumRef)
	require.True(t, ok)
	assert.Equal(t, "Status", status.Enum.Name)
	assert.Equal(t, "Status", status.Enum.ShortName())
	assert.Empty(t, status.Enum.Parent)
}

func TestFromFilesWellKnownNameReuse(t *testing.T) {
	files := compileFiles(t, map[string]string{
		"order.proto": `
		syntax = "proto3";
		package shop.v1;
		import "google/protobuf/timestamp.proto";

		message Timestamp {
			string iso = 1;
		}

		message Order {
			google.protobuf.Timestamp at = 1;
			Timestamp local = 2;
		}
		`,
	}, "order.proto")

	mod, err := FromFiles("shop.v1", files...)
	require.NoError(t, err)

	order := mod.Message("Order")
	require.NotNil(t, order)
	assert.Equal(t, MessageRef{
		Name:      "Timestamp",
		FullName:  "google.protobuf.Timestamp",
		WellKnown: WellKnownTimestamp,
	}, order.Fields[0].Type)
	assert.Equal(t, MessageRef{
		Name:     "Timestamp",
		FullName: "shop.v1.Timestamp",
	}, order.Fields[1].Type)
}
