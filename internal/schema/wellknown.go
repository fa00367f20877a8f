package schema

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

// WellKnownType identifies the standard messages which translate to target
// builtins rather than to declarations of their own.
type WellKnownType int

const (
	NotWellKnown WellKnownType = iota
	WellKnownStruct
	WellKnownValue
	WellKnownListValue
	WellKnownTimestamp
	WellKnownDuration
)

// Matched on the full name only. A user message called Timestamp in its own
// package is an ordinary message.
var wellKnownTypes = map[protoreflect.FullName]WellKnownType{
	"google.protobuf.Struct":    WellKnownStruct,
	"google.protobuf.Value":     WellKnownValue,
	"google.protobuf.ListValue": WellKnownListValue,
	"google.protobuf.Timestamp": WellKnownTimestamp,
	"google.protobuf.Duration":  WellKnownDuration,
}

func LookupWellKnown(name protoreflect.FullName) WellKnownType {
	return wellKnownTypes[name]
}

func (wk WellKnownType) String() string {
	switch wk {
	case NotWellKnown:
		return "none"
	case WellKnownStruct:
		return "google.protobuf.Struct"
	case WellKnownValue:
		return "google.protobuf.Value"
	case WellKnownListValue:
		return "google.protobuf.ListValue"
	case WellKnownTimestamp:
		return "google.protobuf.Timestamp"
	case WellKnownDuration:
		return "google.protobuf.Duration"
	default:
		return "unknown"
	}
}
