package typemap

import (
	"github.com/pentops/protomodel/internal/schema"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// KnownSet is the ordered set of message names already declared. It is owned
// by a single translation and is not safe for concurrent use.
type KnownSet struct {
	names []string
	index map[string]protoreflect.FullName
}

func NewKnownSet(names ...string) *KnownSet {
	ks := &KnownSet{
		index: map[string]protoreflect.FullName{},
	}
	for _, name := range names {
		ks.Add(name)
	}
	return ks
}

// Add records name with no full name, returning false if it was already
// present.
func (ks *KnownSet) Add(name string) bool {
	return ks.AddMessage(name, "")
}

// AddMessage records a declared message under its local name, keeping the
// proto full name it was declared from.
func (ks *KnownSet) AddMessage(name string, fullName protoreflect.FullName) bool {
	if ks.index == nil {
		ks.index = map[string]protoreflect.FullName{}
	}
	if _, ok := ks.index[name]; ok {
		return false
	}
	ks.index[name] = fullName
	ks.names = append(ks.names, name)
	return true
}

func (ks *KnownSet) Has(name string) bool {
	if ks == nil {
		return false
	}
	_, ok := ks.index[name]
	return ok
}

// Matches reports whether ref points at a declared message. When both the
// reference and the declaration carry a full name they must be equal, so a
// same-named message from another package does not match.
func (ks *KnownSet) Matches(ref schema.MessageRef) bool {
	if ks == nil {
		return false
	}
	fullName, ok := ks.index[ref.Name]
	if !ok {
		return false
	}
	if fullName == "" || ref.FullName == "" {
		return true
	}
	return fullName == ref.FullName
}

// Names returns the names in the order they were added.
func (ks *KnownSet) Names() []string {
	if ks == nil {
		return nil
	}
	out := make([]string, len(ks.names))
	copy(out, ks.names)
	return out
}

func (ks *KnownSet) Len() int {
	if ks == nil {
		return 0
	}
	return len(ks.names)
}
